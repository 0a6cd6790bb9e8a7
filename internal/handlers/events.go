package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

// EventHandler exposes events, event registration, and fee verification.
type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type createEventRequest struct {
	Title               string         `json:"title" validate:"required,min=2,max=200"`
	Description         string         `json:"description" validate:"omitempty,max=5000"`
	StartTime           time.Time      `json:"start_time" validate:"required"`
	EndTime             time.Time      `json:"end_time" validate:"required"`
	Venue               string         `json:"venue" validate:"omitempty,max=200"`
	IsPaid              bool           `json:"is_paid"`
	FeeAmount           float64        `json:"fee_amount" validate:"omitempty,gte=0"`
	PaymentInstructions string         `json:"payment_instructions" validate:"omitempty,max=2000"`
	ManagerIDs          []string       `json:"manager_ids"`
	DepartmentIDs       []string       `json:"department_ids"`
	BatchesAllowed      map[string]any `json:"batches_allowed"`
}

// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createEventRequest
	if !bindAndValidate(c, &req) {
		return
	}

	event, err := h.events.Create(requestContext(c), userID, services.CreateEventInput{
		Title:               req.Title,
		Description:         req.Description,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Venue:               req.Venue,
		IsPaid:              req.IsPaid,
		FeeAmount:           req.FeeAmount,
		PaymentInstructions: req.PaymentInstructions,
		ManagerIDs:          req.ManagerIDs,
		DepartmentIDs:       req.DepartmentIDs,
		BatchesAllowed:      req.BatchesAllowed,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, event)
}

// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.ListActive(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, events)
}

// GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	event, err := h.events.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, event)
}

type updateEventRequest struct {
	Title               *string    `json:"title" validate:"omitempty,min=2,max=200"`
	Description         *string    `json:"description" validate:"omitempty,max=5000"`
	StartTime           *time.Time `json:"start_time"`
	EndTime             *time.Time `json:"end_time"`
	Venue               *string    `json:"venue" validate:"omitempty,max=200"`
	PaymentInstructions *string    `json:"payment_instructions" validate:"omitempty,max=2000"`
}

// PUT /api/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateEventRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	event, err := h.events.Update(requestContext(c), id, userID, currentRole(c), services.UpdateEventInput{
		Title:               req.Title,
		Description:         req.Description,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Venue:               req.Venue,
		PaymentInstructions: req.PaymentInstructions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, event)
}

// POST /api/events/:id/end
func (h *EventHandler) End(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if err := h.events.End(requestContext(c), id, userID, currentRole(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"ended": true})
}

// POST /api/events/:id/register
func (h *EventHandler) Register(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	registration, err := h.events.Register(requestContext(c), id, user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, registration)
}

// GET /api/events/:id/registrations
func (h *EventHandler) ListRegistrations(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	registrations, err := h.events.ListRegistrations(requestContext(c), id, userID, currentRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, registrations)
}

type submitEventPaymentRequest struct {
	RegistrationID string  `json:"registration_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Method         string  `json:"method" validate:"required"`
	TrxID          string  `json:"trx_id" validate:"required,max=64"`
	Screenshot     string  `json:"screenshot" validate:"omitempty,url"`
}

// POST /api/events/payments
func (h *EventHandler) SubmitPayment(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req submitEventPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	payment, err := h.events.SubmitPayment(requestContext(c), userID, services.SubmitEventPaymentInput{
		RegistrationID: req.RegistrationID,
		Amount:         req.Amount,
		Method:         req.Method,
		TrxID:          req.TrxID,
		Screenshot:     req.Screenshot,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, payment)
}

type verifyEventPaymentRequest struct {
	Approve bool `json:"approve"`
}

// POST /api/events/payments/:id/verify
func (h *EventHandler) VerifyPayment(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req verifyEventPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	payment, err := h.events.VerifyPayment(requestContext(c), id, userID, currentRole(c), req.Approve)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, payment)
}
