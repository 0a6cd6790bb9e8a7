package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

// PaymentHandler exposes course-registration payments.
type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPaymentRequest struct {
	RegistrationID string  `json:"registration_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Method         string  `json:"method" validate:"required"`
	TransactionID  string  `json:"transaction_id" validate:"omitempty,max=64"`
}

// POST /api/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	payment, err := h.payments.Create(requestContext(c), userID, services.CreatePaymentInput{
		RegistrationID: req.RegistrationID,
		Amount:         req.Amount,
		Method:         req.Method,
		TransactionID:  req.TransactionID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, payment)
}

// GET /api/payments
func (h *PaymentHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	payments, err := h.payments.List(requestContext(c), services.ListPaymentsInput{
		UserID: userID,
		Role:   currentRole(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, payments)
}

// GET /api/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	payment, err := h.payments.Get(requestContext(c), id, userID, currentRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, payment)
}

type updatePaymentRequest struct {
	Amount        *float64 `json:"amount" validate:"omitempty,gt=0"`
	Method        *string  `json:"method"`
	Status        *string  `json:"status" validate:"omitempty,oneof=pending completed failed"`
	TransactionID *string  `json:"transaction_id" validate:"omitempty,max=64"`
}

// PUT /api/payments/:id
func (h *PaymentHandler) Update(c *gin.Context) {
	var req updatePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	payment, err := h.payments.Update(requestContext(c), id, services.UpdatePaymentInput{
		Amount:        req.Amount,
		Method:        req.Method,
		Status:        req.Status,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, payment)
}

// DELETE /api/payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.payments.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
