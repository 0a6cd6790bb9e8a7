package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

// GuestHandler exposes guest invitations and the guest-token event views.
type GuestHandler struct {
	guests *services.GuestService
}

func NewGuestHandler(guests *services.GuestService) *GuestHandler {
	return &GuestHandler{guests: guests}
}

type inviteGuestRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// POST /api/events/:id/guests
func (h *GuestHandler) Invite(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req inviteGuestRequest
	if !bindAndValidate(c, &req) {
		return
	}

	eventID := strings.TrimSpace(c.Param("id"))
	guest, err := h.guests.Register(requestContext(c), eventID, userID, currentRole(c), req.Email, req.Name, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, guest)
}

type guestLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/events/guests/login
func (h *GuestHandler) Login(c *gin.Context) {
	var req guestLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.guests.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GET /api/guest/events
func (h *GuestHandler) ListEvents(c *gin.Context) {
	claims, ok := currentGuest(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	events, err := h.guests.EventsFor(requestContext(c), claims.EventIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, events)
}

// GET /api/guest/events/:id
func (h *GuestHandler) GetEvent(c *gin.Context) {
	claims, ok := currentGuest(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	event, err := h.guests.EventFor(requestContext(c), claims.EventIDs, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, event)
}
