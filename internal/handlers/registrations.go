package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

// RegistrationHandler exposes a member's own course registrations.
type RegistrationHandler struct {
	registrations *services.RegistrationService
}

func NewRegistrationHandler(registrations *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

type createRegistrationRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Section  string `json:"section" validate:"required,min=1,max=8"`
}

// POST /api/registrations
func (h *RegistrationHandler) Create(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createRegistrationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	registration, err := h.registrations.Create(requestContext(c), userID, req.CourseID, req.Section)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, registration)
}

// GET /api/registrations
func (h *RegistrationHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	registrations, err := h.registrations.ListForStudent(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, registrations)
}

// GET /api/registrations/:id
func (h *RegistrationHandler) Get(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	registration, err := h.registrations.Get(requestContext(c), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, registration)
}

type updateSectionRequest struct {
	Section string `json:"section" validate:"required,min=1,max=8"`
}

// PUT /api/registrations/:id
func (h *RegistrationHandler) UpdateSection(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateSectionRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	registration, err := h.registrations.UpdateSection(requestContext(c), userID, id, req.Section)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, registration)
}

// DELETE /api/registrations/:id
func (h *RegistrationHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if err := h.registrations.Delete(requestContext(c), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
