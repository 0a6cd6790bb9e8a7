package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

// UserHandler exposes account administration and profile media endpoints.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GET /api/users/inactive
func (h *UserHandler) ListInactive(c *gin.Context) {
	users, err := h.users.ListInactive(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, users)
}

// POST /api/users/:id/activate
func (h *UserHandler) Activate(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	user, err := h.users.Activate(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// GET /api/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.users.Stats(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// PUT /api/auth/me/picture
func (h *UserHandler) UpdateProfilePicture(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	header, err := c.FormFile("picture")
	if err != nil {
		response.Error(c, errors.NewBadRequest("picture file is required"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, errors.NewBadRequest("unable to read picture file"))
		return
	}
	defer file.Close()

	user, err := h.users.UpdateProfilePicture(requestContext(c), userID, file, header.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
