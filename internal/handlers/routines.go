package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

// RoutineHandler exposes the class timetable.
type RoutineHandler struct {
	routines *services.RoutineService
}

func NewRoutineHandler(routines *services.RoutineService) *RoutineHandler {
	return &RoutineHandler{routines: routines}
}

type routineRequest struct {
	CourseID     string `json:"course_id" validate:"required"`
	TeacherID    string `json:"teacher_id" validate:"required"`
	DepartmentID string `json:"department_id" validate:"required"`
	Day          string `json:"day" validate:"required"`
	Period       int    `json:"period" validate:"required,min=1,max=8"`
	RoomNumber   string `json:"room_number" validate:"required,max=32"`
	Section      string `json:"section" validate:"required,min=1,max=8"`
}

func (r routineRequest) input() services.RoutineInput {
	return services.RoutineInput{
		CourseID:     r.CourseID,
		TeacherID:    r.TeacherID,
		DepartmentID: r.DepartmentID,
		Day:          r.Day,
		Period:       r.Period,
		RoomNumber:   r.RoomNumber,
		Section:      r.Section,
	}
}

// POST /api/routines
func (h *RoutineHandler) Create(c *gin.Context) {
	var req routineRequest
	if !bindAndValidate(c, &req) {
		return
	}

	routine, err := h.routines.Create(requestContext(c), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, routine)
}

// PUT /api/routines/:id
func (h *RoutineHandler) Update(c *gin.Context) {
	var req routineRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	routine, err := h.routines.Update(requestContext(c), id, req.input())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, routine)
}

// GET /api/routines/:id
func (h *RoutineHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	routine, err := h.routines.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, routine)
}

// GET /api/routines
func (h *RoutineHandler) List(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	routines, err := h.routines.ListFor(requestContext(c), userID, currentRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, routines)
}

// DELETE /api/routines/:id
func (h *RoutineHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.routines.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
