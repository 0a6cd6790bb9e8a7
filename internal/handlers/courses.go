package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

// CourseHandler exposes the course catalog and its resource lists.
type CourseHandler struct {
	courses *services.CourseService
}

func NewCourseHandler(courses *services.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

type createCourseRequest struct {
	CourseCode   string `json:"course_code" validate:"required,min=3,max=16"`
	Title        string `json:"title" validate:"required,min=2,max=200"`
	CreditHour   int    `json:"credit_hour" validate:"required,min=1,max=6"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// POST /api/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req createCourseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courses.Create(requestContext(c), services.CreateCourseInput{
		CourseCode:   req.CourseCode,
		Title:        req.Title,
		CreditHour:   req.CreditHour,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, course)
}

// GET /api/courses
func (h *CourseHandler) List(c *gin.Context) {
	departmentID := strings.TrimSpace(c.Query("department_id"))
	courses, err := h.courses.List(requestContext(c), departmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, courses)
}

// GET /api/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	course, err := h.courses.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

type updateCourseRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=2,max=200"`
	CreditHour   *int    `json:"credit_hour" validate:"omitempty,min=1,max=6"`
	DepartmentID *string `json:"department_id"`
}

// PUT /api/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateCourseRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courses.Update(requestContext(c), id, services.UpdateCourseInput{
		Title:        req.Title,
		CreditHour:   req.CreditHour,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, course)
}

// DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.courses.Delete(requestContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type resourceRequest struct {
	Field string `json:"field" validate:"required,oneof=mid_theory_resources mid_previous_solves final_resources final_previous_solves"`
	URL   string `json:"url" validate:"required,url"`
}

// POST /api/courses/:id/resources
func (h *CourseHandler) AddResource(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req resourceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courses.AddResource(requestContext(c), id, req.Field, req.URL)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, course)
}

type updateResourceRequest struct {
	Field  string `json:"field" validate:"required,oneof=mid_theory_resources mid_previous_solves final_resources final_previous_solves"`
	OldURL string `json:"old_url" validate:"required,url"`
	NewURL string `json:"new_url" validate:"required,url"`
}

// PUT /api/courses/:id/resources
func (h *CourseHandler) UpdateResource(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req updateResourceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courses.UpdateResource(requestContext(c), id, req.Field, req.OldURL, req.NewURL)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, course)
}

// DELETE /api/courses/:id/resources
func (h *CourseHandler) DeleteResource(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req resourceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	course, err := h.courses.DeleteResource(requestContext(c), id, req.Field, req.URL)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, course)
}

// GET /api/courses/:id/resources
func (h *CourseHandler) Resources(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	resources, err := h.courses.ResourcesFor(requestContext(c), id, userID, currentRole(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, resources)
}
