package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/response"
)

// DepartmentHandler exposes the department catalog.
type DepartmentHandler struct {
	departments *services.DepartmentService
}

func NewDepartmentHandler(departments *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments}
}

type createDepartmentRequest struct {
	Name string `json:"name" validate:"required,min=2,max=120"`
	Code string `json:"code" validate:"required,min=2,max=16"`
}

// POST /api/departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req createDepartmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	department, err := h.departments.Create(requestContext(c), req.Name, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, department)
}

// GET /api/departments
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.departments.ListActive(requestContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, departments)
}

// GET /api/departments/:id
func (h *DepartmentHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	department, err := h.departments.Get(requestContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, department)
}
