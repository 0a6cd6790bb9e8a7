package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nazmulhs/campushub/internal/services"
	"github.com/nazmulhs/campushub/pkg/errors"
	"github.com/nazmulhs/campushub/pkg/response"
)

// AuthHandler manages account flows (register/login/OTP verification/me).
type AuthHandler struct {
	users *services.UserService
	otp   *services.OTPService
}

func NewAuthHandler(users *services.UserService, otp *services.OTPService) *AuthHandler {
	return &AuthHandler{users: users, otp: otp}
}

type registerRequest struct {
	StudentID    string `json:"student_id" validate:"required,min=3,max=32"`
	Email        string `json:"email" validate:"required,email"`
	Name         string `json:"name" validate:"required,min=2,max=120"`
	Password     string `json:"password" validate:"required,min=8,max=128"`
	Role         string `json:"role" validate:"omitempty,oneof=student teacher"`
	Batch        string `json:"batch" validate:"omitempty,max=16"`
	DepartmentID string `json:"department_id" validate:"required"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Register(requestContext(c), services.RegisterInput{
		StudentID:    req.StudentID,
		Email:        req.Email,
		Name:         req.Name,
		Password:     req.Password,
		Role:         req.Role,
		Batch:        req.Batch,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":    user,
		"message": "verification code sent to your email",
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.users.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,min=6,max=6"`
}

// POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.otp.Verify(requestContext(c), req.Email, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":    user,
		"message": "email verified, awaiting account activation",
	})
}

type resendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /api/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req resendOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.otp.Resend(requestContext(c), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "verification code sent"})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	fresh, err := h.users.Get(requestContext(c), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, fresh)
}

type updateProfileRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=120"`
	Batch        *string `json:"batch" validate:"omitempty,max=16"`
	DepartmentID *string `json:"department_id"`
	Email        *string `json:"email" validate:"omitempty,email"`
}

// PUT /api/auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(requestContext(c), userID, services.UpdateProfileInput{
		Name:         req.Name,
		Batch:        req.Batch,
		DepartmentID: req.DepartmentID,
		Email:        req.Email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, user)
}
