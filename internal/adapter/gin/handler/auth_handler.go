package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"auth-service/internal/usecase/auth"
	pkgerrors "auth-service/pkg/errors"
	"auth-service/pkg/logger"
)

// Plain-text bodies written by the handlers.
const (
	SignupSuccessBody = "Signup Successful"
	LoginSuccessBody  = "Login Successful"
	signupFailureBody = "Error inserting record"
	loginFailureBody  = "Internal server error"
)

// AuthHandler handles HTTP requests for signup and login
type AuthHandler struct {
	uc  auth.Service
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc auth.Service, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:  uc,
		log: log,
	}
}

// SignupRequest represents the HTTP request body for creating an account
type SignupRequest struct {
	FirstName string `json:"firstname" form:"firstname"`
	LastName  string `json:"lastname" form:"lastname"`
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
}

// LoginRequest represents the HTTP request body for logging in
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse represents the HTTP response for a successful login
type LoginResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		// an unreadable body is treated as empty fields
		log.Warn("Unreadable signup body", zap.Error(err))
		req = SignupRequest{}
	}

	_, err := h.uc.Signup(c.Request.Context(), auth.SignupRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.writeError(c, err, signupFailureBody)
		return
	}

	c.String(http.StatusOK, SignupSuccessBody)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Unreadable login body", zap.Error(err))
		req = LoginRequest{}
	}

	resp, err := h.uc.Login(c.Request.Context(), auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(c, err, loginFailureBody)
		return
	}

	// the access log line for this request carries the user ID
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), resp.UserID))

	c.JSON(http.StatusOK, LoginResponse{
		Message: LoginSuccessBody,
		UserID:  resp.UserID,
	})
}

// writeError converts usecase errors to plain-text HTTP responses.
// Server-side failures never expose their cause to the caller.
func (h *AuthHandler) writeError(c *gin.Context, err error, internalBody string) {
	var ae *pkgerrors.AuthError
	if errors.As(err, &ae) && ae.HTTPStatus() < http.StatusInternalServerError {
		c.String(ae.HTTPStatus(), ae.Message)
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, internalBody)
}
