// Package controllers contains the HTTP handlers. Controllers bind and
// validate input, call a service, and translate the result into a response
// envelope; they hold no business logic.
package controllers

import (
	"errors"
	"net/http"

	"github.com/zaikahq/zaika/app/services"
	"github.com/zaikahq/zaika/pkg/ctx"
	"github.com/zaikahq/zaika/pkg/logger"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Name                 string `json:"name" validate:"required,min=2,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,confirmed"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Register handles POST /api/register.
func (ct *AuthController) Register(c *ctx.Context) {
	var req registerRequest
	if !c.BindJSON(&req) {
		return
	}

	user, err := ct.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
		c.Created(map[string]interface{}{"id": user.ID, "name": user.Name, "email": user.Email})
	case errors.Is(err, services.ErrEmailTaken):
		c.Conflict("Email is already registered.")
	default:
		logger.WithCtx(c.Context()).Error("auth: register failed", "error", err)
		c.Error(http.StatusInternalServerError, "something went wrong")
	}
}

// Login handles POST /api/login.
func (ct *AuthController) Login(c *ctx.Context) {
	var req loginRequest
	if !c.BindJSON(&req) {
		return
	}

	tokens, err := ct.auth.Login(c.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.Success(tokens)
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized("Invalid email or password.")
	default:
		logger.WithCtx(c.Context()).Error("auth: login failed", "error", err)
		c.Error(http.StatusInternalServerError, "something went wrong")
	}
}

// Refresh handles POST /api/refresh.
func (ct *AuthController) Refresh(c *ctx.Context) {
	var req refreshRequest
	if !c.BindJSON(&req) {
		return
	}

	tokens, err := ct.auth.Refresh(c.Context(), req.RefreshToken)
	switch {
	case err == nil:
		c.Success(tokens)
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Unauthorized("Refresh token is invalid or expired.")
	default:
		logger.WithCtx(c.Context()).Error("auth: refresh failed", "error", err)
		c.Error(http.StatusInternalServerError, "something went wrong")
	}
}
