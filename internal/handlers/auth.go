package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"frame-lab-backend/internal/models"
	"frame-lab-backend/internal/session"
)

type AuthHandler struct {
	guard *session.Guard
}

func NewAuthHandler(guard *session.Guard) *AuthHandler {
	return &AuthHandler{
		guard: guard,
	}
}

// Register godoc
// @Summary     Register a new account
// @Description Creates a credential-store account and its profile row. Accounts start inactive and must be activated before login.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.RegisterRequest true "Registration data"
// @Success     201 {object} models.RegisterResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := h.guard.Register(req.Email, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "registration failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.RegisterResponse{
		Email:   req.Email,
		Message: "account created, awaiting activation",
	})
}

// Login godoc
// @Summary     Log in
// @Description Authenticates, mints a new session token, and makes this instance the account's sole active session.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.LoginRequest true "Credentials"
// @Success     200 {object} models.SessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	token, err := h.guard.Login(req.Email, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, session.ErrInvalidCredentials) && !errors.Is(err, session.ErrAccountInactive) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "login failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		Authenticated: true,
		Email:         h.guard.Email(),
		SessionToken:  token,
	})
}

// Logout godoc
// @Summary     Log out
// @Description Clears the remote active session (guarded, unless forced) and tears down the local session.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.LogoutRequest false "Logout options"
// @Success     200 {object} models.SessionResponse
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.LogoutRequest
	// Body is optional; a bare POST is a graceful logout.
	_ = c.ShouldBindJSON(&req)

	if err := h.guard.Logout(req.Forced); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "logout failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{Authenticated: false})
}

// GetSession godoc
// @Summary     Current session state
// @Description Reports whether this instance holds the account's active session. The UI calls this at startup.
// @Tags        auth
// @Produce     json
// @Success     200 {object} models.SessionResponse
// @Router      /auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	if !h.guard.IsAuthenticated() {
		c.JSON(http.StatusOK, models.SessionResponse{Authenticated: false})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		Authenticated: true,
		Email:         h.guard.Email(),
		SessionToken:  h.guard.SessionToken(),
	})
}
