package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/korepetycje-admin/internal/middleware"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error)
	Me(ctx context.Context, userID string) (*models.UserInfo, error)
}

// SessionConfig describes the session cookie.
type SessionConfig struct {
	CookieName string
	Secure     bool
}

// AuthHandler wires the login, register and logout flows.
type AuthHandler struct {
	service authService
	session SessionConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, session SessionConfig) *AuthHandler {
	return &AuthHandler{service: svc, session: session}
}

type loginVM struct {
	BaseVM
	Email string
	Error string
}

type registerVM struct {
	BaseVM
	FullName string
	Email    string
	Error    string
}

// LoginPage renders the sign-in form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	response.Page(c, http.StatusOK, "login.html", loginVM{BaseVM: newBaseVM(c, "Logowanie", "")})
}

// LoginSubmit signs the user in and stores the session cookie.
func (h *AuthHandler) LoginSubmit(c *gin.Context) {
	var req models.LoginRequest
	_ = c.ShouldBind(&req)
	req.Email = strings.TrimSpace(req.Email)
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		vm := loginVM{BaseVM: newBaseVM(c, "Logowanie", ""), Email: req.Email, Error: userMessage(err)}
		response.Page(c, appErrors.FromError(err).Status, "login.html", vm)
		return
	}

	h.startSession(c, res)
	c.Redirect(http.StatusSeeOther, middleware.DashboardPath)
}

// RegisterPage renders the sign-up form.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	response.Page(c, http.StatusOK, "register.html", registerVM{BaseVM: newBaseVM(c, "Rejestracja", "")})
}

// RegisterSubmit creates a staff account and signs it in.
func (h *AuthHandler) RegisterSubmit(c *gin.Context) {
	var req models.RegisterRequest
	_ = c.ShouldBind(&req)

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		vm := registerVM{
			BaseVM:   newBaseVM(c, "Rejestracja", ""),
			FullName: req.FullName,
			Email:    req.Email,
			Error:    userMessage(err),
		}
		response.Page(c, appErrors.FromError(err).Status, "register.html", vm)
		return
	}

	h.startSession(c, res)
	redirectWithFlash(c, middleware.DashboardPath, middleware.FlashSuccess, "Konto zostało utworzone")
}

// Logout drops the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSession(c, h.session.CookieName)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *AuthHandler) startSession(c *gin.Context, res *models.LoginResponse) {
	middleware.SetSession(c, h.session.CookieName, res.AccessToken, int(res.ExpiresIn), h.session.Secure)
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Me godoc
// @Summary Get current user
// @Description Returns the authenticated user's info
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	info, err := h.service.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, info, nil)
}
