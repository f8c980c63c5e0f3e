package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/middleware"
	"github.com/velocityrent/rental-portal/internal/core/ports"
	"github.com/velocityrent/rental-portal/internal/core/service"
)

type loginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registerRequest struct {
	FullName        string `form:"fullName" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
	PhoneNumber     string `form:"phoneNumber"`
	Address         string `form:"address"`
}

type assignRoleRequest struct {
	Email string `form:"email" validate:"required,email"`
	Role  string `form:"role" validate:"required,oneof=customer employee"`
}

// AuthHandler covers login, registration, logout, and role assignment. The
// portal never checks passwords itself; credentials are forwarded to the
// fleet API and only the returned token is kept, server side, keyed by the
// session cookie.
type AuthHandler struct {
	accounts   ports.AccountAPI
	sessions   *service.SessionService
	sessionTTL time.Duration
	secure     bool
	log        zerolog.Logger
}

func NewAuthHandler(accounts ports.AccountAPI, sessions *service.SessionService, sessionTTL time.Duration, secure bool, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:   accounts,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		secure:     secure,
		log:        log,
	}
}

// LoginPage renders the login form. Already-authenticated visitors go home.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if middleware.SessionFrom(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, "login.html", viewData(c, "Login", map[string]any{
		"Email": "",
	}))
}

// Login exchanges the submitted credentials for a fleet API token and
// installs the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&req); err != nil {
		return h.loginError(c, req.Email, err.Error())
	}

	ctx := c.Request().Context()
	token, _, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		return h.loginError(c, req.Email, userMsg(err, "Login failed, please try again"))
	}

	sessionID, sess, err := h.sessions.Login(ctx, token)
	if err != nil {
		h.log.Error().Err(err).Msg("token from fleet API could not be decoded")
		return h.loginError(c, req.Email, "Login failed, please try again")
	}

	middleware.SetSessionCookie(c, sessionID, h.sessionTTL, h.secure)
	h.log.Info().Str("email", sess.Email).Str("role", sess.Role).Msg("user logged in")
	flashSuccess(c, "Welcome back, "+sess.FullName)
	return c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) loginError(c echo.Context, email, msg string) error {
	data := viewData(c, "Login", map[string]any{"Email": email})
	data["Flash"] = &Flash{Kind: "error", Message: msg}
	return c.Render(http.StatusOK, "login.html", data)
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	if middleware.SessionFrom(c) != nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, "register.html", viewData(c, "Register", map[string]any{
		"Form": registerRequest{},
	}))
}

// Register forwards the form to the fleet API. Accounts start as customers;
// an employee promotes them through role assignment afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&req); err != nil {
		return h.registerError(c, req, err.Error())
	}

	msg, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
	})
	if err != nil {
		return h.registerError(c, req, userMsg(err, "Registration failed, please try again"))
	}

	if msg == "" {
		msg = "Registration successful, please log in"
	}
	flashSuccess(c, msg)
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) registerError(c echo.Context, req registerRequest, msg string) error {
	req.Password = ""
	req.ConfirmPassword = ""
	data := viewData(c, "Register", map[string]any{"Form": req})
	data["Flash"] = &Flash{Kind: "error", Message: msg}
	return c.Render(http.StatusOK, "register.html", data)
}

// Logout drops the server-side token and clears the cookie. Always lands on
// the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	if id := middleware.SessionIDFrom(c); id != "" {
		if err := h.sessions.Logout(c.Request().Context(), id); err != nil {
			h.log.Warn().Err(err).Msg("logout cleanup failed")
		}
	}
	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusFound, "/login")
}

// Unauthorized renders the access-denied page the guard redirects to.
func (h *AuthHandler) Unauthorized(c echo.Context) error {
	return c.Render(http.StatusForbidden, "unauthorized.html", viewData(c, "Access Denied", nil))
}

// AssignRole promotes or demotes an account. Employee-gated by the router.
func (h *AuthHandler) AssignRole(c echo.Context) error {
	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&req); err != nil {
		flashError(c, err.Error())
		return c.Redirect(http.StatusFound, "/employee/upload")
	}

	msg, err := h.accounts.AssignRole(c.Request().Context(), req.Email, req.Role)
	if err != nil {
		flashError(c, userMsg(err, "Role assignment failed"))
		return c.Redirect(http.StatusFound, "/employee/upload")
	}
	if msg == "" {
		msg = "Role " + req.Role + " assigned to " + req.Email
	}
	flashSuccess(c, msg)
	return c.Redirect(http.StatusFound, "/employee/upload")
}
