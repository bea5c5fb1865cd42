package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"induohouse/internal/config"
	"induohouse/internal/errors"
	"induohouse/internal/middleware"
	"induohouse/internal/model"
	"induohouse/internal/service"
)

// refreshCookieName holds the refresh token; scoped to the auth endpoints.
const refreshCookieName = "refresh_token"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"omitempty,max=100"`
	LastName  string `json:"lastName" validate:"omitempty,max=100"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public profile returned by auth endpoints.
type UserResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, tokens, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return err
	}

	h.setAuthCookies(c, tokens)
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setAuthCookies(c, tokens)
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Refresh godoc
// @Summary Exchange the refresh cookie for a fresh access token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return errors.ErrInvalidRefreshToken
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return err
	}

	c.SetCookie(h.cookie(h.cfg.CookieName, accessToken, h.cfg.CookieMaxAge, "/"))
	return c.JSON(http.StatusOK, map[string]string{"message": "token refreshed"})
}

// Logout godoc
// @Summary Log out - clears the auth cookies
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		_ = h.authService.Logout(c.Request().Context(), cookie.Value)
	}

	c.SetCookie(h.cookie(h.cfg.CookieName, "", -1, "/"))
	c.SetCookie(h.cookie(refreshCookieName, "", -1, "/api/auth"))
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// Me godoc
// @Summary Return the authenticated user's profile
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	current, ok := middleware.UserFromContext(c)
	if !ok {
		return errors.ErrUnauthorized
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), current.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) setAuthCookies(c echo.Context, tokens *service.TokenPair) {
	c.SetCookie(h.cookie(h.cfg.CookieName, tokens.AccessToken, h.cfg.CookieMaxAge, "/"))
	c.SetCookie(h.cookie(refreshCookieName, tokens.RefreshToken, h.cfg.CookieMaxAge, "/api/auth"))
}

func (h *AuthHandler) cookie(name, value string, maxAge int, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
