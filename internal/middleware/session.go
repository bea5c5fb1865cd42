package middleware

import (
	"github.com/labstack/echo/v4"

	"induohouse/internal/auth"
	"induohouse/internal/errors"
	"induohouse/internal/model"
	"induohouse/internal/repository"
)

// currentUserKey is the request-scoped echo context key holding *model.User.
const currentUserKey = "currentUser"

// Session extracts the bearer credential from the configured cookie, validates
// it and loads the full user record into the request context. Requests with a
// missing or invalid token continue as anonymous; authorization happens
// downstream, never here.
func Session(jwtService *auth.JWTService, userRepo repository.UserRepository, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := jwtService.ValidateToken(cookie.Value)
			if err != nil {
				return next(c)
			}

			user, err := userRepo.FindByEmail(c.Request().Context(), claims.Email)
			if err != nil {
				return next(c)
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// RequireAuth rejects requests that carry no authenticated identity.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := UserFromContext(c); !ok {
			return errors.ErrUnauthorized
		}
		return next(c)
	}
}

// UserFromContext returns the authenticated user of the request, if any.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(currentUserKey).(*model.User)
	return user, ok && user != nil
}
