package router

import (
	"net/http"
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"
	echoSwagger "github.com/swaggo/echo-swagger"

	"induohouse/internal/config"
	"induohouse/internal/errors"
	"induohouse/internal/handler"
	"induohouse/internal/middleware"
)

var postalCodeRe = regexp.MustCompile(`^\d{2}-\d{3}$`)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	session echo.MiddlewareFunc,
	authHandler *handler.AuthHandler,
	propertyHandler *handler.PropertyHandler,
) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
	}))

	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded images are served straight from the upload directory.
	e.Static("/uploads/images", cfg.UploadDir)

	api := e.Group("", session)

	// Public routes
	api.POST("/api/auth/register", authHandler.Register)
	api.POST("/api/auth/login", authHandler.Login)
	api.POST("/api/auth/refresh", authHandler.Refresh)
	api.POST("/api/auth/logout", authHandler.Logout)

	api.GET("/api/properties", propertyHandler.GetAll)
	api.GET("/api/properties/search", propertyHandler.Search)
	api.GET("/api/properties/city/:city", propertyHandler.GetByCity)
	api.GET("/api/properties/type/:type", propertyHandler.GetByType)
	api.GET("/api/properties/user/:userId", propertyHandler.GetByUser)
	api.GET("/api/properties/price-range", propertyHandler.GetByPriceRange)
	api.GET("/api/properties/:id", propertyHandler.GetByID)

	// Secured routes (require a valid auth cookie)
	secured := api.Group("/api", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "cookie:" + cfg.CookieName,
		ErrorHandler: func(c echo.Context, err error) error {
			return errors.ErrUnauthorized
		},
	}), middleware.RequireAuth)

	secured.GET("/auth/me", authHandler.Me)
	secured.GET("/users/me", authHandler.Me)
	secured.GET("/properties/my", propertyHandler.My)
	secured.POST("/properties", propertyHandler.Create)
	secured.PATCH("/properties/:id", propertyHandler.Patch)
	secured.DELETE("/properties/:id", propertyHandler.Delete)
	secured.POST("/properties/:id/images", propertyHandler.UploadImage)
	secured.DELETE("/properties/:propertyId/images/:imageId", propertyHandler.DeleteImage)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator with domain-specific rules.
func NewValidator() *CustomValidator {
	v := validator.New()

	// Postal codes follow the NN-NNN pattern.
	_ = v.RegisterValidation("postalcode", func(fl validator.FieldLevel) bool {
		return postalCodeRe.MatchString(fl.Field().String())
	})

	// Let numeric tags (gt, lte) apply to decimal fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// errorHandler turns every error into the structured wire body: domain errors
// via their status mapping, validation errors with per-field messages, and
// anything unknown into a generic 500 without internal detail.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	path := c.Request().URL.Path

	var body errors.ErrorResponse
	switch e := err.(type) {
	case validator.ValidationErrors:
		fieldErrors := make(map[string]string, len(e))
		for _, fe := range e {
			fieldErrors[fe.Field()] = "failed validation: " + fe.Tag()
		}
		httpErr := errors.NewHTTPError(http.StatusBadRequest, "Validation Failed", "one or more fields are invalid")
		body = httpErr.ToErrorResponse(path)
		body.FieldErrors = fieldErrors
	case *echo.HTTPError:
		msg, ok := e.Message.(string)
		if !ok {
			msg = http.StatusText(e.Code)
		}
		body = errors.NewHTTPError(e.Code, http.StatusText(e.Code), msg).ToErrorResponse(path)
	default:
		httpErr := errors.MapErrorToHTTP(err)
		if httpErr.StatusCode == http.StatusInternalServerError {
			c.Logger().Error(err)
		}
		body = httpErr.ToErrorResponse(path)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(body.Status)
		return
	}
	_ = c.JSON(body.Status, body)
}
