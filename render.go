package blockpage

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// apiError is the JSON error body of every /api/ response.
type apiError struct {
	Detail string `json:"detail"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidPage):
		return http.StatusBadRequest
	case errors.Is(err, ErrSlugTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (a *App) apiErrorHandler(err error, c echo.Context) {
	code := statusFor(err)
	detail := http.StatusText(code)
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		if msg, ok := he.Message.(string); ok {
			detail = msg
		}
	case code == http.StatusNotFound:
		detail = "Page not found"
	case code < 500:
		detail = err.Error()
	}
	if code >= 500 {
		c.Logger().Errorf("api error: %v", err)
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, apiError{Detail: detail})
}
