package http

import (
	"net/http"
	"strings"

	"coopfin-backend/internal/domain/fault"

	"github.com/labstack/echo/v4"
)

// Actor identity rides in headers; the gateway in front of this service has
// already authenticated the user.
const (
	HeaderCooperativeID = "Cf-Cooperative-Id"
	HeaderUserID        = "Cf-User-Id"
)

type actor struct {
	CooperativeID string
	UserID        string
}

func actorFrom(c echo.Context) (actor, bool) {
	a := actor{
		CooperativeID: strings.TrimSpace(c.Request().Header.Get(HeaderCooperativeID)),
		UserID:        strings.TrimSpace(c.Request().Header.Get(HeaderUserID)),
	}
	return a, reHex32.MatchString(a.CooperativeID) && reHex32.MatchString(a.UserID)
}

func badActor(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: "missing or invalid " + HeaderCooperativeID + " / " + HeaderUserID,
	})
}

func statusOf(err error) int {
	switch fault.KindOf(err) {
	case fault.Validation:
		return http.StatusBadRequest
	case fault.NotFound:
		return http.StatusNotFound
	case fault.Forbidden:
		return http.StatusForbidden
	case fault.Conflict:
		return http.StatusConflict
	case fault.InvalidTransition:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// faultJSON writes a business error with its mapped status. Unclassified
// errors come back as an opaque 500 so internals never leak to clients.
func faultJSON(c echo.Context, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		c.Logger().Error(err)
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
