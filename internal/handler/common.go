package handler // handler defines the HTTP handlers of the API

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hortaviva/community-garden/internal/repository"
	"github.com/hortaviva/community-garden/internal/service/schedule"
	"github.com/hortaviva/community-garden/internal/utils"
)

// Listing defaults and bounds shared by every paginated endpoint.
const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageParams reads page and page_size from the query string, applying
// defaults and rejecting out-of-range values.
func pageParams(c echo.Context) (page, pageSize int, err error) {
	page = defaultPage
	if raw := c.QueryParam("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
	}
	pageSize = defaultPageSize
	if raw := c.QueryParam("page_size"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			return 0, 0, errors.New("page_size must be between 1 and 100")
		}
	}
	return page, pageSize, nil
}

// orderParams collects the repeated order_by query parameter. Values
// look like "name_up" or "amount_down"; unknown suffixes are caught by
// the repository layer, which ignores them.
func orderParams(c echo.Context) []string {
	return c.QueryParams()["order_by"]
}

// fail translates layer errors into JSON error responses. Sentinel
// checks use errors.Is so wrapped entity-specific errors match their
// base class.
func fail(c echo.Context, err error) error {
	var verr *schedule.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Reason})
	case errors.Is(err, schedule.ErrNoActiveInterval):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, utils.ErrNotPositive), errors.Is(err, utils.ErrUnderage):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrTokenInvalid):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	case errors.Is(err, schedule.ErrSyncFailed):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bed synchronization failed"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// badRequest is a shorthand for simple validation failures inside
// handlers.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
