package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hortaviva/community-garden/internal/repository"
	"github.com/hortaviva/community-garden/internal/service/schedule"
)

func testContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPageParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, _ := testContext("/api/seeds")
		page, pageSize, err := pageParams(c)
		require.NoError(t, err)
		assert.Equal(t, 1, page)
		assert.Equal(t, 10, pageSize)
	})

	t.Run("explicit values", func(t *testing.T) {
		c, _ := testContext("/api/seeds?page=3&page_size=25")
		page, pageSize, err := pageParams(c)
		require.NoError(t, err)
		assert.Equal(t, 3, page)
		assert.Equal(t, 25, pageSize)
	})

	for _, target := range []string{
		"/api/seeds?page=0",
		"/api/seeds?page=-1",
		"/api/seeds?page=abc",
		"/api/seeds?page_size=0",
		"/api/seeds?page_size=101",
	} {
		t.Run(target, func(t *testing.T) {
			c, _ := testContext(target)
			_, _, err := pageParams(c)
			assert.Error(t, err)
		})
	}
}

func TestOrderParams(t *testing.T) {
	c, _ := testContext("/api/seeds?order_by=name_up&order_by=amount_down")
	assert.Equal(t, []string{"name_up", "amount_down"}, orderParams(c))

	c, _ = testContext("/api/seeds")
	assert.Empty(t, orderParams(c))
}

func TestFailMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", &schedule.ValidationError{Reason: "schedules must be sequential"}, http.StatusBadRequest, "schedules must be sequential"},
		{"no active interval", schedule.ErrNoActiveInterval, http.StatusBadRequest, "no active"},
		{"not found", repository.ErrSeedNotFound, http.StatusNotFound, "seed not found"},
		{"conflict", repository.ErrToolExists, http.StatusConflict, "already exists"},
		{"invalid refresh", repository.ErrTokenInvalid, http.StatusUnauthorized, "invalid refresh"},
		{"sync failure", schedule.ErrSyncFailed, http.StatusInternalServerError, "synchronization"},
		{"unknown", errors.New("write concern timeout"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := testContext("/api/seeds")
			require.NoError(t, fail(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.True(t, strings.Contains(rec.Body.String(), tc.body),
				"body %q should contain %q", rec.Body.String(), tc.body)
		})
	}
}
