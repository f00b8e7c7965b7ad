package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hortaviva/community-garden/internal/model"
)

func jsonContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func minorBirthDate() string {
	return time.Now().UTC().AddDate(-10, 0, 0).Format(model.DateLayout)
}

// The adult check must reject the record before anything reaches the
// store, so the handlers run here without a database.

func TestGroundDonateStoreValidation(t *testing.T) {
	h := NewGroundDonateHandler(nil)

	t.Run("minor rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{"name":"Ana","email":"ana@example.com","ground_address":"Rua A, 1","birth_date":%q}`, minorBirthDate())
		c, rec := jsonContext(http.MethodPost, "/api/grounds-donates", body)
		require.NoError(t, h.Store(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "18 years")
	})

	t.Run("birth date required", func(t *testing.T) {
		c, rec := jsonContext(http.MethodPost, "/api/grounds-donates",
			`{"name":"Ana","email":"ana@example.com","ground_address":"Rua A, 1"}`)
		require.NoError(t, h.Store(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "birth_date is required")
	})
}

func TestGroundDonateUpdateValidation(t *testing.T) {
	h := NewGroundDonateHandler(nil)

	t.Run("minor rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{"birth_date":%q}`, minorBirthDate())
		c, rec := jsonContext(http.MethodPut, "/api/grounds-donates/123", body)
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "18 years")
	})

	t.Run("empty ground_address rejected", func(t *testing.T) {
		c, rec := jsonContext(http.MethodPut, "/api/grounds-donates/123", `{"ground_address":"  "}`)
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "ground_address cannot be empty")
	})
}

func TestVoluntaryRequestStoreValidation(t *testing.T) {
	h := NewVoluntaryRequestHandler(nil)

	t.Run("minor rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{"name":"Bia","email":"bia@example.com","birth_date":%q}`, minorBirthDate())
		c, rec := jsonContext(http.MethodPost, "/api/voluntaries-requests", body)
		require.NoError(t, h.Store(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "18 years")
	})

	t.Run("birth date required", func(t *testing.T) {
		c, rec := jsonContext(http.MethodPost, "/api/voluntaries-requests",
			`{"name":"Bia","email":"bia@example.com"}`)
		require.NoError(t, h.Store(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "birth_date is required")
	})
}

func TestVoluntaryRequestUpdateValidation(t *testing.T) {
	h := NewVoluntaryRequestHandler(nil)

	t.Run("minor rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{"birth_date":%q}`, minorBirthDate())
		c, rec := jsonContext(http.MethodPut, "/api/voluntaries-requests/123", body)
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "18 years")
	})

	t.Run("empty email rejected", func(t *testing.T) {
		c, rec := jsonContext(http.MethodPut, "/api/voluntaries-requests/123", `{"email":""}`)
		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "email cannot be empty")
	})
}
