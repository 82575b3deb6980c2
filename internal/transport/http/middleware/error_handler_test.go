// file: internal/transport/http/middleware/error_handler_test.go

package middleware

import (
	"CDCGateway/internal/core/port"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"unknown method", fmt.Errorf("%w: foo", port.ErrUnknownMethod), http.StatusBadRequest},
		{"missing parameter", fmt.Errorf("%w: disease is required", port.ErrMissingParameter), http.StatusBadRequest},
		{"invalid dataset", fmt.Errorf("%w: x", port.ErrInvalidDataset), http.StatusBadRequest},
		{"access denied", &port.OperationError{Method: "m", Err: fmt.Errorf("%w: id", port.ErrAccessDenied)}, http.StatusForbidden},
		{"not found", port.ErrDatasetNotFound, http.StatusNotFound},
		{"rate limited", fmt.Errorf("%w. Please try again later.", port.ErrRateLimited), http.StatusTooManyRequests},
		{"transport", fmt.Errorf("%w: HTTP 500", port.ErrTransport), http.StatusBadGateway},
		{"deadline", fmt.Errorf("%w: %w", port.ErrTransport, context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusFor(tc.err))
		})
	}
}

func newErrorEngine(err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), ErrorHandlingMiddleware())
	r.GET("/fail", func(c *gin.Context) { _ = c.Error(err) })
	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	return r
}

func TestErrorHandlingMiddleware_OperationErrorBody(t *testing.T) {
	opErr := &port.OperationError{
		Method: "search_dataset",
		Err:    fmt.Errorf("%w: dataset_name is required for search_dataset", port.ErrMissingParameter),
	}
	r := newErrorEngine(opErr)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "search_dataset", body["method"])
	assert.Equal(t, "missing required parameter: dataset_name is required for search_dataset", body["error"])
}

func TestErrorHandlingMiddleware_HidesInternalErrors(t *testing.T) {
	r := newErrorEngine(errors.New("secret detail"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret detail")
}

func TestErrorHandlingMiddleware_PassesSuccess(t *testing.T) {
	r := newErrorEngine(nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestRequestID(t *testing.T) {
	r := newErrorEngine(nil)

	t.Run("generated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ok", nil))
		_, err := uuid.Parse(rr.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
	})
}
