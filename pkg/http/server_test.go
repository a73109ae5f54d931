package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applogger "BuyBio/pkg/logger"
)

type routes map[string]echo.HandlerFunc

func (r routes) RegisterRoutes(e *echo.Echo) {
	for path, h := range r {
		e.GET(path, h)
	}
}

func do(t *testing.T, s *Server, method, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestServerRegistersHandlerRoutes(t *testing.T) {
	s := NewServer(routes{
		"/ping": func(c echo.Context) error { return SuccessResponse(c, "pong") },
	}, applogger.Nop(), WithMetrics(false))

	rec := do(t, s, http.MethodGet, "/ping", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 200, body.Status)
	assert.Equal(t, "OK", body.Message)
	assert.Equal(t, "pong", body.Data)

	rec = do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerMetricsEndpoint(t *testing.T) {
	s := NewServer(routes{
		"/ping": func(c echo.Context) error { return SuccessResponse(c, nil) },
	}, applogger.Nop())

	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/ping", nil).Code)
	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestServerRecoversFromPanic(t *testing.T) {
	s := NewServer(routes{
		"/boom": func(c echo.Context) error { panic("boom") },
	}, applogger.Nop(), WithMetrics(false))

	rec := do(t, s, http.MethodGet, "/boom", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 500, decode(t, rec).Status)
}

func TestServerCORS(t *testing.T) {
	s := NewServer(routes{
		"/ping": func(c echo.Context) error { return SuccessResponse(c, nil) },
	}, applogger.Nop(), WithMetrics(false), WithCORSOrigins([]string{"https://bio.example"}))

	rec := do(t, s, http.MethodOptions, "/ping", map[string]string{echo.HeaderOrigin: "https://bio.example"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://bio.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))

	rec = do(t, s, http.MethodGet, "/ping", map[string]string{echo.HeaderOrigin: "https://other.example"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestAppErrorResponse(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "app error",
			err:    ServiceUnavailableError("ERR_METADATA_UNAVAILABLE", "company metadata unavailable"),
			status: http.StatusServiceUnavailable,
			code:   "ERR_METADATA_UNAVAILABLE",
		},
		{
			name:   "wrapped app error",
			err:    fmt.Errorf("rank: %w", BadRequestError("tag", "tag out of range")),
			status: http.StatusBadRequest,
			code:   "ERR_BAD_REQUEST",
		},
		{
			name:   "plain error",
			err:    errors.New("disk on fire"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, AppErrorResponse(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)

			if tt.code == "" {
				assert.Equal(t, "Something went wrong", decode(t, rec).Data)
				return
			}
			var body struct {
				Data []AppError `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Len(t, body.Data, 1)
			assert.Equal(t, tt.code, body.Data[0].Code)
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("workbook missing")
	err := InternalError("load failed").WithError(cause).WithParam("path", "a.xlsx")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load failed: workbook missing", err.Error())
	assert.Equal(t, "a.xlsx", err.Params["path"])
}
