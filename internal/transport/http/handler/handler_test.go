package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	shopID    = "6f1c2a9e-3f4b-4c1d-9e2a-1b2c3d4e5f60"
	barberID  = "0a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	serviceID = "9d8c7b6a-5f4e-4d3c-9b2a-1f0e9d8c7b6a"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return v
}

// fakeSigner satisfies the handler's sessionSigner.
type fakeSigner struct {
	sign func(s *domain.BookingSession) (string, error)
}

func (f fakeSigner) Sign(s *domain.BookingSession) (string, error) { return f.sign(s) }
func (f fakeSigner) TTL() time.Duration                            { return 30 * time.Minute }

