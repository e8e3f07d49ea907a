package server

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newMiddlewareRouter() http.Handler {
	handler := NewHandler(&stubGateway{}, nil, &stubRecognizer{}, &stubCheckout{}, slog.New(slog.DiscardHandler))
	return NewRouter(handler, []string{"http://localhost:3000"})
}

func TestRequestIDMiddleware(t *testing.T) {
	router := newMiddlewareRouter()

	t.Run("assigns an id when the client sends none", func(t *testing.T) {
		res := performRequest(router, http.MethodPost, "/ocr", `{}`, nil)
		assert.NotEmpty(t, res.Header().Get("X-Request-ID"))
	})

	t.Run("keeps the client's id", func(t *testing.T) {
		res := performRequest(router, http.MethodPost, "/ocr", `{}`, map[string]string{
			"X-Request-ID": "req-123",
		})
		assert.Equal(t, "req-123", res.Header().Get("X-Request-ID"))
	})
}

func TestCORSMiddleware(t *testing.T) {
	router := newMiddlewareRouter()

	t.Run("allowed origin is echoed back", func(t *testing.T) {
		res := performRequest(router, http.MethodPost, "/ocr", `{"imageData": "aGVsbG8="}`, map[string]string{
			"Origin": "http://localhost:3000",
		})
		assert.Equal(t, "http://localhost:3000", res.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		res := performRequest(router, http.MethodPost, "/ocr", `{"imageData": "aGVsbG8="}`, map[string]string{
			"Origin": "https://evil.example.com",
		})
		assert.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is a 204", func(t *testing.T) {
		res := performRequest(router, http.MethodOptions, "/analyze", "", map[string]string{
			"Origin": "http://localhost:3000",
		})
		assert.Equal(t, http.StatusNoContent, res.Code)
	})
}
