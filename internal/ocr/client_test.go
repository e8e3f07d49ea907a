package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	client := NewClient("vision-key")
	client.httpClient.SetBaseURL(ts.URL)
	return client
}

func TestClient_DetectText(t *testing.T) {
	t.Run("returns the trimmed full text annotation", func(t *testing.T) {
		var gotRequest annotateRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/images:annotate", r.URL.Path)
			assert.Equal(t, "vision-key", r.URL.Query().Get("key"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

			_ = json.NewEncoder(w).Encode(annotateResponse{
				Responses: []imageResponse{
					{FullTextAnnotation: &fullTextAnnotation{Text: "いろはにほへと\n"}},
				},
			})
		})

		text, err := client.DetectText(context.Background(), "data:image/jpeg;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "いろはにほへと", text)

		require.Len(t, gotRequest.Requests, 1)
		req := gotRequest.Requests[0]
		assert.Equal(t, "aGVsbG8=", req.Image.Content, "data URI prefix must be stripped")
		require.Len(t, req.Features, 1)
		assert.Equal(t, "DOCUMENT_TEXT_DETECTION", req.Features[0].Type)
		assert.Equal(t, 1, req.Features[0].MaxResults)
		assert.Equal(t, []string{"ja"}, req.ImageContext.LanguageHints)
	})

	t.Run("plain base64 without a data URI prefix is sent as is", func(t *testing.T) {
		var gotRequest annotateRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
			_ = json.NewEncoder(w).Encode(annotateResponse{})
		})

		_, err := client.DetectText(context.Background(), "aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "aGVsbG8=", gotRequest.Requests[0].Image.Content)
	})

	t.Run("no detected text is an empty-text success, not an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(annotateResponse{
				Responses: []imageResponse{{}},
			})
		})

		text, err := client.DetectText(context.Background(), "aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "", text)
	})

	t.Run("provider HTTP error propagates status and message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "Invalid image content"}}`))
		})

		_, err := client.DetectText(context.Background(), "not-base64")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUpstream)

		var upstreamErr *UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
		assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
		assert.Equal(t, "Invalid image content", upstreamErr.Message)
	})

	t.Run("per-image provider error is surfaced", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(annotateResponse{
				Responses: []imageResponse{
					{Error: &status{Code: 3, Message: "Bad image data"}},
				},
			})
		})

		_, err := client.DetectText(context.Background(), "aGVsbG8=")
		assert.ErrorIs(t, err, ErrUpstream)
	})
}
