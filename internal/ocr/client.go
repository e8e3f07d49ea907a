// Package ocr wraps the external document-text-detection service.
package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrUpstream is returned when the provider reports an HTTP error.
var ErrUpstream = errors.New("ocr provider request failed")

// UpstreamError carries the provider's status code so the HTTP surface
// can propagate it unchanged.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ocr provider request failed: status %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

var dataURIPrefix = regexp.MustCompile(`^data:image/[a-z]+;base64,`)

type Client struct {
	httpClient *resty.Client
	apiKey     string
}

func NewClient(apiKey string) *Client {
	client := resty.New()
	client.SetBaseURL("https://vision.googleapis.com")

	return &Client{
		httpClient: client,
		apiKey:     apiKey,
	}
}

type annotateRequest struct {
	Requests []annotateImageRequest `json:"requests"`
}

type annotateImageRequest struct {
	Image        image        `json:"image"`
	Features     []feature    `json:"features"`
	ImageContext imageContext `json:"imageContext"`
}

type image struct {
	Content string `json:"content"`
}

type feature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type imageContext struct {
	LanguageHints []string `json:"languageHints"`
}

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
}

type imageResponse struct {
	FullTextAnnotation *fullTextAnnotation `json:"fullTextAnnotation"`
	Error              *status             `json:"error"`
}

type fullTextAnnotation struct {
	Text string `json:"text"`
}

type status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// DetectText runs full-document text detection with a Japanese language
// hint. A response without any detected text is an empty-text success,
// not an error: "no text found" and "request failed" are distinct outcomes.
func (c *Client) DetectText(ctx context.Context, imageData string) (string, error) {
	content := dataURIPrefix.ReplaceAllString(imageData, "")

	requestBody := annotateRequest{
		Requests: []annotateImageRequest{
			{
				Image: image{Content: content},
				Features: []feature{
					{Type: "DOCUMENT_TEXT_DETECTION", MaxResults: 1},
				},
				ImageContext: imageContext{LanguageHints: []string{"ja"}},
			},
		},
	}

	res, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(requestBody).
		SetResult(&annotateResponse{}).
		Post("/v1/images:annotate")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post(/v1/images:annotate) > %w", err)
	}
	if res.IsError() {
		return "", &UpstreamError{
			StatusCode: res.StatusCode(),
			Message:    providerMessage(res.Body()),
		}
	}

	responseBody := res.Result().(*annotateResponse)
	if responseBody == nil || len(responseBody.Responses) == 0 {
		return "", nil
	}
	first := responseBody.Responses[0]
	if first.Error != nil {
		return "", &UpstreamError{StatusCode: first.Error.Code, Message: first.Error.Message}
	}
	if first.FullTextAnnotation == nil {
		return "", nil
	}
	return strings.TrimSpace(first.FullTextAnnotation.Text), nil
}

func providerMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}
