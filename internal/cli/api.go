// Package cli implements the interactive command line surface.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"resty.dev/v3"

	"github.com/at-ishikawa/kobun/internal/inference"
)

// ErrAPICredits is returned when the server rejects an analysis because
// the account has no credits left.
var ErrAPICredits = errors.New("no credits remaining")

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// AnalyzeResult is an analysis plus the account state after it.
type AnalyzeResult struct {
	inference.Result
	Credits      int  `json:"credits"`
	IsSubscribed bool `json:"isSubscribed"`
}

// APIClient talks to the kobun server.
type APIClient struct {
	httpClient *resty.Client
}

func NewAPIClient(serverURL, accessToken string) *APIClient {
	client := resty.New()
	client.SetBaseURL(serverURL)
	client.SetHeader("Content-Type", "application/json")
	if accessToken != "" {
		client.SetAuthToken(accessToken)
	}
	return &APIClient{httpClient: client}
}

func (c *APIClient) Close() error {
	return c.httpClient.Close()
}

// Analyze submits text for analysis.
func (c *APIClient) Analyze(ctx context.Context, text string) (AnalyzeResult, error) {
	var result AnalyzeResult
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		SetResult(&result).
		Post("/analyze")
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("httpClient.Post(/analyze) > %w", err)
	}
	if res.IsError() {
		if res.StatusCode() == http.StatusForbidden {
			return AnalyzeResult{}, fmt.Errorf("%w: subscribe or wait for your credits to refresh", ErrAPICredits)
		}
		return AnalyzeResult{}, &APIError{StatusCode: res.StatusCode(), Message: serverMessage(res.String())}
	}
	return result, nil
}

// DetectText extracts text from a base64 encoded image.
func (c *APIClient) DetectText(ctx context.Context, imageData string) (string, error) {
	var result struct {
		Text string `json:"text"`
	}
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"imageData": imageData}).
		SetResult(&result).
		Post("/ocr")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post(/ocr) > %w", err)
	}
	if res.IsError() {
		return "", &APIError{StatusCode: res.StatusCode(), Message: serverMessage(res.String())}
	}
	return result.Text, nil
}

// CreateCheckoutSession asks the server for a hosted payment page URL.
func (c *APIClient) CreateCheckoutSession(ctx context.Context) (string, error) {
	var result struct {
		URL string `json:"url"`
	}
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Post("/checkout")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post(/checkout) > %w", err)
	}
	if res.IsError() {
		return "", &APIError{StatusCode: res.StatusCode(), Message: serverMessage(res.String())}
	}
	return result.URL, nil
}

func serverMessage(body string) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil && parsed.Error != "" {
		return parsed.Error
	}
	return body
}
