// Package checkout wraps the payment platform's checkout-session API.
//
// Activating the subscription after a completed checkout is done by a
// payment-platform webhook outside this codebase; it attributes the
// subscription to the user id carried in client_reference_id and the
// session metadata set here.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resty.dev/v3"
)

// ErrCreateSession is returned when the payment platform rejects the
// session-creation request.
var ErrCreateSession = errors.New("checkout session creation failed")

type Client struct {
	httpClient *resty.Client
	priceID    string
}

func NewClient(secretKey, priceID string) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.stripe.com")
	client.SetHeader("Authorization", "Bearer "+secretKey)
	client.SetHeader("Content-Type", "application/x-www-form-urlencoded")

	return &Client{
		httpClient: client,
		priceID:    priceID,
	}
}

func (c *Client) Close() error {
	return c.httpClient.Close()
}

type session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateSession creates a subscription checkout session for the fixed
// price point and returns the redirect URL. The user id is attached as
// both client_reference_id and metadata so the activation webhook can
// attribute the purchase.
func (c *Client) CreateSession(ctx context.Context, userID, origin string) (string, error) {
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"payment_method_types[0]": "card",
			"line_items[0][price]":    c.priceID,
			"line_items[0][quantity]": "1",
			"mode":                    "subscription",
			"success_url":             origin + "/pricing?success=true",
			"cancel_url":              origin + "/pricing?canceled=true",
			"client_reference_id":     userID,
			"metadata[user_id]":       userID,
		}).
		SetResult(&session{}).
		Post("/v1/checkout/sessions")
	if err != nil {
		return "", fmt.Errorf("%w: httpClient.Post > %v", ErrCreateSession, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("%w: status %d: %s", ErrCreateSession, res.StatusCode(), providerMessage(res.String()))
	}

	responseBody := res.Result().(*session)
	if responseBody == nil || responseBody.URL == "" {
		return "", fmt.Errorf("%w: session response without a redirect URL", ErrCreateSession)
	}
	return responseBody.URL, nil
}

func providerMessage(body string) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return body
}
