// Package entitlement wraps the remote identity platform that owns user
// accounts and their credit/subscription records.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthenticated is returned when a bearer credential cannot be
// exchanged for a user identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// User is the identity resolved from a bearer credential.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Entitlement is a user's current consumption allowance.
type Entitlement struct {
	Credits    int  `json:"credits"`
	Subscribed bool `json:"is_subscribed"`
}

// Gateway talks to a GoTrue/PostgREST style identity platform. It is
// stateless: the caller's bearer token is re-sent on every call so the
// platform's row-level security applies to each request.
type Gateway struct {
	httpClient *resty.Client
}

func NewGateway(baseURL, publicKey string) *Gateway {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("apikey", publicKey)
	client.SetHeader("Content-Type", "application/json")

	return &Gateway{httpClient: client}
}

// ResolveUser exchanges a bearer credential for a user identity.
func (g *Gateway) ResolveUser(ctx context.Context, token string) (User, error) {
	var user User
	res, err := g.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return User{}, fmt.Errorf("httpClient.Get(/auth/v1/user) > %w", err)
	}
	if res.IsError() || user.ID == "" {
		return User{}, fmt.Errorf("%w: status %d", ErrUnauthenticated, res.StatusCode())
	}
	return user, nil
}

type profileRow struct {
	Credits      int  `json:"credits"`
	IsSubscribed bool `json:"is_subscribed"`
}

// Fetch reads the entitlement record for a user. A user without a record
// is treated as {0, false}, not as an error.
func (g *Gateway) Fetch(ctx context.Context, token, userID string) (Entitlement, error) {
	var rows []profileRow
	res, err := g.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("id", "eq."+userID).
		SetQueryParam("select", "credits,is_subscribed").
		SetResult(&rows).
		Get("/rest/v1/profiles")
	if err != nil {
		return Entitlement{}, fmt.Errorf("httpClient.Get(/rest/v1/profiles) > %w", err)
	}
	if res.IsError() {
		return Entitlement{}, fmt.Errorf("entitlement lookup failed: status %d: %s", res.StatusCode(), res.String())
	}
	if len(rows) == 0 {
		return Entitlement{}, nil
	}
	return Entitlement{Credits: rows[0].Credits, Subscribed: rows[0].IsSubscribed}, nil
}

// UpdateCredits persists a new credit balance for a user.
func (g *Gateway) UpdateCredits(ctx context.Context, token, userID string, credits int) error {
	res, err := g.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("id", "eq."+userID).
		SetHeader("Prefer", "return=minimal").
		SetBody(map[string]int{"credits": credits}).
		Patch("/rest/v1/profiles")
	if err != nil {
		return fmt.Errorf("httpClient.Patch(/rest/v1/profiles) > %w", err)
	}
	if res.StatusCode() != http.StatusNoContent && res.IsError() {
		return fmt.Errorf("credit update failed: status %d: %s", res.StatusCode(), res.String())
	}
	return nil
}
