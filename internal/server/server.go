// Package server exposes the HTTP API consumed by the app clients.
package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/at-ishikawa/kobun/internal/entitlement"
	"github.com/at-ishikawa/kobun/internal/inference"
)

// EntitlementGateway is the identity-platform surface the handlers need.
type EntitlementGateway interface {
	ResolveUser(ctx context.Context, token string) (entitlement.User, error)
	Fetch(ctx context.Context, token, userID string) (entitlement.Entitlement, error)
	UpdateCredits(ctx context.Context, token, userID string, credits int) error
}

// TextRecognizer extracts text from an image.
type TextRecognizer interface {
	DetectText(ctx context.Context, imageData string) (string, error)
}

// CheckoutCreator starts a subscription purchase.
type CheckoutCreator interface {
	CreateSession(ctx context.Context, userID, origin string) (string, error)
}

// Handler carries the dependencies shared by all routes. Handlers are
// stateless: identity and entitlement are re-derived from the bearer
// token on every request.
type Handler struct {
	entitlements    EntitlementGateway
	inferenceClient inference.Client
	recognizer      TextRecognizer
	checkouts       CheckoutCreator
	logger          *slog.Logger
}

func NewHandler(
	entitlements EntitlementGateway,
	inferenceClient inference.Client,
	recognizer TextRecognizer,
	checkouts CheckoutCreator,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		entitlements:    entitlements,
		inferenceClient: inferenceClient,
		recognizer:      recognizer,
		checkouts:       checkouts,
		logger:          logger,
	}
}

// NewRouter builds the gin engine with the API routes and middleware.
func NewRouter(handler *Handler, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(corsMiddleware(allowedOrigins))

	router.POST("/analyze", handler.Analyze)
	router.POST("/ocr", handler.DetectText)
	router.POST("/checkout", handler.CreateCheckoutSession)
	return router
}

// bearerToken extracts the credential from an Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
