package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/at-ishikawa/kobun/internal/inference"
	"github.com/at-ishikawa/kobun/internal/ocr"
)

// fallbackOrigin is used for checkout redirect URLs when the client
// sends no Origin header.
const fallbackOrigin = "http://localhost:3000"

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	inference.Result
	Credits      int  `json:"credits"`
	IsSubscribed bool `json:"isSubscribed"`
}

// Analyze runs the gated text analysis. The credit gate is checked
// before the provider is called; the decrement afterwards is best
// effort so a billing hiccup never discards a finished analysis.
func (h *Handler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()
	logger := h.logger.With("requestID", c.GetString(requestIDKey))

	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	user, err := h.entitlements.ResolveUser(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	ent, err := h.entitlements.Fetch(ctx, token, user.ID)
	if err != nil {
		logger.Error("entitlement lookup failed", "error", err, "userID", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check credits"})
		return
	}
	if !ent.Subscribed && ent.Credits <= 0 {
		c.JSON(http.StatusForbidden, gin.H{
			"error":        "no credits remaining",
			"credits":      ent.Credits,
			"isSubscribed": ent.Subscribed,
		})
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := h.inferenceClient.Analyze(ctx, req.Text)
	if err != nil {
		logger.Error("analysis failed", "error", err, "userID", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	credits := ent.Credits
	if !ent.Subscribed {
		credits = ent.Credits - 1
		if credits < 0 {
			credits = 0
		}
		if err := h.entitlements.UpdateCredits(ctx, token, user.ID, credits); err != nil {
			// The analysis already succeeded; losing the decrement is
			// preferable to losing the result.
			logger.Warn("credit decrement failed", "error", err, "userID", user.ID)
		}
	}

	c.JSON(http.StatusOK, analyzeResponse{
		Result:       result,
		Credits:      credits,
		IsSubscribed: ent.Subscribed,
	})
}

type ocrRequest struct {
	ImageData string `json:"imageData"`
}

// DetectText extracts text from an uploaded image. An image without any
// recognizable text is a 200 with empty text, not an error.
func (h *Handler) DetectText(c *gin.Context) {
	ctx := c.Request.Context()
	logger := h.logger.With("requestID", c.GetString(requestIDKey))

	var req ocrRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageData is required"})
		return
	}

	text, err := h.recognizer.DetectText(ctx, req.ImageData)
	if err != nil {
		logger.Error("text detection failed", "error", err)

		status := http.StatusInternalServerError
		var upstreamErr *ocr.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.StatusCode >= 400 && upstreamErr.StatusCode <= 599 {
			status = upstreamErr.StatusCode
		}
		c.JSON(status, gin.H{"error": "text detection failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// CreateCheckoutSession starts a subscription purchase and returns the
// redirect URL of the hosted payment page.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	ctx := c.Request.Context()
	logger := h.logger.With("requestID", c.GetString(requestIDKey))

	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	user, err := h.entitlements.ResolveUser(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = fallbackOrigin
	}

	url, err := h.checkouts.CreateSession(ctx, user.ID, origin)
	if err != nil {
		logger.Error("checkout session creation failed", "error", err, "userID", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
