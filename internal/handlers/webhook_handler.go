package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terraviva/backend/internal/queue"
)

// WebhookHandler receives events from the commerce platform. Handlers
// only verify and enqueue; the actual processing is retryable queue
// work.
type WebhookHandler struct {
	queue  queue.QueueInterface
	secret string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(q queue.QueueInterface, webhookSecret string) *WebhookHandler {
	return &WebhookHandler{queue: q, secret: webhookSecret}
}

// commerceEvent is the envelope the commerce platform posts
type commerceEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
}

// HandleCommerceEvent verifies the webhook signature and enqueues the
// matching job
func (h *WebhookHandler) HandleCommerceEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	if !h.verifySignature(body, c.GetHeader("X-Commerce-Signature")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}

	var event commerceEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	switch event.Type {
	case "order.created", "order.updated":
		if event.OrderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing order_id"})
			return
		}
		jobID, err := h.queue.EnqueueJob(queue.JobTypeSyncCommerceOrder, map[string]string{
			"commerce_order_id": event.OrderID,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enqueue sync"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"job_id": jobID})

	default:
		log.Printf("Ignoring commerce webhook event type %s", event.Type)
		c.JSON(http.StatusOK, gin.H{"ignored": event.Type})
	}
}

// verifySignature checks the HMAC-SHA256 signature the platform sends
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
