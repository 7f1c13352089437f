package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraviva/backend/internal/queue"
)

type mockQueue struct {
	enqueued []queue.JobType
}

func (m *mockQueue) RegisterHandler(jobType queue.JobType, handler queue.JobHandler) {}

func (m *mockQueue) EnqueueJob(jobType queue.JobType, payload interface{}) (string, error) {
	m.enqueued = append(m.enqueued, jobType)
	return "job-1", nil
}

func (m *mockQueue) GetJobByID(id string) (*queue.Job, error) { return nil, nil }

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCommerceWebhookEnqueuesOrderSync(t *testing.T) {
	gin.SetMode(gin.TestMode)
	q := &mockQueue{}
	handler := NewWebhookHandler(q, "whsec")
	router := gin.New()
	router.POST("/webhooks/commerce", handler.HandleCommerceEvent)

	body := []byte(`{"type":"order.created","order_id":"ord_1"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/commerce", bytes.NewReader(body))
	req.Header.Set("X-Commerce-Signature", signBody("whsec", body))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, q.enqueued, 1)
	assert.Equal(t, queue.JobTypeSyncCommerceOrder, q.enqueued[0])
}

func TestCommerceWebhookRejectsBadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	q := &mockQueue{}
	handler := NewWebhookHandler(q, "whsec")
	router := gin.New()
	router.POST("/webhooks/commerce", handler.HandleCommerceEvent)

	body := []byte(`{"type":"order.created","order_id":"ord_1"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/commerce", bytes.NewReader(body))
	req.Header.Set("X-Commerce-Signature", "deadbeef")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, q.enqueued)
}

func TestCommerceWebhookIgnoresUnknownEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	q := &mockQueue{}
	handler := NewWebhookHandler(q, "whsec")
	router := gin.New()
	router.POST("/webhooks/commerce", handler.HandleCommerceEvent)

	body := []byte(`{"type":"customer.updated"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/commerce", bytes.NewReader(body))
	req.Header.Set("X-Commerce-Signature", signBody("whsec", body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, q.enqueued)
}
