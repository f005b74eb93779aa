package middleware

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "sk_test_webhook"

func signBody(body string) string {
	mac := hmac.New(sha512.New, []byte(webhookSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookRouter(t *testing.T) (*gin.Engine, *string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var seenBody string
	r := gin.New()
	r.POST("/payment/webhook", PaystackWebhookAuth(webhookSecret), func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		require.NoError(t, err)
		seenBody = string(raw)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r, &seenBody
}

func TestWebhookAuthAcceptsValidSignature(t *testing.T) {
	r, seenBody := webhookRouter(t)

	body := `{"event":"charge.success","data":{"reference":"ref-1"}}`
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(body))
	req.Header.Set("x-paystack-signature", signBody(body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// The handler still gets the full body after signature verification.
	assert.Equal(t, body, *seenBody)
}

func TestWebhookAuthRejectsTamperedBody(t *testing.T) {
	r, _ := webhookRouter(t)

	body := `{"event":"charge.success","data":{"reference":"ref-1"}}`
	tampered := `{"event":"charge.success","data":{"reference":"ref-2"}}`
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(tampered))
	req.Header.Set("x-paystack-signature", signBody(body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookAuthRejectsMissingSignature(t *testing.T) {
	r, _ := webhookRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookAuthPanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() { PaystackWebhookAuth("") })
}
