package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const signatureHeader = "x-paystack-signature"

// PaystackWebhookAuth verifies the webhook signature: HMAC-SHA512 of the raw
// request body using the secret key, hex encoded, carried in the
// x-paystack-signature header. The body is restored for downstream binding.
func PaystackWebhookAuth(secretKey string) gin.HandlerFunc {
	if secretKey == "" {
		panic("PAYSTACK_SECRET_KEY is not set")
	}

	return func(c *gin.Context) {
		provided := c.GetHeader(signatureHeader)
		if provided == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing webhook signature"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha512.New, []byte(secretKey))
		mac.Write(body)
		computed := hex.EncodeToString(mac.Sum(nil))

		// hmac.Equal is constant time.
		if !hmac.Equal([]byte(computed), []byte(provided)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
