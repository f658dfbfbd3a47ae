package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const SignatureHeader = "X-Webhook-Signature"

// SignatureMiddleware rejects webhook deliveries whose HMAC-SHA256 body
// signature does not match the per-provider shared secret. The body is
// restored for the downstream handler.
func SignatureMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read request body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		provided := strings.TrimPrefix(c.GetHeader(SignatureHeader), "sha256=")
		if provided == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing webhook signature"})
			c.Abort()
			return
		}

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		expected := hex.EncodeToString(mac.Sum(nil))

		if !hmac.Equal([]byte(provided), []byte(expected)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook signature"})
			c.Abort()
			return
		}

		c.Next()
	}
}
