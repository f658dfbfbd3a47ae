package middleware

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
)

const testSecret = "whsec_test"

func signedRouter() (*gin.Engine, *[]byte) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var seenBody []byte
	r.POST("/hook", SignatureMiddleware(testSecret), func(c *gin.Context) {
		body, _ := c.GetRawData()
		seenBody = body
		c.Status(http.StatusAccepted)
	})
	return r, &seenBody
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignatureMiddlewareValid(t *testing.T) {
	r, seenBody := signedRouter()
	body := []byte(`{"machine_id":"machine-7"}`)

	req := httptest.NewRequest("POST", "/hook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign(testSecret, body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	// The middleware consumed the body once; the handler still got it.
	assert.Equal(t, body, *seenBody)
}

func TestSignatureMiddlewareAcceptsPrefixedHeader(t *testing.T) {
	r, _ := signedRouter()
	body := []byte(`{}`)

	req := httptest.NewRequest("POST", "/hook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, "sha256="+sign(testSecret, body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestSignatureMiddlewareWrongSecret(t *testing.T) {
	r, _ := signedRouter()
	body := []byte(`{}`)

	req := httptest.NewRequest("POST", "/hook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, sign("other-secret", body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignatureMiddlewareTamperedBody(t *testing.T) {
	r, _ := signedRouter()
	body := []byte(`{"amount":10}`)

	req := httptest.NewRequest("POST", "/hook", bytes.NewReader([]byte(`{"amount":10000}`)))
	req.Header.Set(SignatureHeader, sign(testSecret, body))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignatureMiddlewareMissingHeader(t *testing.T) {
	r, _ := signedRouter()

	req := httptest.NewRequest("POST", "/hook", bytes.NewReader([]byte(`{}`)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/v1/events", APIKeyMiddleware(APIKeyConfig{
		HeaderName:  "X-WASHSTACK-API-KEY",
		ValidAPIKey: "secret",
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{name: "valid", key: "secret", status: http.StatusOK},
		{name: "invalid", key: "wrong", status: http.StatusUnauthorized},
		{name: "missing", key: "", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/events", nil)
			if tt.key != "" {
				req.Header.Set("X-WASHSTACK-API-KEY", tt.key)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
