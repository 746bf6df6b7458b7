package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signHMAC(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

func TestGatewayIsEnabled(t *testing.T) {
	assert.False(t, NewGatewayService("", "", "", nil).IsEnabled())
	assert.False(t, NewGatewayService("key", "", "", nil).IsEnabled())
	assert.True(t, NewGatewayService("key", "secret", "", nil).IsEnabled())
}

func TestGatewayVerifySignature(t *testing.T) {
	svc := NewGatewayService("key", "secret", "whsecret", nil)

	good := signHMAC("secret", "order_123|pay_456")
	assert.True(t, svc.verifySignature("order_123", "pay_456", good))
	assert.False(t, svc.verifySignature("order_123", "pay_456", "tampered"))
	assert.False(t, svc.verifySignature("order_999", "pay_456", good))

	wrongSecret := signHMAC("other", "order_123|pay_456")
	assert.False(t, svc.verifySignature("order_123", "pay_456", wrongSecret))
}

func TestGatewayVerifyWebhookSignature(t *testing.T) {
	svc := NewGatewayService("key", "secret", "whsecret", nil)
	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, svc.VerifyWebhookSignature(body, signHMAC("whsecret", string(body))))
	assert.False(t, svc.VerifyWebhookSignature(body, signHMAC("secret", string(body))))
	assert.False(t, svc.VerifyWebhookSignature([]byte("other"), signHMAC("whsecret", string(body))))
}
