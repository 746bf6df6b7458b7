package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	razorpay "github.com/razorpay/razorpay-go"
)

// GatewayService lets tenants settle rent online through Razorpay. An order
// is created against an existing PENDING payment; once the gateway confirms,
// the payment is marked PAID with the gateway reference as proof.
type GatewayService struct {
	Payments      *PaymentService
	keyID         string
	keySecret     string
	webhookSecret string
}

func NewGatewayService(keyID, keySecret, webhookSecret string, payments *PaymentService) *GatewayService {
	return &GatewayService{
		Payments:      payments,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// IsEnabled reports whether gateway credentials are configured.
func (s *GatewayService) IsEnabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

func (s *GatewayService) client() *razorpay.Client {
	if !s.IsEnabled() {
		return nil
	}
	return razorpay.NewClient(s.keyID, s.keySecret)
}

// CreateOrderResponse carries what the frontend checkout needs
type CreateOrderResponse struct {
	OrderID    string  `json:"order_id"`
	PaymentID  string  `json:"payment_id"`
	Amount     int     `json:"amount"` // minor units
	Currency   string  `json:"currency"`
	KeyID      string  `json:"key_id"`
	PayerPhone string  `json:"payer_phone"`
	AmountDue  float64 `json:"amount_due"`
}

// CreateOrder opens a gateway order for a PENDING or OVERDUE payment.
func (s *GatewayService) CreateOrder(ctx context.Context, paymentID string) (*CreateOrderResponse, error) {
	client := s.client()
	if client == nil {
		return nil, fmt.Errorf("payment gateway not configured")
	}

	p, err := s.Payments.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	switch p.Status() {
	case models.PaymentPending, models.PaymentOverdue:
	default:
		return nil, fmt.Errorf("payment %s is %s, only open payments can be settled online", paymentID, p.Status())
	}

	amountMinor := int(p.Amount() * 100)
	orderData := map[string]interface{}{
		"amount":   amountMinor,
		"currency": "BRL",
		"receipt":  fmt.Sprintf("rcpt_%s_%d", p.ID(), timeutil.Now().Unix()),
		"notes": map[string]interface{}{
			"payment_id":  p.ID(),
			"unit_code":   p.UnitCode(),
			"payer_phone": string(p.PayerPhone()),
		},
	}

	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}
	orderID, _ := order["id"].(string)

	return &CreateOrderResponse{
		OrderID:    orderID,
		PaymentID:  p.ID(),
		Amount:     amountMinor,
		Currency:   "BRL",
		KeyID:      s.keyID,
		PayerPhone: string(p.PayerPhone()),
		AmountDue:  p.Amount(),
	}, nil
}

// VerifyPaymentRequest is the checkout callback payload
type VerifyPaymentRequest struct {
	PaymentID        string `json:"payment_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
}

// VerifyPayment checks the checkout signature and marks the payment PAID
// with the gateway payment id as proof.
func (s *GatewayService) VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*models.Payment, error) {
	if !s.verifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature) {
		return nil, fmt.Errorf("invalid payment signature")
	}

	proofKey := "gateway/razorpay/" + req.GatewayPaymentID
	p, err := s.Payments.SubmitProof(ctx, req.PaymentID, proofKey, timeutil.Now(), "gateway")
	if err != nil {
		// A second callback for the same order lands here.
		if existing, getErr := s.Payments.Get(ctx, req.PaymentID); getErr == nil && existing.ProofKey() == proofKey {
			return existing, nil
		}
		return nil, err
	}
	return p, nil
}

func (s *GatewayService) verifySignature(orderID, paymentID, signature string) bool {
	if s.keySecret == "" {
		return false
	}
	data := orderID + "|" + paymentID
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(data))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature verifies a webhook payload signature
func (s *GatewayService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return true // Skip verification if not configured
	}
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write(body)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ProcessWebhook handles asynchronous gateway events
func (s *GatewayService) ProcessWebhook(ctx context.Context, event string, payload map[string]interface{}) error {
	switch event {
	case "payment.captured":
		return s.handlePaymentCaptured(ctx, payload)
	case "payment.failed":
		orderID, reason := webhookEntityString(payload, "order_id"), "payment failed"
		if desc := webhookEntityString(payload, "error_description"); desc != "" {
			reason = desc
		}
		log.Printf("[Gateway] payment failed for order %s: %s", orderID, reason)
		return nil
	default:
		log.Printf("[Gateway] unhandled webhook event: %s", event)
		return nil
	}
}

func (s *GatewayService) handlePaymentCaptured(ctx context.Context, payload map[string]interface{}) error {
	entity := webhookEntity(payload)
	gatewayPaymentID, _ := entity["id"].(string)
	notes, _ := entity["notes"].(map[string]interface{})
	paymentID, _ := notes["payment_id"].(string)
	if paymentID == "" {
		return fmt.Errorf("missing payment_id in webhook notes")
	}

	proofKey := "gateway/razorpay/" + gatewayPaymentID
	if _, err := s.Payments.SubmitProof(ctx, paymentID, proofKey, timeutil.Now(), "gateway"); err != nil {
		if existing, getErr := s.Payments.Get(ctx, paymentID); getErr == nil && existing.ProofKey() == proofKey {
			return nil // already processed via the checkout callback
		}
		return err
	}
	return nil
}

func webhookEntity(payload map[string]interface{}) map[string]interface{} {
	paymentEntity, ok := payload["payment"].(map[string]interface{})
	if !ok {
		paymentEntity = payload
	}
	entity, ok := paymentEntity["entity"].(map[string]interface{})
	if !ok {
		entity = paymentEntity
	}
	return entity
}

func webhookEntityString(payload map[string]interface{}, key string) string {
	v, _ := webhookEntity(payload)[key].(string)
	return v
}
