package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"rental-backend/internal/services"
	"rental-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// GatewayHandler exposes online payment through the gateway: order
// creation, client-side verification and the async webhook.
type GatewayHandler struct {
	Service *services.GatewayService
}

func NewGatewayHandler(s *services.GatewayService) *GatewayHandler {
	return &GatewayHandler{Service: s}
}

func (h *GatewayHandler) Status(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]bool{"enabled": h.Service.IsEnabled()})
}

func (h *GatewayHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if !h.Service.IsEnabled() {
		http.Error(w, "Online payments are not configured", http.StatusServiceUnavailable)
		return
	}

	resp, err := h.Service.CreateOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *GatewayHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.Service.VerifyPayment(r.Context(), &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, p.Record())
}

// Webhook receives async gateway events. The signature is checked before
// anything is parsed; a 200 is always returned for verified events so
// the gateway stops retrying.
func (h *GatewayHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.Service.VerifyWebhookSignature(body, signature) {
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Invalid webhook payload", http.StatusBadRequest)
		return
	}

	if err := h.Service.ProcessWebhook(r.Context(), event.Event, event.Payload); err != nil {
		log.Printf("[Gateway] webhook %s processing failed: %v", event.Event, err)
	}

	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
