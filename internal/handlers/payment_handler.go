package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/internal/storage"
	"rental-backend/internal/timeutil"
	"rental-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// maxProofSize caps proof uploads at 10 MB.
const maxProofSize = 10 << 20

type PaymentHandler struct {
	Service *services.PaymentService
	Proofs  *storage.ProofStore
}

func NewPaymentHandler(s *services.PaymentService, proofs *storage.ProofStore) *PaymentHandler {
	return &PaymentHandler{Service: s, Proofs: proofs}
}

type billPaymentRequest struct {
	UnitCode   string    `json:"unit_code"`
	PayerPhone string    `json:"payer_phone"`
	Amount     float64   `json:"amount"`
	DueDate    time.Time `json:"due_date"`
	Type       string    `json:"type"`
	ContractID string    `json:"contract_id"`
}

func (h *PaymentHandler) Bill(w http.ResponseWriter, r *http.Request) {
	var req billPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	phone, err := models.NewPhone(req.PayerPhone)
	if err != nil {
		utils.Error(w, err)
		return
	}

	p, err := h.Service.Bill(r.Context(), req.UnitCode, phone, req.Amount, req.DueDate,
		models.PaymentType(req.Type), req.ContractID, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, p.Record())
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, p.Record())
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, paymentRecords(payments))
}

func (h *PaymentHandler) GetByUnitCode(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.GetByUnitCode(r.Context(), mux.Vars(r)["unitCode"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, paymentRecords(payments))
}

func (h *PaymentHandler) GetByPayerPhone(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.GetByPayerPhone(r.Context(), mux.Vars(r)["phone"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, paymentRecords(payments))
}

func paymentRecords(payments []*models.Payment) []models.Record {
	records := make([]models.Record, 0, len(payments))
	for _, p := range payments {
		records = append(records, p.Record())
	}
	return records
}

// SubmitProof accepts a multipart upload, stores the file in object
// storage and marks the payment PAID with the stored key as proof.
func (h *PaymentHandler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("proof")
	if err != nil {
		http.Error(w, "proof file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProofSize))
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	paymentDate := timeutil.Now()
	if raw := r.FormValue("payment_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "payment_date must be RFC3339", http.StatusBadRequest)
			return
		}
		paymentDate = parsed
	}

	existing, err := h.Service.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	key, err := h.Proofs.Upload(r.Context(), existing.UnitCode(), id, data, contentType)
	if err != nil {
		http.Error(w, "Failed to store proof", http.StatusInternalServerError)
		return
	}

	p, err := h.Service.SubmitProof(r.Context(), id, key, paymentDate, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, p.Record())
}

// DownloadProof streams the stored proof file back to the caller.
func (h *PaymentHandler) DownloadProof(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	key := p.ProofKey()
	if key == "" {
		http.Error(w, "payment has no proof", http.StatusNotFound)
		return
	}

	data, contentType, err := h.Proofs.Download(r.Context(), key)
	if err != nil {
		http.Error(w, "Failed to fetch proof", http.StatusInternalServerError)
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}

func (h *PaymentHandler) Validate(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Validate(r.Context(), mux.Vars(r)["id"], actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, p.Record())
}

func (h *PaymentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.Reject(r.Context(), mux.Vars(r)["id"], actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, p.Record())
}

func (h *PaymentHandler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.Service.UpdateAmount(r.Context(), mux.Vars(r)["id"], req.Amount, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, p.Record())
}

func (h *PaymentHandler) UpdateDueDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DueDate time.Time `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.Service.UpdateDueDate(r.Context(), mux.Vars(r)["id"], req.DueDate, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, p.Record())
}
