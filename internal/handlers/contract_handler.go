package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ContractHandler struct {
	Service *services.ContractService
}

func NewContractHandler(s *services.ContractService) *ContractHandler {
	return &ContractHandler{Service: s}
}

type openContractRequest struct {
	UnitCode    string    `json:"unit_code"`
	TenantPhone string    `json:"tenant_phone"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MonthlyRent float64   `json:"monthly_rent"`
	DueDay      int       `json:"due_day"`
	Deposit     float64   `json:"deposit"`
	Inclusions  []string  `json:"inclusions"`
}

func (h *ContractHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	phone, err := models.NewPhone(req.TenantPhone)
	if err != nil {
		utils.Error(w, err)
		return
	}

	terms := models.ContractTerms{
		MonthlyRent: req.MonthlyRent,
		DueDay:      req.DueDay,
		Deposit:     req.Deposit,
		Inclusions:  req.Inclusions,
	}

	c, err := h.Service.Open(r.Context(), req.UnitCode, phone, req.StartDate, req.EndDate, terms, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, c.Record())
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c.Record())
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Service.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, contractRecords(contracts))
}

func (h *ContractHandler) GetByUnitCode(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Service.GetByUnitCode(r.Context(), mux.Vars(r)["unitCode"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, contractRecords(contracts))
}

func (h *ContractHandler) GetByTenantPhone(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.Service.GetByTenantPhone(r.Context(), mux.Vars(r)["phone"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, contractRecords(contracts))
}

func contractRecords(contracts []*models.Contract) []models.Record {
	records := make([]models.Record, 0, len(contracts))
	for _, c := range contracts {
		records = append(records, c.Record())
	}
	return records
}

func (h *ContractHandler) Activate(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Activate(r.Context(), mux.Vars(r)["id"], actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c.Record())
}

func (h *ContractHandler) Terminate(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Terminate(r.Context(), mux.Vars(r)["id"], actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c.Record())
}

func (h *ContractHandler) Extend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EndDate time.Time `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.Service.Extend(r.Context(), mux.Vars(r)["id"], req.EndDate, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, c.Record())
}
