package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"rental-backend/internal/middleware"
	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ApartmentHandler struct {
	Service *services.ApartmentService
}

func NewApartmentHandler(s *services.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{Service: s}
}

// actor pulls the acting staff email from the request context so every
// mutation is attributed to whoever sent it.
func actor(r *http.Request) string {
	if email, ok := middleware.GetEmailFromContext(r.Context()); ok {
		return email
	}
	return "system"
}

type onboardApartmentRequest struct {
	UnitCode    string           `json:"unit_code"`
	Label       string           `json:"label"`
	Address     string           `json:"address"`
	BaseRent    float64          `json:"base_rent"`
	CleaningFee float64          `json:"cleaning_fee"`
	RentalType  string           `json:"rental_type"`
	Amenities   models.Amenities `json:"amenities"`
}

func (h *ApartmentHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req onboardApartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.Service.Onboard(r.Context(), req.UnitCode, req.Label, req.Address,
		req.BaseRent, req.CleaningFee, models.RentalType(req.RentalType), req.Amenities, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, a.Record())
}

func (h *ApartmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	unitCode := mux.Vars(r)["unitCode"]

	a, err := h.Service.Get(r.Context(), unitCode)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, a.Record())
}

func (h *ApartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	apartments, err := h.Service.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	records := make([]models.Record, 0, len(apartments))
	for _, a := range apartments {
		records = append(records, a.Record())
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *ApartmentHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	unitCode := mux.Vars(r)["unitCode"]

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.Service.ChangeStatus(r.Context(), unitCode, models.ApartmentStatus(req.Status), actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, a.Record())
}

func (h *ApartmentHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	unitCode := mux.Vars(r)["unitCode"]

	var req struct {
		BaseRent    float64 `json:"base_rent"`
		CleaningFee float64 `json:"cleaning_fee"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.Service.UpdatePricing(r.Context(), unitCode, req.BaseRent, req.CleaningFee, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, a.Record())
}

func (h *ApartmentHandler) ChangeRentalType(w http.ResponseWriter, r *http.Request) {
	unitCode := mux.Vars(r)["unitCode"]

	var req struct {
		RentalType string `json:"rental_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.Service.ChangeRentalType(r.Context(), unitCode, models.RentalType(req.RentalType), actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, a.Record())
}

func (h *ApartmentHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	unitCode := mux.Vars(r)["unitCode"]

	var req struct {
		Available     bool       `json:"available"`
		AvailableFrom *time.Time `json:"available_from,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.Service.SetAvailability(r.Context(), unitCode, req.Available, req.AvailableFrom, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, a.Record())
}

func (h *ApartmentHandler) SetAirbnbLink(w http.ResponseWriter, r *http.Request) {
	unitCode := mux.Vars(r)["unitCode"]

	var req struct {
		AirbnbLink string `json:"airbnb_link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.Service.SetAirbnbLink(r.Context(), unitCode, req.AirbnbLink, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, a.Record())
}

func (h *ApartmentHandler) SetImages(w http.ResponseWriter, r *http.Request) {
	unitCode := mux.Vars(r)["unitCode"]

	var req struct {
		Images []string `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	a, err := h.Service.SetImages(r.Context(), unitCode, req.Images, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, a.Record())
}

func (h *ApartmentHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	unitCode := mux.Vars(r)["unitCode"]

	a, err := h.Service.Deactivate(r.Context(), unitCode, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, a.Record())
}
