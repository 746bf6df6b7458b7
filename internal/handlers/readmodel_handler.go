package handlers

import (
	"net/http"

	"rental-backend/internal/services"
	"rental-backend/pkg/utils"

	"github.com/gorilla/mux"
)

// ReadModelHandler serves the composite read models: listings, payment
// summaries, full details and timelines.
type ReadModelHandler struct {
	Service *services.ReadModelService
}

func NewReadModelHandler(s *services.ReadModelService) *ReadModelHandler {
	return &ReadModelHandler{Service: s}
}

func (h *ReadModelHandler) Listings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.Service.Listings(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, listings)
}

func (h *ReadModelHandler) ApartmentWithPaymentInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.Service.ApartmentWithPaymentInfo(r.Context(), mux.Vars(r)["unitCode"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, info)
}

func (h *ReadModelHandler) ApartmentsWithPaymentInfo(w http.ResponseWriter, r *http.Request) {
	infos, err := h.Service.ApartmentsWithPaymentInfo(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, infos)
}

func (h *ReadModelHandler) ApartmentDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.Service.ApartmentDetails(r.Context(), mux.Vars(r)["unitCode"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, details)
}

func (h *ReadModelHandler) ApartmentLog(w http.ResponseWriter, r *http.Request) {
	log, err := h.Service.ApartmentLog(r.Context(), mux.Vars(r)["unitCode"])
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, log)
}
