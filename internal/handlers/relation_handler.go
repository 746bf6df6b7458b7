package handlers

import (
	"encoding/json"
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type RelationHandler struct {
	Service *services.RelationService
}

func NewRelationHandler(s *services.RelationService) *RelationHandler {
	return &RelationHandler{Service: s}
}

type linkRelationRequest struct {
	UnitCode         string `json:"unit_code"`
	Phone            string `json:"phone"`
	Role             string `json:"role"`
	RelationshipType string `json:"relationship_type"`
}

func (h *RelationHandler) Link(w http.ResponseWriter, r *http.Request) {
	var req linkRelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	phone, err := models.NewPhone(req.Phone)
	if err != nil {
		utils.Error(w, err)
		return
	}

	rel, err := h.Service.Link(r.Context(), req.UnitCode, phone,
		models.RelationRole(req.Role), req.RelationshipType, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, rel.Record())
}

func (h *RelationHandler) GetByUnitCode(w http.ResponseWriter, r *http.Request) {
	relations, err := h.Service.GetByUnitCode(r.Context(), mux.Vars(r)["unitCode"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	records := make([]models.Record, 0, len(relations))
	for _, rel := range relations {
		records = append(records, rel.Record())
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *RelationHandler) GetByPhone(w http.ResponseWriter, r *http.Request) {
	relations, err := h.Service.GetByPhone(r.Context(), mux.Vars(r)["phone"])
	if err != nil {
		utils.Error(w, err)
		return
	}

	records := make([]models.Record, 0, len(relations))
	for _, rel := range relations {
		records = append(records, rel.Record())
	}
	utils.JSON(w, http.StatusOK, records)
}

type relationKeyRequest struct {
	UnitCode string `json:"unit_code"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (h *RelationHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req relationKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rel, err := h.Service.Activate(r.Context(), req.UnitCode, req.Phone, models.RelationRole(req.Role), actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rel.Record())
}

func (h *RelationHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	var req relationKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rel, err := h.Service.Deactivate(r.Context(), req.UnitCode, req.Phone, models.RelationRole(req.Role), actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rel.Record())
}
