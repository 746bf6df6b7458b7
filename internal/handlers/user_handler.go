package handlers

import (
	"encoding/json"
	"net/http"

	"rental-backend/internal/models"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(s *services.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

type registerUserRequest struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	TaxID    string `json:"tax_id"`
	Email    string `json:"email"`
	AltPhone string `json:"alt_phone"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	phone, err := models.NewPhone(req.Phone)
	if err != nil {
		utils.Error(w, err)
		return
	}
	taxID, err := models.NewTaxID(req.TaxID)
	if err != nil {
		utils.Error(w, err)
		return
	}
	contact, err := models.NewContactInfo(req.Email, req.AltPhone)
	if err != nil {
		utils.Error(w, err)
		return
	}

	u, err := h.Service.Register(r.Context(), phone, req.Name, taxID, contact, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, u.Record())
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	phone := mux.Vars(r)["phone"]

	u, err := h.Service.Get(r.Context(), phone)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, u.Record())
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	records := make([]models.Record, 0, len(users))
	for _, u := range users {
		records = append(records, u.Record())
	}
	utils.JSON(w, http.StatusOK, records)
}

func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Activate(r.Context(), mux.Vars(r)["phone"], actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, u.Record())
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Deactivate(r.Context(), mux.Vars(r)["phone"], actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, u.Record())
}

func (h *UserHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.Suspend(r.Context(), mux.Vars(r)["phone"], actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, u.Record())
}

func (h *UserHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		AltPhone string `json:"alt_phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contact, err := models.NewContactInfo(req.Email, req.AltPhone)
	if err != nil {
		utils.Error(w, err)
		return
	}

	u, err := h.Service.UpdateContact(r.Context(), mux.Vars(r)["phone"], contact, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, u.Record())
}

func (h *UserHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.Service.Rename(r.Context(), mux.Vars(r)["phone"], req.Name, actor(r))
	if err != nil {
		utils.Error(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, u.Record())
}
