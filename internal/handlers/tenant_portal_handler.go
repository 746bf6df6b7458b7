package handlers

import (
	"encoding/json"
	"net/http"

	"rental-backend/internal/middleware"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

// TenantPortalHandler is the self-service surface for tenants. Tenants
// authenticate with phone + tax id and only ever see their own data.
type TenantPortalHandler struct {
	Service *services.TenantPortalService
}

func NewTenantPortalHandler(s *services.TenantPortalService) *TenantPortalHandler {
	return &TenantPortalHandler{Service: s}
}

func (h *TenantPortalHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone      string `json:"phone"`
		TaxID      string `json:"tax_id"`
		RememberMe bool   `json:"remember_me"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, user, err := h.Service.Login(r.Context(), req.Phone, req.TaxID, req.RememberMe)
	if err != nil {
		http.Error(w, "Invalid phone or tax id", http.StatusUnauthorized)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Record(),
	})
}

func (h *TenantPortalHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	phone, ok := middleware.GetTenantPhoneFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := h.Service.GetDashboardData(r.Context(), phone)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, data)
}
