package handlers

import (
	"encoding/json"
	"net/http"

	"rental-backend/internal/middleware"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type AuthHandler struct {
	Service   *services.AuthService
	StaffRepo *repositories.StaffRepository
}

func NewAuthHandler(s *services.AuthService, staffRepo *repositories.StaffRepository) *AuthHandler {
	return &AuthHandler{Service: s, StaffRepo: staffRepo}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.Signup(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	utils.JSON(w, http.StatusCreated, resp)
}

// Login issues a token, or a temp token when the account has 2FA enabled
// and no TOTP code was sent.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, pending, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if pending != nil {
		utils.JSON(w, http.StatusOK, pending)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// LoginTOTP is step two of a 2FA login: trade temp token + code for a
// full token.
func (h *AuthHandler) LoginTOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TempToken string `json:"temp_token"`
		Code      string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.LoginTOTP(r.Context(), req.TempToken, req.Code)
	if err != nil {
		http.Error(w, "Invalid code", http.StatusUnauthorized)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// Me returns the authenticated staff account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.GetStaffIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	staff, err := h.StaffRepo.Get(r.Context(), staffID)
	if err != nil {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}

	utils.JSON(w, http.StatusOK, staff)
}
