package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"rental-backend/internal/middleware"
	"rental-backend/internal/repositories"
	"rental-backend/internal/services"
	"rental-backend/pkg/utils"
)

type TOTPHandler struct {
	Service   *services.TOTPService
	StaffRepo *repositories.StaffRepository
}

func NewTOTPHandler(s *services.TOTPService, staffRepo *repositories.StaffRepository) *TOTPHandler {
	return &TOTPHandler{Service: s, StaffRepo: staffRepo}
}

// Setup generates a fresh TOTP secret and QR code for the authenticated
// staff account. 2FA is not enabled until the first code is verified.
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.Service.GenerateSetup(r.Context(), staff)
	if err != nil {
		http.Error(w, "Failed to generate 2FA setup", http.StatusInternalServerError)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

// Enable verifies the first code from the authenticator app and turns
// 2FA on.
func (h *TOTPHandler) Enable(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.GetStaffIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.VerifyAndEnable(r.Context(), staffID, req.Code); err != nil {
		writeTOTPError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "2FA enabled"})
}

// Disable requires password and a valid code; losing a phone goes
// through an admin, not this endpoint.
func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	staffID, ok := middleware.GetStaffIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Password string `json:"password"`
		Code     string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.Disable(r.Context(), staffID, req.Password, req.Code); err != nil {
		writeTOTPError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "2FA disabled"})
}

// Status reports whether 2FA is enabled for the authenticated account.
func (h *TOTPHandler) Status(w http.ResponseWriter, r *http.Request) {
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

	utils.JSON(w, http.StatusOK, map[string]bool{"totp_enabled": staff.TOTPEnabled})
}

func writeTOTPError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTOTPCode),
		errors.Is(err, services.ErrInvalidPassword):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrNoTOTPSecret),
		errors.Is(err, services.ErrTOTPNotEnabled):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "2FA operation failed", http.StatusInternalServerError)
	}
}
