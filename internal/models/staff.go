package models

import "time"

// StaffAccount is an ops API login. Distinct from the domain User entity:
// staff accounts authenticate requests, users participate in leases.
type StaffAccount struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`    // Never expose in JSON
	Role         string    `json:"role"` // admin or ops
	TOTPEnabled  bool      `json:"totp_enabled"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SignupRequest represents the request body for signup
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string        `json:"token"`
	Staff *StaffAccount `json:"staff"`
}

// TOTPSetupResponse carries what the authenticator app needs during 2FA setup
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// TwoFAPendingResponse is returned from login step 1 when 2FA is enabled
type TwoFAPendingResponse struct {
	RequiresTOTP bool   `json:"requires_totp"`
	TempToken    string `json:"temp_token"`
}
