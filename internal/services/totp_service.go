package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

const totpIssuer = "RentalOps"

type TOTPService struct {
	staffRepo *repositories.StaffRepository
}

func NewTOTPService(staffRepo *repositories.StaffRepository) *TOTPService {
	return &TOTPService{staffRepo: staffRepo}
}

// GenerateSetup creates a new TOTP secret and QR code for a staff account
func (s *TOTPService) GenerateSetup(ctx context.Context, staff *models.StaffAccount) (*models.TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: staff.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	// Store the secret (not yet enabled)
	if err := s.staffRepo.SetTOTPSecret(ctx, staff.ID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}
	qrBase64 := base64.StdEncoding.EncodeToString(buf.Bytes())

	return &models.TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + qrBase64,
		Issuer:      totpIssuer,
		AccountName: staff.Email,
	}, nil
}

// VerifyAndEnable verifies a TOTP code and enables 2FA for the account
func (s *TOTPService) VerifyAndEnable(ctx context.Context, staffID int, code string) error {
	secret, err := s.staffRepo.GetTOTPSecret(ctx, staffID)
	if err != nil {
		return err
	}
	if secret == "" {
		return ErrNoTOTPSecret
	}
	if !totp.Validate(code, secret) {
		return ErrInvalidTOTPCode
	}
	return s.staffRepo.EnableTOTP(ctx, staffID)
}

// Verify validates a TOTP code during login
func (s *TOTPService) Verify(ctx context.Context, staffID int, code string) (bool, error) {
	staff, err := s.staffRepo.Get(ctx, staffID)
	if err != nil {
		return false, err
	}
	secret, err := s.staffRepo.GetTOTPSecret(ctx, staffID)
	if err != nil {
		return false, err
	}
	if !staff.TOTPEnabled || secret == "" {
		return false, ErrTOTPNotEnabled
	}
	if !totp.Validate(code, secret) {
		return false, ErrInvalidTOTPCode
	}
	return true, nil
}

// Disable disables 2FA after verifying password and current TOTP code
func (s *TOTPService) Disable(ctx context.Context, staffID int, password, code string) error {
	staff, err := s.staffRepo.Get(ctx, staffID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidPassword
	}
	secret, err := s.staffRepo.GetTOTPSecret(ctx, staffID)
	if err != nil {
		return err
	}
	if !totp.Validate(code, secret) {
		return ErrInvalidTOTPCode
	}
	return s.staffRepo.DisableTOTP(ctx, staffID)
}

// Custom errors
var (
	ErrNoTOTPSecret    = &TOTPError{Message: "2FA setup not initiated"}
	ErrInvalidTOTPCode = &TOTPError{Message: "invalid verification code"}
	ErrTOTPNotEnabled  = &TOTPError{Message: "2FA is not enabled"}
	ErrInvalidPassword = &TOTPError{Message: "invalid password"}
)

type TOTPError struct {
	Message string
}

func (e *TOTPError) Error() string {
	return e.Message
}
