package services

import (
	"context"
	"errors"

	"rental-backend/internal/auth"
	"rental-backend/internal/cache"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
)

// AuthService handles staff signup and login. Accounts with 2FA enabled go
// through a two-step login: password first, then a TOTP code against a
// short-lived temp token.
type AuthService struct {
	Staff      *repositories.StaffRepository
	TOTP       *TOTPService
	JWTManager *auth.JWTManager
}

func NewAuthService(staff *repositories.StaffRepository, totp *TOTPService, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{Staff: staff, TOTP: totp, JWTManager: jwtManager}
}

// Signup creates a new staff account with hashed password
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}

	existing, _ := s.Staff.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, errors.New("account with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	staff := &models.StaffAccount{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}
	if err := s.Staff.Create(ctx, staff); err != nil {
		return nil, err
	}

	token, err := s.JWTManager.GenerateToken(staff)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Staff: staff}, nil
}

// Login authenticates a staff account. When 2FA is enabled and no TOTP code
// is supplied the caller gets a temp token and must call LoginTOTP.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *models.TwoFAPendingResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, nil, errors.New("email and password are required")
	}

	staff, err := s.Staff.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, errors.New("invalid email or password")
	}
	if !staff.IsActive {
		return nil, nil, errors.New("account is disabled")
	}

	if _, ok := cache.GetCachedAuth(ctx, req.Email, req.Password); !ok {
		if !auth.VerifyPassword(staff.PasswordHash, req.Password) {
			return nil, nil, errors.New("invalid email or password")
		}
		cache.CacheAuth(ctx, req.Email, req.Password, int64(staff.ID))
	}

	if staff.TOTPEnabled {
		if req.TOTPCode == "" {
			tempToken, err := s.JWTManager.GenerateTempToken(staff)
			if err != nil {
				return nil, nil, err
			}
			return nil, &models.TwoFAPendingResponse{RequiresTOTP: true, TempToken: tempToken}, nil
		}
		if _, err := s.TOTP.Verify(ctx, staff.ID, req.TOTPCode); err != nil {
			return nil, nil, err
		}
	}

	token, err := s.JWTManager.GenerateToken(staff)
	if err != nil {
		return nil, nil, err
	}
	return &models.AuthResponse{Token: token, Staff: staff}, nil, nil
}

// LoginTOTP completes a two-step login using the temp token from step 1.
func (s *AuthService) LoginTOTP(ctx context.Context, tempToken, code string) (*models.AuthResponse, error) {
	claims, err := s.JWTManager.ValidateTempToken(tempToken)
	if err != nil {
		return nil, errors.New("invalid or expired temp token")
	}
	if _, err := s.TOTP.Verify(ctx, claims.StaffID, code); err != nil {
		return nil, err
	}
	staff, err := s.Staff.Get(ctx, claims.StaffID)
	if err != nil {
		return nil, err
	}
	token, err := s.JWTManager.GenerateToken(staff)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Staff: staff}, nil
}
