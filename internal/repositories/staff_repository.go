package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type StaffRepository struct {
	DB *pgxpool.Pool
}

func NewStaffRepository(db *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{DB: db}
}

func (r *StaffRepository) Create(ctx context.Context, s *models.StaffAccount) error {
	if s.Role == "" {
		s.Role = "ops" // Default role
	}
	s.IsActive = true
	return r.DB.QueryRow(ctx,
		`INSERT INTO staff_accounts(name, email, password_hash, role, is_active)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at, updated_at`,
		s.Name, s.Email, s.PasswordHash, s.Role, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *StaffRepository) Get(ctx context.Context, id int) (*models.StaffAccount, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, COALESCE(totp_enabled, false), is_active, created_at, updated_at
         FROM staff_accounts WHERE id=$1`, id)

	var s models.StaffAccount
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash,
		&s.Role, &s.TOTPEnabled, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, models.NewEntityNotFound("staff account", "")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StaffRepository) GetByEmail(ctx context.Context, email string) (*models.StaffAccount, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, COALESCE(totp_enabled, false), is_active, created_at, updated_at
         FROM staff_accounts WHERE email=$1`, email)

	var s models.StaffAccount
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.PasswordHash,
		&s.Role, &s.TOTPEnabled, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, models.NewEntityNotFound("staff account", email)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// TOTP secret handling stays out of the StaffAccount struct so it is never
// serialized by accident.

func (r *StaffRepository) SetTOTPSecret(ctx context.Context, id int, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE staff_accounts SET totp_secret=$2, updated_at=NOW() WHERE id=$1`,
		id, secret)
	return err
}

func (r *StaffRepository) EnableTOTP(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE staff_accounts SET totp_enabled=true, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *StaffRepository) DisableTOTP(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE staff_accounts SET totp_enabled=false, totp_secret=NULL, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *StaffRepository) GetTOTPSecret(ctx context.Context, id int) (string, error) {
	var secret string
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(totp_secret, '') FROM staff_accounts WHERE id=$1`, id).Scan(&secret)
	if err == pgx.ErrNoRows {
		return "", models.NewEntityNotFound("staff account", "")
	}
	return secret, err
}
