package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `phone, name, tax_id, email, alt_phone, status,
	created_at, updated_at, created_by, updated_by, version`

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		phone, name, taxID, email, altPhone, status string
		createdAt, updatedAt                        time.Time
		createdBy, updatedBy                        string
		version                                     int
	)
	err := row.Scan(
		&phone, &name, &taxID, &email, &altPhone, &status,
		&createdAt, &updatedAt, &createdBy, &updatedBy, &version,
	)
	if err != nil {
		return nil, err
	}

	return models.UserFromRecord(models.Record{
		"phone":      phone,
		"name":       name,
		"tax_id":     taxID,
		"email":      email,
		"alt_phone":  altPhone,
		"status":     status,
		"created_at": createdAt.Format(time.RFC3339Nano),
		"updated_at": updatedAt.Format(time.RFC3339Nano),
		"created_by": createdBy,
		"updated_by": updatedBy,
		"version":    version,
	})
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	meta := u.Meta()
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	_, err := r.DB.Exec(ctx, query,
		string(u.Phone()), u.Name(), string(u.TaxID()),
		u.Contact().Email, string(u.Contact().AltPhone), string(u.Status()),
		meta.CreatedAt, meta.UpdatedAt, meta.CreatedBy, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user %s: %w", u.Phone(), err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	meta := u.Meta()
	query := `
		UPDATE users SET
			name = $2, tax_id = $3, email = $4, alt_phone = $5, status = $6,
			updated_at = $7, updated_by = $8, version = $9
		WHERE phone = $1
	`
	tag, err := r.DB.Exec(ctx, query,
		string(u.Phone()), u.Name(), string(u.TaxID()),
		u.Contact().Email, string(u.Contact().AltPhone), string(u.Status()),
		meta.UpdatedAt, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", u.Phone(), err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewEntityNotFound("user", u.Phone().String())
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	u, err := scanUser(r.DB.QueryRow(ctx, query, phone))
	if err == pgx.ErrNoRows {
		return nil, models.NewEntityNotFound("user", phone)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", phone, err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByPhones fetches the users referenced by a relation set in one query.
func (r *UserRepository) GetByPhones(ctx context.Context, phones []string) ([]*models.User, error) {
	if len(phones) == 0 {
		return []*models.User{}, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE phone = ANY($1)`, phones)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by phones: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
