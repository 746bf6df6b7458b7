package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type ContractRepository struct {
	DB *pgxpool.Pool
}

func NewContractRepository(db *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{DB: db}
}

const contractColumns = `id, unit_code, tenant_phone, start_date, end_date,
	monthly_rent, due_day, deposit, inclusions, status,
	created_at, updated_at, created_by, updated_by, version`

func scanContract(row pgx.Row) (*models.Contract, error) {
	var (
		id, unitCode, tenantPhone, status string
		startDate, endDate                time.Time
		monthlyRent, deposit              float64
		dueDay                            int
		inclusions                        []string
		createdAt, updatedAt              time.Time
		createdBy, updatedBy              string
		version                           int
	)
	err := row.Scan(
		&id, &unitCode, &tenantPhone, &startDate, &endDate,
		&monthlyRent, &dueDay, &deposit, &inclusions, &status,
		&createdAt, &updatedAt, &createdBy, &updatedBy, &version,
	)
	if err != nil {
		return nil, err
	}

	return models.ContractFromRecord(models.Record{
		"id":           id,
		"unit_code":    unitCode,
		"tenant_phone": tenantPhone,
		"start_date":   startDate.Format(time.RFC3339Nano),
		"end_date":     endDate.Format(time.RFC3339Nano),
		"monthly_rent": monthlyRent,
		"due_day":      dueDay,
		"deposit":      deposit,
		"inclusions":   inclusions,
		"status":       status,
		"created_at":   createdAt.Format(time.RFC3339Nano),
		"updated_at":   updatedAt.Format(time.RFC3339Nano),
		"created_by":   createdBy,
		"updated_by":   updatedBy,
		"version":      version,
	})
}

func (r *ContractRepository) Create(ctx context.Context, c *models.Contract) error {
	terms := c.Terms()
	meta := c.Meta()
	query := `
		INSERT INTO contracts (` + contractColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`
	_, err := r.DB.Exec(ctx, query,
		c.ID(), c.UnitCode(), string(c.TenantPhone()), c.StartDate(), c.EndDate(),
		terms.MonthlyRent, terms.DueDay, terms.Deposit, terms.Inclusions, string(c.Status()),
		meta.CreatedAt, meta.UpdatedAt, meta.CreatedBy, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contract %s: %w", c.ID(), err)
	}
	return nil
}

func (r *ContractRepository) Update(ctx context.Context, c *models.Contract) error {
	meta := c.Meta()
	query := `
		UPDATE contracts SET
			end_date = $2, status = $3,
			updated_at = $4, updated_by = $5, version = $6
		WHERE id = $1
	`
	tag, err := r.DB.Exec(ctx, query,
		c.ID(), c.EndDate(), string(c.Status()),
		meta.UpdatedAt, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update contract %s: %w", c.ID(), err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewEntityNotFound("contract", c.ID())
	}
	return nil
}

func (r *ContractRepository) Get(ctx context.Context, id string) (*models.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	c, err := scanContract(r.DB.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.NewEntityNotFound("contract", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract %s: %w", id, err)
	}
	return c, nil
}

func (r *ContractRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Contract, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	contracts := []*models.Contract{}
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

func (r *ContractRepository) List(ctx context.Context) ([]*models.Contract, error) {
	return r.queryMany(ctx,
		`SELECT `+contractColumns+` FROM contracts ORDER BY start_date DESC`)
}

func (r *ContractRepository) GetByUnitCode(ctx context.Context, unitCode string) ([]*models.Contract, error) {
	return r.queryMany(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE unit_code = $1 ORDER BY start_date DESC`, unitCode)
}

func (r *ContractRepository) GetByTenantPhone(ctx context.Context, phone string) ([]*models.Contract, error) {
	return r.queryMany(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE tenant_phone = $1 ORDER BY start_date DESC`, phone)
}

// CountActiveForUnit backs the one-active-contract-per-apartment write
// guard.
func (r *ContractRepository) CountActiveForUnit(ctx context.Context, unitCode string) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM contracts WHERE unit_code = $1 AND status = 'ACTIVE'`, unitCode).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active contracts for %s: %w", unitCode, err)
	}
	return count, nil
}

// ListActiveEndingBefore returns ACTIVE contracts whose end date passed,
// for the expiry sweeper.
func (r *ContractRepository) ListActiveEndingBefore(ctx context.Context, asOf time.Time) ([]*models.Contract, error) {
	return r.queryMany(ctx,
		`SELECT `+contractColumns+` FROM contracts WHERE status = 'ACTIVE' AND end_date < $1`, asOf)
}
