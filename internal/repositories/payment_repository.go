package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `id, unit_code, payer_phone, amount, due_date, status, type, contract_id,
	proof_key, payment_date, validated_by, validated_at,
	created_at, updated_at, created_by, updated_by, version`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var (
		id, unitCode, payerPhone, status, ptype  string
		contractID, proofKey, validatedBy        string
		amount                                   float64
		dueDate, createdAt, updatedAt            time.Time
		paymentDate, validatedAt                 *time.Time
		createdBy, updatedBy                     string
		version                                  int
	)
	err := row.Scan(
		&id, &unitCode, &payerPhone, &amount, &dueDate, &status, &ptype, &contractID,
		&proofKey, &paymentDate, &validatedBy, &validatedAt,
		&createdAt, &updatedAt, &createdBy, &updatedBy, &version,
	)
	if err != nil {
		return nil, err
	}

	rec := models.Record{
		"id":           id,
		"unit_code":    unitCode,
		"payer_phone":  payerPhone,
		"amount":       amount,
		"due_date":     dueDate.Format(time.RFC3339Nano),
		"status":       status,
		"type":         ptype,
		"contract_id":  contractID,
		"proof_key":    proofKey,
		"validated_by": validatedBy,
		"created_at":   createdAt.Format(time.RFC3339Nano),
		"updated_at":   updatedAt.Format(time.RFC3339Nano),
		"created_by":   createdBy,
		"updated_by":   updatedBy,
		"version":      version,
	}
	if paymentDate != nil {
		rec["payment_date"] = paymentDate.Format(time.RFC3339Nano)
	}
	if validatedAt != nil {
		rec["validated_at"] = validatedAt.Format(time.RFC3339Nano)
	}
	return models.PaymentFromRecord(rec)
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	meta := p.Meta()
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`
	_, err := r.DB.Exec(ctx, query,
		p.ID(), p.UnitCode(), string(p.PayerPhone()), p.Amount(), p.DueDate(),
		string(p.Status()), string(p.Type()), p.ContractID(),
		p.ProofKey(), p.PaymentDate(), p.ValidatedBy(), p.ValidatedAt(),
		meta.CreatedAt, meta.UpdatedAt, meta.CreatedBy, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", p.ID(), err)
	}
	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *models.Payment) error {
	meta := p.Meta()
	query := `
		UPDATE payments SET
			amount = $2, due_date = $3, status = $4,
			proof_key = $5, payment_date = $6, validated_by = $7, validated_at = $8,
			updated_at = $9, updated_by = $10, version = $11
		WHERE id = $1
	`
	tag, err := r.DB.Exec(ctx, query,
		p.ID(), p.Amount(), p.DueDate(), string(p.Status()),
		p.ProofKey(), p.PaymentDate(), p.ValidatedBy(), p.ValidatedAt(),
		meta.UpdatedAt, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %s: %w", p.ID(), err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewEntityNotFound("payment", p.ID())
	}
	return nil
}

func (r *PaymentRepository) Get(ctx context.Context, id string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.DB.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.NewEntityNotFound("payment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment %s: %w", id, err)
	}
	return p, nil
}

func (r *PaymentRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) List(ctx context.Context) ([]*models.Payment, error) {
	return r.queryMany(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY created_at DESC`)
}

func (r *PaymentRepository) GetByUnitCode(ctx context.Context, unitCode string) ([]*models.Payment, error) {
	return r.queryMany(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE unit_code = $1 ORDER BY created_at DESC`, unitCode)
}

func (r *PaymentRepository) GetByPayerPhone(ctx context.Context, phone string) ([]*models.Payment, error) {
	return r.queryMany(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE payer_phone = $1 ORDER BY created_at DESC`, phone)
}

// ListDuePending returns PENDING payments whose due date already passed,
// for the overdue sweeper.
func (r *PaymentRepository) ListDuePending(ctx context.Context, asOf time.Time) ([]*models.Payment, error) {
	return r.queryMany(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE status = 'PENDING' AND due_date < $1`, asOf)
}
