package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type RelationRepository struct {
	DB *pgxpool.Pool
}

func NewRelationRepository(db *pgxpool.Pool) *RelationRepository {
	return &RelationRepository{DB: db}
}

const relationColumns = `unit_code, phone, role, relationship_type, active,
	created_at, updated_at, created_by, updated_by, version`

func scanRelation(row pgx.Row) (*models.UserApartmentRelation, error) {
	var (
		unitCode, phone, role, relationshipType string
		active                                  bool
		createdAt, updatedAt                    time.Time
		createdBy, updatedBy                    string
		version                                 int
	)
	err := row.Scan(
		&unitCode, &phone, &role, &relationshipType, &active,
		&createdAt, &updatedAt, &createdBy, &updatedBy, &version,
	)
	if err != nil {
		return nil, err
	}

	return models.RelationFromRecord(models.Record{
		"unit_code":         unitCode,
		"phone":             phone,
		"role":              role,
		"relationship_type": relationshipType,
		"active":            active,
		"created_at":        createdAt.Format(time.RFC3339Nano),
		"updated_at":        updatedAt.Format(time.RFC3339Nano),
		"created_by":        createdBy,
		"updated_by":        updatedBy,
		"version":           version,
	})
}

func relationKey(unitCode, phone, role string) string {
	return fmt.Sprintf("%s/%s/%s", unitCode, phone, role)
}

func (r *RelationRepository) Create(ctx context.Context, rel *models.UserApartmentRelation) error {
	meta := rel.Meta()
	query := `
		INSERT INTO user_apartment_relations (` + relationColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	_, err := r.DB.Exec(ctx, query,
		rel.UnitCode(), string(rel.Phone()), string(rel.Role()), rel.RelationshipType(), rel.IsActive(),
		meta.CreatedAt, meta.UpdatedAt, meta.CreatedBy, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert relation %s: %w",
			relationKey(rel.UnitCode(), rel.Phone().String(), string(rel.Role())), err)
	}
	return nil
}

func (r *RelationRepository) Update(ctx context.Context, rel *models.UserApartmentRelation) error {
	meta := rel.Meta()
	query := `
		UPDATE user_apartment_relations SET
			relationship_type = $4, active = $5,
			updated_at = $6, updated_by = $7, version = $8
		WHERE unit_code = $1 AND phone = $2 AND role = $3
	`
	tag, err := r.DB.Exec(ctx, query,
		rel.UnitCode(), string(rel.Phone()), string(rel.Role()),
		rel.RelationshipType(), rel.IsActive(),
		meta.UpdatedAt, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update relation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewEntityNotFound("relation",
			relationKey(rel.UnitCode(), rel.Phone().String(), string(rel.Role())))
	}
	return nil
}

func (r *RelationRepository) Get(ctx context.Context, unitCode, phone, role string) (*models.UserApartmentRelation, error) {
	query := `SELECT ` + relationColumns + ` FROM user_apartment_relations
		WHERE unit_code = $1 AND phone = $2 AND role = $3`
	rel, err := scanRelation(r.DB.QueryRow(ctx, query, unitCode, phone, role))
	if err == pgx.ErrNoRows {
		return nil, models.NewEntityNotFound("relation", relationKey(unitCode, phone, role))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get relation: %w", err)
	}
	return rel, nil
}

func (r *RelationRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.UserApartmentRelation, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query relations: %w", err)
	}
	defer rows.Close()

	relations := []*models.UserApartmentRelation{}
	for rows.Next() {
		rel, err := scanRelation(rows)
		if err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}

func (r *RelationRepository) GetByUnitCode(ctx context.Context, unitCode string) ([]*models.UserApartmentRelation, error) {
	return r.queryMany(ctx,
		`SELECT `+relationColumns+` FROM user_apartment_relations WHERE unit_code = $1 ORDER BY created_at`, unitCode)
}

func (r *RelationRepository) GetByPhone(ctx context.Context, phone string) ([]*models.UserApartmentRelation, error) {
	return r.queryMany(ctx,
		`SELECT `+relationColumns+` FROM user_apartment_relations WHERE phone = $1 ORDER BY created_at`, phone)
}
