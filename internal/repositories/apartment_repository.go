package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rental-backend/internal/models"
)

type ApartmentRepository struct {
	DB *pgxpool.Pool
}

func NewApartmentRepository(db *pgxpool.Pool) *ApartmentRepository {
	return &ApartmentRepository{DB: db}
}

const apartmentColumns = `unit_code, label, address, base_rent, cleaning_fee, status, rental_type,
	furnished, air_con, parking, pets_allowed, balcony, washer_dryer, pool, gym,
	images, airbnb_link, available, available_from,
	created_at, updated_at, created_by, updated_by, version`

func scanApartment(row pgx.Row) (*models.Apartment, error) {
	var (
		unitCode, label, address, status, rentalType, airbnbLink string
		baseRent, cleaningFee                                    float64
		furnished, airCon, parking, petsAllowed                  bool
		balcony, washerDryer, pool, gym, available               bool
		images                                                   []string
		availableFrom                                            *time.Time
		createdAt, updatedAt                                     time.Time
		createdBy, updatedBy                                     string
		version                                                  int
	)
	err := row.Scan(
		&unitCode, &label, &address, &baseRent, &cleaningFee, &status, &rentalType,
		&furnished, &airCon, &parking, &petsAllowed, &balcony, &washerDryer, &pool, &gym,
		&images, &airbnbLink, &available, &availableFrom,
		&createdAt, &updatedAt, &createdBy, &updatedBy, &version,
	)
	if err != nil {
		return nil, err
	}

	rec := models.Record{
		"unit_code":    unitCode,
		"label":        label,
		"address":      address,
		"base_rent":    baseRent,
		"cleaning_fee": cleaningFee,
		"status":       status,
		"rental_type":  rentalType,
		"furnished":    furnished,
		"air_con":      airCon,
		"parking":      parking,
		"pets_allowed": petsAllowed,
		"balcony":      balcony,
		"washer_dryer": washerDryer,
		"pool":         pool,
		"gym":          gym,
		"images":       images,
		"airbnb_link":  airbnbLink,
		"available":    available,
		"created_at":   createdAt.Format(time.RFC3339Nano),
		"updated_at":   updatedAt.Format(time.RFC3339Nano),
		"created_by":   createdBy,
		"updated_by":   updatedBy,
		"version":      version,
	}
	if availableFrom != nil {
		rec["available_from"] = availableFrom.Format(time.RFC3339Nano)
	}
	return models.ApartmentFromRecord(rec)
}

func (r *ApartmentRepository) Create(ctx context.Context, a *models.Apartment) error {
	am := a.Amenities()
	meta := a.Meta()
	query := `
		INSERT INTO apartments (` + apartmentColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
	`
	_, err := r.DB.Exec(ctx, query,
		a.UnitCode(), a.Label(), a.Address(), a.BaseRent(), a.CleaningFee(),
		string(a.Status()), string(a.RentalType()),
		am.Furnished, am.AirConditioning, am.Parking, am.PetsAllowed,
		am.Balcony, am.WasherDryer, am.Pool, am.Gym,
		a.Images(), a.AirbnbLink(), a.Available(), a.AvailableFrom(),
		meta.CreatedAt, meta.UpdatedAt, meta.CreatedBy, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert apartment %s: %w", a.UnitCode(), err)
	}
	return nil
}

func (r *ApartmentRepository) Update(ctx context.Context, a *models.Apartment) error {
	am := a.Amenities()
	meta := a.Meta()
	query := `
		UPDATE apartments SET
			label = $2, address = $3, base_rent = $4, cleaning_fee = $5,
			status = $6, rental_type = $7,
			furnished = $8, air_con = $9, parking = $10, pets_allowed = $11,
			balcony = $12, washer_dryer = $13, pool = $14, gym = $15,
			images = $16, airbnb_link = $17, available = $18, available_from = $19,
			updated_at = $20, updated_by = $21, version = $22
		WHERE unit_code = $1
	`
	tag, err := r.DB.Exec(ctx, query,
		a.UnitCode(), a.Label(), a.Address(), a.BaseRent(), a.CleaningFee(),
		string(a.Status()), string(a.RentalType()),
		am.Furnished, am.AirConditioning, am.Parking, am.PetsAllowed,
		am.Balcony, am.WasherDryer, am.Pool, am.Gym,
		a.Images(), a.AirbnbLink(), a.Available(), a.AvailableFrom(),
		meta.UpdatedAt, meta.UpdatedBy, meta.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update apartment %s: %w", a.UnitCode(), err)
	}
	if tag.RowsAffected() == 0 {
		return models.NewEntityNotFound("apartment", a.UnitCode())
	}
	return nil
}

func (r *ApartmentRepository) Get(ctx context.Context, unitCode string) (*models.Apartment, error) {
	query := `SELECT ` + apartmentColumns + ` FROM apartments WHERE unit_code = $1`
	a, err := scanApartment(r.DB.QueryRow(ctx, query, unitCode))
	if err == pgx.ErrNoRows {
		return nil, models.NewEntityNotFound("apartment", unitCode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get apartment %s: %w", unitCode, err)
	}
	return a, nil
}

func (r *ApartmentRepository) List(ctx context.Context) ([]*models.Apartment, error) {
	query := `SELECT ` + apartmentColumns + ` FROM apartments ORDER BY unit_code`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list apartments: %w", err)
	}
	defer rows.Close()

	apartments := []*models.Apartment{}
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return nil, err
		}
		apartments = append(apartments, a)
	}
	return apartments, rows.Err()
}
