package services

import (
	"context"
	"time"

	"rental-backend/internal/cache"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
)

type ApartmentService struct {
	Repo *repositories.ApartmentRepository
}

func NewApartmentService(repo *repositories.ApartmentRepository) *ApartmentService {
	return &ApartmentService{Repo: repo}
}

// Onboard registers a new unit.
func (s *ApartmentService) Onboard(ctx context.Context, unitCode, label, address string, baseRent, cleaningFee float64, rentalType models.RentalType, amenities models.Amenities, by string) (*models.Apartment, error) {
	a, err := models.NewApartment(unitCode, label, address, baseRent, cleaningFee, rentalType, amenities, by)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ApartmentService) Get(ctx context.Context, unitCode string) (*models.Apartment, error) {
	return s.Repo.Get(ctx, unitCode)
}

func (s *ApartmentService) List(ctx context.Context) ([]*models.Apartment, error) {
	return s.Repo.List(ctx)
}

// mutate loads the unit, applies fn and persists on success. Guard
// violations from the entity propagate untouched.
func (s *ApartmentService) mutate(ctx context.Context, unitCode string, fn func(*models.Apartment) error) (*models.Apartment, error) {
	a, err := s.Repo.Get(ctx, unitCode)
	if err != nil {
		return nil, err
	}
	if err := fn(a); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, a); err != nil {
		return nil, err
	}
	cache.InvalidateApartment(ctx, unitCode)
	return a, nil
}

func (s *ApartmentService) ChangeStatus(ctx context.Context, unitCode string, next models.ApartmentStatus, by string) (*models.Apartment, error) {
	return s.mutate(ctx, unitCode, func(a *models.Apartment) error {
		return a.ChangeStatus(next, by)
	})
}

func (s *ApartmentService) UpdatePricing(ctx context.Context, unitCode string, baseRent, cleaningFee float64, by string) (*models.Apartment, error) {
	return s.mutate(ctx, unitCode, func(a *models.Apartment) error {
		return a.UpdatePricing(baseRent, cleaningFee, by)
	})
}

func (s *ApartmentService) ChangeRentalType(ctx context.Context, unitCode string, rt models.RentalType, by string) (*models.Apartment, error) {
	return s.mutate(ctx, unitCode, func(a *models.Apartment) error {
		return a.ChangeRentalType(rt, by)
	})
}

func (s *ApartmentService) SetAvailability(ctx context.Context, unitCode string, available bool, from *time.Time, by string) (*models.Apartment, error) {
	return s.mutate(ctx, unitCode, func(a *models.Apartment) error {
		return a.SetAvailability(available, from, by)
	})
}

func (s *ApartmentService) SetAirbnbLink(ctx context.Context, unitCode, link, by string) (*models.Apartment, error) {
	return s.mutate(ctx, unitCode, func(a *models.Apartment) error {
		return a.SetAirbnbLink(link, by)
	})
}

func (s *ApartmentService) SetImages(ctx context.Context, unitCode string, images []string, by string) (*models.Apartment, error) {
	return s.mutate(ctx, unitCode, func(a *models.Apartment) error {
		return a.SetImages(images, by)
	})
}

// Deactivate soft-deletes the unit; apartments are never hard-deleted.
func (s *ApartmentService) Deactivate(ctx context.Context, unitCode, by string) (*models.Apartment, error) {
	return s.mutate(ctx, unitCode, func(a *models.Apartment) error {
		return a.Deactivate(by)
	})
}
