package services

import (
	"context"

	"rental-backend/internal/cache"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
)

type RelationService struct {
	Repo  *repositories.RelationRepository
	Users *repositories.UserRepository
}

func NewRelationService(repo *repositories.RelationRepository, users *repositories.UserRepository) *RelationService {
	return &RelationService{Repo: repo, Users: users}
}

// Link attaches a user to an apartment under a role. The user must already
// be registered; relations never create their endpoints.
func (s *RelationService) Link(ctx context.Context, unitCode string, phone models.Phone, role models.RelationRole, relationshipType, by string) (*models.UserApartmentRelation, error) {
	if _, err := s.Users.Get(ctx, string(phone)); err != nil {
		return nil, err
	}
	rel, err := models.NewUserApartmentRelation(unitCode, phone, role, relationshipType, by)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, rel); err != nil {
		return nil, err
	}
	cache.InvalidateApartment(ctx, unitCode)
	return rel, nil
}

func (s *RelationService) GetByUnitCode(ctx context.Context, unitCode string) ([]*models.UserApartmentRelation, error) {
	return s.Repo.GetByUnitCode(ctx, unitCode)
}

func (s *RelationService) GetByPhone(ctx context.Context, phone string) ([]*models.UserApartmentRelation, error) {
	return s.Repo.GetByPhone(ctx, phone)
}

func (s *RelationService) mutate(ctx context.Context, unitCode, phone string, role models.RelationRole, fn func(*models.UserApartmentRelation) error) (*models.UserApartmentRelation, error) {
	rel, err := s.Repo.Get(ctx, unitCode, phone, string(role))
	if err != nil {
		return nil, err
	}
	if err := fn(rel); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, rel); err != nil {
		return nil, err
	}
	cache.InvalidateApartment(ctx, unitCode)
	return rel, nil
}

func (s *RelationService) Activate(ctx context.Context, unitCode, phone string, role models.RelationRole, by string) (*models.UserApartmentRelation, error) {
	return s.mutate(ctx, unitCode, phone, role, func(rel *models.UserApartmentRelation) error {
		return rel.Activate(by)
	})
}

func (s *RelationService) Deactivate(ctx context.Context, unitCode, phone string, role models.RelationRole, by string) (*models.UserApartmentRelation, error) {
	return s.mutate(ctx, unitCode, phone, role, func(rel *models.UserApartmentRelation) error {
		return rel.Deactivate(by)
	})
}
