package services

import (
	"context"

	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
)

type UserService struct {
	Repo *repositories.UserRepository
}

func NewUserService(repo *repositories.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) Register(ctx context.Context, phone models.Phone, name string, taxID models.TaxID, contact models.ContactInfo, by string) (*models.User, error) {
	u, err := models.NewUser(phone, name, taxID, contact, by)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, phone string) (*models.User, error) {
	return s.Repo.Get(ctx, phone)
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

func (s *UserService) mutate(ctx context.Context, phone string, fn func(*models.User) error) (*models.User, error) {
	u, err := s.Repo.Get(ctx, phone)
	if err != nil {
		return nil, err
	}
	if err := fn(u); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Activate(ctx context.Context, phone, by string) (*models.User, error) {
	return s.mutate(ctx, phone, func(u *models.User) error { return u.Activate(by) })
}

func (s *UserService) Deactivate(ctx context.Context, phone, by string) (*models.User, error) {
	return s.mutate(ctx, phone, func(u *models.User) error { return u.Deactivate(by) })
}

func (s *UserService) Suspend(ctx context.Context, phone, by string) (*models.User, error) {
	return s.mutate(ctx, phone, func(u *models.User) error { return u.Suspend(by) })
}

func (s *UserService) UpdateContact(ctx context.Context, phone string, contact models.ContactInfo, by string) (*models.User, error) {
	return s.mutate(ctx, phone, func(u *models.User) error { return u.UpdateContact(contact, by) })
}

func (s *UserService) Rename(ctx context.Context, phone, name, by string) (*models.User, error) {
	return s.mutate(ctx, phone, func(u *models.User) error { return u.Rename(name, by) })
}
