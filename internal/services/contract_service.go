package services

import (
	"context"
	"log"
	"time"

	"rental-backend/internal/cache"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"
)

type ContractService struct {
	Repo     *repositories.ContractRepository
	Payments *PaymentService
}

func NewContractService(repo *repositories.ContractRepository, payments *PaymentService) *ContractService {
	return &ContractService{Repo: repo, Payments: payments}
}

func (s *ContractService) Open(ctx context.Context, unitCode string, tenantPhone models.Phone, startDate, endDate time.Time, terms models.ContractTerms, by string) (*models.Contract, error) {
	c, err := models.NewContract(unitCode, tenantPhone, startDate, endDate, terms, by)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	cache.InvalidateApartment(ctx, unitCode)
	return c, nil
}

func (s *ContractService) Get(ctx context.Context, id string) (*models.Contract, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ContractService) List(ctx context.Context) ([]*models.Contract, error) {
	return s.Repo.List(ctx)
}

func (s *ContractService) GetByUnitCode(ctx context.Context, unitCode string) ([]*models.Contract, error) {
	return s.Repo.GetByUnitCode(ctx, unitCode)
}

func (s *ContractService) GetByTenantPhone(ctx context.Context, phone string) ([]*models.Contract, error) {
	return s.Repo.GetByTenantPhone(ctx, phone)
}

func (s *ContractService) mutate(ctx context.Context, id string, fn func(*models.Contract) error) (*models.Contract, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	cache.InvalidateApartment(ctx, c.UnitCode())
	return c, nil
}

// Activate flips a PENDING contract ACTIVE. A unit can have at most one
// ACTIVE contract at a time; activation also bills the deposit and the
// first month's rent as PENDING payments.
func (s *ContractService) Activate(ctx context.Context, id, by string) (*models.Contract, error) {
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	active, err := s.Repo.CountActiveForUnit(ctx, c.UnitCode())
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, models.NewBusinessRuleViolation(models.RuleActiveContractExists,
			"unit %s already has an active contract", c.UnitCode())
	}

	if err := c.Activate(by); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, err
	}
	metrics.StatusTransitionsTotal.WithLabelValues("contract", string(models.ContractActive)).Inc()
	cache.InvalidateApartment(ctx, c.UnitCode())

	s.billOnActivation(ctx, c, by)
	return c, nil
}

// billOnActivation raises the opening charges. Billing failures are logged
// rather than rolling the activation back; ops re-raise missing charges by
// hand.
func (s *ContractService) billOnActivation(ctx context.Context, c *models.Contract, by string) {
	terms := c.Terms()
	if terms.Deposit > 0 {
		if _, err := s.Payments.Bill(ctx, c.UnitCode(), c.TenantPhone(), terms.Deposit, c.StartDate(), models.PaymentDeposit, c.ID(), by); err != nil {
			log.Printf("[ContractService] failed to bill deposit for contract %s: %v", c.ID(), err)
		}
	}
	firstDue := firstRentDueDate(c.StartDate(), terms.DueDay)
	if _, err := s.Payments.Bill(ctx, c.UnitCode(), c.TenantPhone(), terms.MonthlyRent, firstDue, models.PaymentRent, c.ID(), by); err != nil {
		log.Printf("[ContractService] failed to bill first rent for contract %s: %v", c.ID(), err)
	}
}

// firstRentDueDate is the first occurrence of dueDay on or after start.
// Days past the end of the month clamp to the month's last day.
func firstRentDueDate(start time.Time, dueDay int) time.Time {
	year, month, _ := start.Date()
	due := clampedDate(year, month, dueDay, start.Location())
	if due.Before(timeutil.StartOfDay(start)) {
		due = clampedDate(year, month+1, dueDay, start.Location())
	}
	return due
}

func clampedDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func (s *ContractService) Terminate(ctx context.Context, id, by string) (*models.Contract, error) {
	return s.mutate(ctx, id, func(c *models.Contract) error {
		return c.Terminate(by)
	})
}

func (s *ContractService) Extend(ctx context.Context, id string, newEndDate time.Time, by string) (*models.Contract, error) {
	return s.mutate(ctx, id, func(c *models.Contract) error {
		return c.Extend(newEndDate, by)
	})
}

// ExpireEndedContracts flips ACTIVE contracts whose end date has passed to
// EXPIRED. Run from the same ticker as the payment sweeper.
func (s *ContractService) ExpireEndedContracts(ctx context.Context) (int, error) {
	ended, err := s.Repo.ListActiveEndingBefore(ctx, timeutil.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, c := range ended {
		if err := c.Expire("system"); err != nil {
			log.Printf("[ContractSweeper] skipping contract %s: %v", c.ID(), err)
			continue
		}
		if err := s.Repo.Update(ctx, c); err != nil {
			log.Printf("[ContractSweeper] failed to persist contract %s: %v", c.ID(), err)
			continue
		}
		cache.InvalidateApartment(ctx, c.UnitCode())
		metrics.StatusTransitionsTotal.WithLabelValues("contract", string(models.ContractExpired)).Inc()
		expired++
	}
	if expired > 0 {
		log.Printf("[ContractSweeper] expired %d contracts", expired)
	}
	return expired, nil
}
