package services

import (
	"context"
	"log"
	"time"

	"rental-backend/internal/cache"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/notify"
	"rental-backend/internal/repositories"
	"rental-backend/internal/timeutil"
)

// AlertFunc pushes an operational alert (severity, kind, message) to
// whatever is listening; the monitoring hub wires itself in at startup.
type AlertFunc func(severity, kind, message string)

type PaymentService struct {
	Repo      *repositories.PaymentRepository
	Alert     AlertFunc
	Reminders *notify.ReminderSender
}

func NewPaymentService(repo *repositories.PaymentRepository) *PaymentService {
	return &PaymentService{Repo: repo}
}

// Bill creates a PENDING payment against a unit.
func (s *PaymentService) Bill(ctx context.Context, unitCode string, payerPhone models.Phone, amount float64, dueDate time.Time, ptype models.PaymentType, contractID, by string) (*models.Payment, error) {
	p, err := models.NewPayment(unitCode, payerPhone, amount, dueDate, ptype, contractID, by)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}
	cache.InvalidateApartment(ctx, unitCode)
	return p, nil
}

func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	return s.Repo.Get(ctx, id)
}

func (s *PaymentService) List(ctx context.Context) ([]*models.Payment, error) {
	return s.Repo.List(ctx)
}

func (s *PaymentService) GetByUnitCode(ctx context.Context, unitCode string) ([]*models.Payment, error) {
	return s.Repo.GetByUnitCode(ctx, unitCode)
}

func (s *PaymentService) GetByPayerPhone(ctx context.Context, phone string) ([]*models.Payment, error) {
	return s.Repo.GetByPayerPhone(ctx, phone)
}

func (s *PaymentService) mutate(ctx context.Context, id string, fn func(*models.Payment) error) (*models.Payment, error) {
	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, err
	}
	cache.InvalidateApartment(ctx, p.UnitCode())
	return p, nil
}

// applyProof funnels proof submission through the payment state machine.
// An OVERDUE payment is first brought back to PENDING by pushing its due
// date forward, then the original due date is restored so late-payment
// analytics keep the real deadline. The caller persists only on success, so
// a failed submission leaves nothing half-moved.
func applyProof(p *models.Payment, proofKey string, paymentDate time.Time, by string) error {
	if p.Status() != models.PaymentOverdue {
		return p.SubmitProof(proofKey, paymentDate, by)
	}
	originalDue := p.DueDate()
	if err := p.UpdateDueDate(timeutil.Now().Add(24*time.Hour), by); err != nil {
		return err
	}
	if err := p.SubmitProof(proofKey, paymentDate, by); err != nil {
		return err
	}
	return p.UpdateDueDate(originalDue, by)
}

// SubmitProof attaches an uploaded proof object and marks the payment PAID.
// Works for PENDING and OVERDUE payments; tenants settling late rent (by
// upload or through the gateway) land here too.
func (s *PaymentService) SubmitProof(ctx context.Context, id, proofKey string, paymentDate time.Time, by string) (*models.Payment, error) {
	p, err := s.mutate(ctx, id, func(p *models.Payment) error {
		return applyProof(p, proofKey, paymentDate, by)
	})
	if err != nil {
		return nil, err
	}
	metrics.StatusTransitionsTotal.WithLabelValues("payment", string(models.PaymentPaid)).Inc()
	return p, nil
}

func (s *PaymentService) Validate(ctx context.Context, id, by string) (*models.Payment, error) {
	p, err := s.mutate(ctx, id, func(p *models.Payment) error {
		return p.Validate(by)
	})
	if err != nil {
		return nil, err
	}
	metrics.PaymentsValidatedTotal.Inc()
	return p, nil
}

func (s *PaymentService) Reject(ctx context.Context, id, by string) (*models.Payment, error) {
	return s.mutate(ctx, id, func(p *models.Payment) error {
		return p.Reject(by)
	})
}

func (s *PaymentService) UpdateAmount(ctx context.Context, id string, amount float64, by string) (*models.Payment, error) {
	return s.mutate(ctx, id, func(p *models.Payment) error {
		return p.UpdateAmount(amount, by)
	})
}

func (s *PaymentService) UpdateDueDate(ctx context.Context, id string, dueDate time.Time, by string) (*models.Payment, error) {
	return s.mutate(ctx, id, func(p *models.Payment) error {
		return p.UpdateDueDate(dueDate, by)
	})
}

// MarkOverduePayments is the sweeper: every PENDING payment whose due date
// passed is flipped to OVERDUE. Run from a ticker in main.
func (s *PaymentService) MarkOverduePayments(ctx context.Context) (int, error) {
	due, err := s.Repo.ListDuePending(ctx, timeutil.Now())
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, p := range due {
		if err := p.MarkOverdue("system"); err != nil {
			// Another sweep or a due-date update may have raced us.
			log.Printf("[PaymentSweeper] skipping payment %s: %v", p.ID(), err)
			continue
		}
		if err := s.Repo.Update(ctx, p); err != nil {
			log.Printf("[PaymentSweeper] failed to persist payment %s: %v", p.ID(), err)
			continue
		}
		cache.InvalidateApartment(ctx, p.UnitCode())
		metrics.PaymentsOverdueTotal.Inc()
		marked++
		if s.Alert != nil {
			s.Alert("warning", "payment_overdue",
				"payment "+p.ID()+" for unit "+p.UnitCode()+" is overdue")
		}
		s.Reminders.SendOverdueReminder(string(p.PayerPhone()), p.UnitCode(), p.Amount(), p.DueDate())
	}
	if marked > 0 {
		log.Printf("[PaymentSweeper] marked %d payments overdue", marked)
	}
	return marked, nil
}
