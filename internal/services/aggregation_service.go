package services

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"rental-backend/internal/mapper"
	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
	"rental-backend/internal/views"
)

// AggregationService joins independently-fetched entity collections into
// the composite read models. It never fetches anything itself: callers hand
// it already-materialized snapshots, and no entity is mutated here, so
// concurrent calls cannot interfere.
type AggregationService struct{}

func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// recoverAggregation converts a panic inside an aggregation method into the
// domain aggregation error. Callers only ever see the wrapped form.
func recoverAggregation(context string, err *error) {
	if r := recover(); r != nil {
		metrics.AggregationFailuresTotal.Inc()
		*err = models.NewAggregationError(context, fmt.Errorf("%v", r))
	}
}

func paymentsForUnit(unitCode string, payments []*models.Payment) []*models.Payment {
	out := []*models.Payment{}
	for _, p := range payments {
		if p.UnitCode() == unitCode {
			out = append(out, p)
		}
	}
	return out
}

func sortPaymentsByCreatedDesc(payments []*models.Payment) {
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].Meta().CreatedAt.After(payments[j].Meta().CreatedAt)
	})
}

func sumPaymentAmounts(payments []*models.Payment) (paid, pending float64) {
	for _, p := range payments {
		switch p.Status() {
		case models.PaymentPaid, models.PaymentValidated:
			paid += p.Amount()
		case models.PaymentPending:
			pending += p.Amount()
		}
	}
	return paid, pending
}

// AggregateApartmentWithPaymentInfo pairs one apartment with its payment
// picture: the most recently created payment, a status summary and running
// totals.
func (s *AggregationService) AggregateApartmentWithPaymentInfo(apartment *models.Apartment, payments []*models.Payment) (result views.ApartmentWithPaymentInfo, err error) {
	defer recoverAggregation("apartment "+apartment.UnitCode(), &err)

	now := timeutil.Now()
	unitPayments := paymentsForUnit(apartment.UnitCode(), payments)
	sortPaymentsByCreatedDesc(unitPayments)

	result = views.ApartmentWithPaymentInfo{
		UnitCode:       apartment.UnitCode(),
		Label:          apartment.Label(),
		Address:        apartment.Address(),
		Status:         string(apartment.Status()),
		PaymentSummary: mapper.CalculatePaymentStatus(unitPayments, now),
	}
	if len(unitPayments) > 0 {
		head := mapper.PaymentView(unitPayments[0])
		result.LastPayment = &head
	}
	result.TotalPaid, result.TotalPending = sumPaymentAmounts(unitPayments)
	return result, nil
}

// AggregateApartmentDetails joins users, relations, contracts and payments
// into the consolidated apartment page. Users without a matching relation
// are dropped, not errors.
func (s *AggregationService) AggregateApartmentDetails(
	apartment *models.Apartment,
	users []*models.User,
	relations []*models.UserApartmentRelation,
	contracts []*models.Contract,
	payments []*models.Payment,
) (result views.ApartmentDetails, err error) {
	defer recoverAggregation("apartment "+apartment.UnitCode(), &err)

	now := timeutil.Now()
	unitCode := apartment.UnitCode()

	usersByPhone := make(map[models.Phone]*models.User, len(users))
	for _, u := range users {
		usersByPhone[u.Phone()] = u
	}

	joined := []views.UserWithRelation{}
	for _, rel := range relations {
		if rel.UnitCode() != unitCode {
			continue
		}
		u, ok := usersByPhone[rel.Phone()]
		if !ok {
			continue
		}
		joined = append(joined, mapper.UserWithRelation(u, rel))
	}

	// First ACTIVE contract in input order wins; write-time guards keep the
	// set to at most one.
	var activeContract *views.ContractView
	unitContracts := []*models.Contract{}
	for _, c := range contracts {
		if c.UnitCode() != unitCode {
			continue
		}
		unitContracts = append(unitContracts, c)
		if activeContract == nil && c.Status() == models.ContractActive {
			cv := mapper.ContractView(c)
			activeContract = &cv
		}
	}
	sort.SliceStable(unitContracts, func(i, j int) bool {
		return unitContracts[i].StartDate().After(unitContracts[j].StartDate())
	})
	history := make([]views.ContractView, 0, len(unitContracts))
	for _, c := range unitContracts {
		history = append(history, mapper.ContractView(c))
	}

	unitPayments := paymentsForUnit(unitCode, payments)
	sortPaymentsByCreatedDesc(unitPayments)
	recent := []views.PaymentView{}
	for i, p := range unitPayments {
		if i == 10 {
			break
		}
		recent = append(recent, mapper.PaymentView(p))
	}

	return views.ApartmentDetails{
		UnitCode:        unitCode,
		Label:           apartment.Label(),
		Address:         apartment.Address(),
		Status:          string(apartment.Status()),
		RentalType:      string(apartment.RentalType()),
		BaseRent:        apartment.BaseRent(),
		CleaningFee:     apartment.CleaningFee(),
		Users:           joined,
		ActiveContract:  activeContract,
		ContractHistory: history,
		RecentPayments:  recent,
		// The summary covers every payment for the unit, not just the
		// capped recent list.
		PaymentSummary: mapper.CalculatePaymentStatus(unitPayments, now),
	}, nil
}

// AggregateApartmentLog builds the history timeline and occupancy/revenue
// statistics for one unit.
func (s *AggregationService) AggregateApartmentLog(
	apartment *models.Apartment,
	contracts []*models.Contract,
	payments []*models.Payment,
	relations []*models.UserApartmentRelation,
) (result views.ApartmentLog, err error) {
	defer recoverAggregation("apartment "+apartment.UnitCode(), &err)

	now := timeutil.Now()
	unitCode := apartment.UnitCode()

	unitContracts := []*models.Contract{}
	for _, c := range contracts {
		if c.UnitCode() == unitCode {
			unitContracts = append(unitContracts, c)
		}
	}
	unitPayments := paymentsForUnit(unitCode, payments)
	unitRelations := []*models.UserApartmentRelation{}
	for _, rel := range relations {
		if rel.UnitCode() == unitCode {
			unitRelations = append(unitRelations, rel)
		}
	}

	revenue, _ := sumPaymentAmounts(unitPayments)
	return views.ApartmentLog{
		UnitCode: unitCode,
		Timeline: mapper.CreateTimelineEvents(unitContracts, unitPayments, unitRelations),
		Statistics: views.ApartmentLogStatistics{
			ApartmentStatistics: mapper.CalculateApartmentStatistics(unitContracts, now),
			TotalPayments:       len(unitPayments),
			TotalRevenue:        revenue,
		},
	}, nil
}

// AggregateApartmentListing is a thin delegate kept so every composite read
// model is reachable through the same service.
func (s *AggregationService) AggregateApartmentListing(apartment *models.Apartment) (result views.ApartmentListing, err error) {
	defer recoverAggregation("apartment "+apartment.UnitCode(), &err)
	return mapper.ApartmentListing(apartment), nil
}

// AggregateApartmentsWithPaymentInfo runs the single-apartment variant over
// every apartment concurrently and returns the results sorted by unit code
// ascending, whatever the input order.
func (s *AggregationService) AggregateApartmentsWithPaymentInfo(apartments []*models.Apartment, payments []*models.Payment) ([]views.ApartmentWithPaymentInfo, error) {
	results := make([]views.ApartmentWithPaymentInfo, len(apartments))

	var g errgroup.Group
	for i, apt := range apartments {
		i, apt := i, apt
		g.Go(func() error {
			info, err := s.AggregateApartmentWithPaymentInfo(apt, payments)
			if err != nil {
				return err
			}
			results[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].UnitCode < results[j].UnitCode
	})
	return results, nil
}
