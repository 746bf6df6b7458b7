// Package mapper projects domain entities into read models. Every function
// is a pure, total computation over already-fetched collections; nothing
// here touches storage or mutates an entity.
package mapper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"rental-backend/internal/models"
	"rental-backend/internal/views"
)

func wholeDays(d time.Duration) int {
	return int(d.Hours() / 24)
}

// UserWithRelation flattens a (user, relation) pair. The relation's own
// audit timestamps answer "since when" on apartment pages.
func UserWithRelation(u *models.User, rel *models.UserApartmentRelation) views.UserWithRelation {
	return views.UserWithRelation{
		Phone:            u.Phone().String(),
		Name:             u.Name(),
		TaxID:            u.TaxID().String(),
		Email:            u.Contact().Email,
		Status:           string(u.Status()),
		Role:             string(rel.Role()),
		RelationshipType: rel.RelationshipType(),
		RelationActive:   rel.IsActive(),
		RelatedSince:     rel.Meta().CreatedAt,
		RelationUpdated:  rel.Meta().UpdatedAt,
	}
}

// ApartmentWithRelation flattens a (apartment, relation) pair for per-user
// views.
func ApartmentWithRelation(a *models.Apartment, rel *models.UserApartmentRelation) views.ApartmentWithRelation {
	return views.ApartmentWithRelation{
		UnitCode:         a.UnitCode(),
		Label:            a.Label(),
		Address:          a.Address(),
		Status:           string(a.Status()),
		RentalType:       string(a.RentalType()),
		Role:             string(rel.Role()),
		RelationshipType: rel.RelationshipType(),
		RelationActive:   rel.IsActive(),
		RelatedSince:     rel.Meta().CreatedAt,
		RelationUpdated:  rel.Meta().UpdatedAt,
	}
}

// featureList maps amenity flags to listing feature names, in display
// order.
func featureList(am models.Amenities) []string {
	features := []string{}
	for _, f := range []struct {
		on    bool
		label string
	}{
		{am.Furnished, "Furnished"},
		{am.AirConditioning, "Air conditioning"},
		{am.Parking, "Parking"},
		{am.PetsAllowed, "Pets allowed"},
		{am.Balcony, "Balcony"},
		{am.WasherDryer, "Washer/dryer"},
		{am.Pool, "Pool"},
		{am.Gym, "Gym"},
	} {
		if f.on {
			features = append(features, f.label)
		}
	}
	return features
}

// ApartmentListing derives the public listing projection. The address is
// split on commas: the last segment is the city and the second-to-last the
// neighborhood; a comma-free address yields neither. This heuristic is
// user-facing and intentionally left as is.
func ApartmentListing(a *models.Apartment) views.ApartmentListing {
	listing := views.ApartmentListing{
		UnitCode:   a.UnitCode(),
		Label:      a.Label(),
		Address:    a.Address(),
		RentalType: string(a.RentalType()),
		Status:     string(a.Status()),
		Features:   featureList(a.Amenities()),
		PriceRange: [2]float64{a.BaseRent(), a.BaseRent() + a.CleaningFee()},
		Images:     a.Images(),
		AirbnbLink: a.AirbnbLink(),
		Available:  a.Available(),
	}

	parts := strings.Split(a.Address(), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) >= 2 {
		listing.Address = parts[0]
		listing.Neighborhood = parts[len(parts)-2]
		listing.City = parts[len(parts)-1]
	}
	return listing
}

// CalculatePaymentStatus condenses payments into a status summary as of
// now. Empty input yields the bare no_payments summary.
func CalculatePaymentStatus(payments []*models.Payment, now time.Time) views.PaymentStatusSummary {
	if len(payments) == 0 {
		return views.PaymentStatusSummary{Status: views.PaymentStatusNoPayments}
	}

	var totalPending float64
	overdueCount := 0
	for _, p := range payments {
		if p.Status() != models.PaymentPending {
			continue
		}
		totalPending += p.Amount()
		if p.DueDate().Before(now) {
			overdueCount++
		}
	}

	status := views.PaymentStatusCurrent
	if overdueCount > 0 {
		status = views.PaymentStatusOverdue
	}

	// Most recently created payment, then its effective date (payment date
	// when set, creation time otherwise).
	latest := payments[0]
	for _, p := range payments[1:] {
		if p.Meta().CreatedAt.After(latest.Meta().CreatedAt) {
			latest = p
		}
	}
	days := wholeDays(now.Sub(latest.EffectiveDate()))

	return views.PaymentStatusSummary{
		Status:               status,
		DaysSinceLastPayment: &days,
		TotalPendingAmount:   totalPending,
		OverdueCount:         overdueCount,
	}
}

// CreateTimelineEvents builds the apartment history timeline: contract
// starts (and ends, when the contract finished), received payments and
// relation additions/removals, newest first. Ties keep emission order.
func CreateTimelineEvents(contracts []*models.Contract, payments []*models.Payment, relations []*models.UserApartmentRelation) []views.TimelineEvent {
	events := []views.TimelineEvent{}

	for _, c := range contracts {
		events = append(events, views.TimelineEvent{
			Date:        c.StartDate(),
			Type:        views.EventContract,
			Description: fmt.Sprintf("Contract started for %s", c.TenantPhone()),
			Ref:         c.ID(),
		})
		switch c.Status() {
		case models.ContractTerminated:
			events = append(events, views.TimelineEvent{
				Date:        c.EndDate(),
				Type:        views.EventContract,
				Description: fmt.Sprintf("Contract terminated for %s", c.TenantPhone()),
				Ref:         c.ID(),
			})
		case models.ContractExpired:
			events = append(events, views.TimelineEvent{
				Date:        c.EndDate(),
				Type:        views.EventContract,
				Description: fmt.Sprintf("Contract expired for %s", c.TenantPhone()),
				Ref:         c.ID(),
			})
		}
	}

	// Payments never proof-submitted have no payment date and stay off the
	// timeline.
	for _, p := range payments {
		if p.PaymentDate() == nil {
			continue
		}
		events = append(events, views.TimelineEvent{
			Date:        *p.PaymentDate(),
			Type:        views.EventPayment,
			Description: fmt.Sprintf("Payment of %.2f received (%s)", p.Amount(), p.Type()),
			Ref:         p.ID(),
		})
	}

	for _, rel := range relations {
		events = append(events, views.TimelineEvent{
			Date:        rel.Meta().CreatedAt,
			Type:        views.EventUserAdded,
			Description: fmt.Sprintf("User %s added as %s", rel.Phone(), rel.Role()),
			Ref:         rel.Phone().String(),
		})
		if !rel.IsActive() {
			events = append(events, views.TimelineEvent{
				Date:        rel.Meta().UpdatedAt,
				Type:        views.EventUserRemoved,
				Description: fmt.Sprintf("User %s removed (%s)", rel.Phone(), rel.Role()),
				Ref:         rel.Phone().String(),
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})
	return events
}

// CalculateApartmentStatistics summarizes occupancy over a unit's
// contracts as of now.
func CalculateApartmentStatistics(contracts []*models.Contract, now time.Time) views.ApartmentStatistics {
	stats := views.ApartmentStatistics{TotalContracts: len(contracts)}

	completedDays := 0
	completed := 0
	for _, c := range contracts {
		switch c.Status() {
		case models.ContractTerminated, models.ContractExpired:
			completedDays += wholeDays(c.EndDate().Sub(c.StartDate()))
			completed++
		case models.ContractActive:
			if stats.CurrentOccupancyDuration == nil {
				days := wholeDays(now.Sub(c.StartDate()))
				stats.CurrentOccupancyDuration = &days
			}
		}
	}
	if completed > 0 {
		stats.AverageOccupancyDuration = completedDays / completed
	}
	return stats
}

// CalculateUserPaymentSummary totals a user's payment history. The average
// delay counts late payments only: paying early or on time neither lowers
// the average nor enters the count.
func CalculateUserPaymentSummary(payments []*models.Payment) views.UserPaymentSummary {
	summary := views.UserPaymentSummary{}

	delaySum := 0
	delayCount := 0
	for _, p := range payments {
		switch p.Status() {
		case models.PaymentPaid, models.PaymentValidated:
			summary.TotalPaidAmount += p.Amount()
		case models.PaymentPending:
			summary.TotalPendingAmount += p.Amount()
		}

		d := p.PaymentDate()
		if d == nil {
			continue
		}
		if summary.LastPaymentDate == nil || d.After(*summary.LastPaymentDate) {
			t := *d
			summary.LastPaymentDate = &t
		}
		if delay := wholeDays(d.Sub(p.DueDate())); delay > 0 {
			delaySum += delay
			delayCount++
		}
	}
	if delayCount > 0 {
		summary.AveragePaymentDelay = delaySum / delayCount
	}
	return summary
}

// PaymentView projects a payment for embedding in composites.
func PaymentView(p *models.Payment) views.PaymentView {
	return views.PaymentView{
		ID:          p.ID(),
		UnitCode:    p.UnitCode(),
		PayerPhone:  p.PayerPhone().String(),
		Amount:      p.Amount(),
		DueDate:     p.DueDate(),
		Status:      string(p.Status()),
		Type:        string(p.Type()),
		ContractID:  p.ContractID(),
		PaymentDate: p.PaymentDate(),
		HasProof:    p.HasProof(),
		CreatedAt:   p.Meta().CreatedAt,
	}
}

// ContractView projects a contract for embedding in composites.
func ContractView(c *models.Contract) views.ContractView {
	terms := c.Terms()
	return views.ContractView{
		ID:          c.ID(),
		UnitCode:    c.UnitCode(),
		TenantPhone: c.TenantPhone().String(),
		StartDate:   c.StartDate(),
		EndDate:     c.EndDate(),
		MonthlyRent: terms.MonthlyRent,
		DueDay:      terms.DueDay,
		Deposit:     terms.Deposit,
		Status:      string(c.Status()),
	}
}
