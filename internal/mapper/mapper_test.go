package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
	"rental-backend/internal/views"
)

func makeApartment(t *testing.T, address string) *models.Apartment {
	t.Helper()
	a, err := models.NewApartment("APT-101", "Jardins 101", address, 2500, 150,
		models.RentalLongTerm, models.Amenities{Furnished: true, Parking: true}, "ops")
	require.NoError(t, err)
	return a
}

func makeContract(t *testing.T, start, end time.Time) *models.Contract {
	t.Helper()
	c, err := models.NewContract("APT-101", "+5511987654321", start, end,
		models.ContractTerms{MonthlyRent: 2500, DueDay: 5}, "ops")
	require.NoError(t, err)
	return c
}

func makePayment(t *testing.T, due time.Time) *models.Payment {
	t.Helper()
	p, err := models.NewPayment("APT-101", "+5511987654321", 2500, due, models.PaymentRent, "", "ops")
	require.NoError(t, err)
	return p
}

func paidPayment(t *testing.T, due, paidOn time.Time) *models.Payment {
	t.Helper()
	p := makePayment(t, due)
	require.NoError(t, p.SubmitProof("proofs/k", paidOn, "tenant"))
	return p
}

func TestApartmentListingAddressSplit(t *testing.T) {
	listing := ApartmentListing(makeApartment(t, "Rua das Flores 100, Jardins, São Paulo"))

	assert.Equal(t, "Rua das Flores 100", listing.Address)
	assert.Equal(t, "Jardins", listing.Neighborhood)
	assert.Equal(t, "São Paulo", listing.City)
	assert.Equal(t, [2]float64{2500, 2650}, listing.PriceRange)
	assert.Equal(t, []string{"Furnished", "Parking"}, listing.Features)
	assert.True(t, listing.Available)
}

func TestApartmentListingCommaFreeAddress(t *testing.T) {
	listing := ApartmentListing(makeApartment(t, "Rua das Flores 100"))

	assert.Equal(t, "Rua das Flores 100", listing.Address)
	assert.Empty(t, listing.Neighborhood)
	assert.Empty(t, listing.City)
}

func TestApartmentListingTwoSegmentAddress(t *testing.T) {
	listing := ApartmentListing(makeApartment(t, "Rua das Flores 100, São Paulo"))

	assert.Equal(t, "Rua das Flores 100", listing.Address)
	assert.Equal(t, "Rua das Flores 100", listing.Neighborhood)
	assert.Equal(t, "São Paulo", listing.City)
}

func TestCalculatePaymentStatusEmpty(t *testing.T) {
	summary := CalculatePaymentStatus(nil, timeutil.Now())

	assert.Equal(t, views.PaymentStatusNoPayments, summary.Status)
	assert.Nil(t, summary.DaysSinceLastPayment)
	assert.Zero(t, summary.TotalPendingAmount)
	assert.Zero(t, summary.OverdueCount)
}

func TestCalculatePaymentStatusOverdue(t *testing.T) {
	now := timeutil.Now()
	payments := []*models.Payment{
		makePayment(t, now.AddDate(0, 0, -3)), // pending past due
		makePayment(t, now.AddDate(0, 0, 10)), // pending, not due yet
	}

	summary := CalculatePaymentStatus(payments, now)

	assert.Equal(t, views.PaymentStatusOverdue, summary.Status)
	assert.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, 5000.0, summary.TotalPendingAmount)
}

func TestCalculatePaymentStatusCurrent(t *testing.T) {
	now := timeutil.Now()
	payments := []*models.Payment{
		paidPayment(t, now.AddDate(0, 0, -30), now.AddDate(0, 0, -30)),
		makePayment(t, now.AddDate(0, 0, 10)),
	}

	summary := CalculatePaymentStatus(payments, now)

	assert.Equal(t, views.PaymentStatusCurrent, summary.Status)
	assert.Zero(t, summary.OverdueCount)
	assert.Equal(t, 2500.0, summary.TotalPendingAmount)
}

func TestCalculatePaymentStatusDaysSinceLastPayment(t *testing.T) {
	now := timeutil.Now()
	// the most recently created payment wins, not the most recently paid
	older := paidPayment(t, now.AddDate(0, 0, -60), now.AddDate(0, 0, -2))
	newer := paidPayment(t, now.AddDate(0, 0, -30), now.AddDate(0, 0, -5))

	summary := CalculatePaymentStatus([]*models.Payment{older, newer}, now)

	require.NotNil(t, summary.DaysSinceLastPayment)
	assert.Equal(t, 5, *summary.DaysSinceLastPayment)
}

func TestCreateTimelineEvents(t *testing.T) {
	now := timeutil.Now()

	terminated := makeContract(t, now.AddDate(-2, 0, 0), now.AddDate(-1, 0, 0))
	require.NoError(t, terminated.Activate("ops"))
	require.NoError(t, terminated.Terminate("ops"))

	active := makeContract(t, now.AddDate(0, -6, 0), now.AddDate(0, 6, 0))
	require.NoError(t, active.Activate("ops"))

	paid := paidPayment(t, now.AddDate(0, -1, 0), now.AddDate(0, -1, 0))
	unpaid := makePayment(t, now.AddDate(0, 0, 10))

	rel, err := models.NewUserApartmentRelation("APT-101", "+5511987654321", models.RolePrimaryTenant, "", "ops")
	require.NoError(t, err)
	removed, err := models.NewUserApartmentRelation("APT-101", "+5511912345678", models.RoleEmergencyContact, "", "ops")
	require.NoError(t, err)
	require.NoError(t, removed.Deactivate("ops"))

	events := CreateTimelineEvents(
		[]*models.Contract{terminated, active},
		[]*models.Payment{paid, unpaid},
		[]*models.UserApartmentRelation{rel, removed},
	)

	// terminated contributes start+end, active start only, one paid payment,
	// one relation add, one add+remove pair
	require.Len(t, events, 7)

	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Date.After(events[i-1].Date), "events must be newest first")
	}

	counts := map[string]int{}
	for _, e := range events {
		counts[e.Type]++
		if e.Type == views.EventPayment {
			assert.Equal(t, paid.ID(), e.Ref)
		}
	}
	assert.Equal(t, 3, counts[views.EventContract])
	assert.Equal(t, 1, counts[views.EventPayment])
	assert.Equal(t, 2, counts[views.EventUserAdded])
	assert.Equal(t, 1, counts[views.EventUserRemoved])
}

func TestCreateTimelineEventsEmpty(t *testing.T) {
	events := CreateTimelineEvents(nil, nil, nil)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}

func TestCalculateApartmentStatistics(t *testing.T) {
	now := timeutil.Now()

	finished := makeContract(t, now.AddDate(0, 0, -500), now.AddDate(0, 0, -135))
	require.NoError(t, finished.Activate("ops"))
	require.NoError(t, finished.Terminate("ops"))

	expired := makeContract(t, now.AddDate(0, 0, -300), now.AddDate(0, 0, -117))
	require.NoError(t, expired.Activate("ops"))
	require.NoError(t, expired.Expire("system"))

	current := makeContract(t, now.AddDate(0, 0, -30), now.AddDate(1, 0, 0))
	require.NoError(t, current.Activate("ops"))

	stats := CalculateApartmentStatistics([]*models.Contract{finished, expired, current}, now)

	assert.Equal(t, 3, stats.TotalContracts)
	assert.Equal(t, (365+183)/2, stats.AverageOccupancyDuration)
	require.NotNil(t, stats.CurrentOccupancyDuration)
	assert.Equal(t, 30, *stats.CurrentOccupancyDuration)
}

func TestCalculateApartmentStatisticsEmpty(t *testing.T) {
	stats := CalculateApartmentStatistics(nil, timeutil.Now())
	assert.Zero(t, stats.TotalContracts)
	assert.Zero(t, stats.AverageOccupancyDuration)
	assert.Nil(t, stats.CurrentOccupancyDuration)
}

func TestCalculateUserPaymentSummary(t *testing.T) {
	now := timeutil.Now()

	// six days late
	late := paidPayment(t, now.AddDate(0, 0, -10), now.AddDate(0, 0, -4))
	// paid ahead of the due date: never enters the delay average
	early := paidPayment(t, now.AddDate(0, 0, -20), now.AddDate(0, 0, -25))
	pending := makePayment(t, now.AddDate(0, 0, 10))

	summary := CalculateUserPaymentSummary([]*models.Payment{late, early, pending})

	assert.Equal(t, 5000.0, summary.TotalPaidAmount)
	assert.Equal(t, 2500.0, summary.TotalPendingAmount)
	assert.Equal(t, 6, summary.AveragePaymentDelay)
	require.NotNil(t, summary.LastPaymentDate)
	assert.True(t, summary.LastPaymentDate.Equal(now.AddDate(0, 0, -4)))
}

func TestCalculateUserPaymentSummaryEmpty(t *testing.T) {
	summary := CalculateUserPaymentSummary(nil)
	assert.Zero(t, summary.TotalPaidAmount)
	assert.Zero(t, summary.AveragePaymentDelay)
	assert.Nil(t, summary.LastPaymentDate)
}

func TestUserWithRelationFlattening(t *testing.T) {
	u, err := models.NewUser("+5511987654321", "Maria Silva", "52998224725",
		models.ContactInfo{Email: "maria@example.com"}, "ops")
	require.NoError(t, err)
	rel, err := models.NewUserApartmentRelation("APT-101", u.Phone(), models.RoleSecondaryTenant, "spouse", "ops")
	require.NoError(t, err)

	v := UserWithRelation(u, rel)

	assert.Equal(t, "+5511987654321", v.Phone)
	assert.Equal(t, "Maria Silva", v.Name)
	assert.Equal(t, string(models.RoleSecondaryTenant), v.Role)
	assert.Equal(t, "spouse", v.RelationshipType)
	assert.True(t, v.RelationActive)
	assert.True(t, v.RelatedSince.Equal(rel.Meta().CreatedAt))
}
