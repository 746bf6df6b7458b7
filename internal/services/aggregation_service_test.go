package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/metrics"
	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
	"rental-backend/internal/views"
)

func aggApartment(t *testing.T, unitCode string) *models.Apartment {
	t.Helper()
	a, err := models.NewApartment(unitCode, unitCode, "Rua das Flores 100, Jardins, São Paulo",
		2500, 150, models.RentalLongTerm, models.Amenities{}, "ops")
	require.NoError(t, err)
	return a
}

func aggPayment(t *testing.T, unitCode string, amount float64, due time.Time) *models.Payment {
	t.Helper()
	p, err := models.NewPayment(unitCode, "+5511987654321", amount, due, models.PaymentRent, "", "ops")
	require.NoError(t, err)
	return p
}

func aggPaidPayment(t *testing.T, unitCode string, amount float64, due, paidOn time.Time) *models.Payment {
	t.Helper()
	p := aggPayment(t, unitCode, amount, due)
	require.NoError(t, p.SubmitProof("proofs/k", paidOn, "tenant"))
	return p
}

func TestAggregateApartmentWithPaymentInfo(t *testing.T) {
	svc := NewAggregationService()
	now := timeutil.Now()

	apt := aggApartment(t, "APT-101")
	paid := aggPaidPayment(t, "APT-101", 2500, now.AddDate(0, -1, 0), now.AddDate(0, -1, 0))
	pending := aggPayment(t, "APT-101", 2500, now.AddDate(0, 0, 10))
	other := aggPayment(t, "APT-202", 9999, now.AddDate(0, 0, 10))

	info, err := svc.AggregateApartmentWithPaymentInfo(apt, []*models.Payment{paid, pending, other})
	require.NoError(t, err)

	assert.Equal(t, "APT-101", info.UnitCode)
	assert.Equal(t, views.PaymentStatusCurrent, info.PaymentSummary.Status)
	assert.Equal(t, 2500.0, info.TotalPaid)
	assert.Equal(t, 2500.0, info.TotalPending)
	// the foreign unit's payment must not leak into the totals
	require.NotNil(t, info.LastPayment)
	assert.Equal(t, pending.ID(), info.LastPayment.ID, "most recently created payment wins")
}

func TestAggregateApartmentWithPaymentInfoNoPayments(t *testing.T) {
	svc := NewAggregationService()

	info, err := svc.AggregateApartmentWithPaymentInfo(aggApartment(t, "APT-101"), nil)
	require.NoError(t, err)

	assert.Equal(t, views.PaymentStatusNoPayments, info.PaymentSummary.Status)
	assert.Nil(t, info.LastPayment)
	assert.Zero(t, info.TotalPaid)
}

func TestAggregationPanicBecomesError(t *testing.T) {
	svc := NewAggregationService()
	apt := aggApartment(t, "APT-101")
	failures := testutil.ToFloat64(metrics.AggregationFailuresTotal)

	// a nil entry in the collection trips a nil dereference mid-aggregation
	_, err := svc.AggregateApartmentWithPaymentInfo(apt, []*models.Payment{nil})
	require.Error(t, err)

	var ae *models.AggregationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, models.KindAggregation, models.KindOf(err))
	assert.Equal(t, failures+1, testutil.ToFloat64(metrics.AggregationFailuresTotal))
}

func TestAggregateApartmentsWithPaymentInfoSortedByUnitCode(t *testing.T) {
	svc := NewAggregationService()

	apartments := []*models.Apartment{
		aggApartment(t, "APT-303"),
		aggApartment(t, "APT-101"),
		aggApartment(t, "APT-202"),
	}

	results, err := svc.AggregateApartmentsWithPaymentInfo(apartments, nil)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "APT-101", results[0].UnitCode)
	assert.Equal(t, "APT-202", results[1].UnitCode)
	assert.Equal(t, "APT-303", results[2].UnitCode)
}

func TestAggregateApartmentsWithPaymentInfoPropagatesError(t *testing.T) {
	svc := NewAggregationService()

	_, err := svc.AggregateApartmentsWithPaymentInfo(
		[]*models.Apartment{aggApartment(t, "APT-101")},
		[]*models.Payment{nil},
	)
	require.Error(t, err)
	assert.Equal(t, models.KindAggregation, models.KindOf(err))
}

func TestAggregateApartmentDetails(t *testing.T) {
	svc := NewAggregationService()
	now := timeutil.Now()

	apt := aggApartment(t, "APT-101")

	tenant, err := models.NewUser("+5511987654321", "Maria Silva", "52998224725", models.ContactInfo{}, "ops")
	require.NoError(t, err)
	stranger, err := models.NewUser("+5511912345678", "João Souza", "", models.ContactInfo{}, "ops")
	require.NoError(t, err)

	rel, err := models.NewUserApartmentRelation("APT-101", tenant.Phone(), models.RolePrimaryTenant, "", "ops")
	require.NoError(t, err)
	otherUnitRel, err := models.NewUserApartmentRelation("APT-202", tenant.Phone(), models.RolePrimaryTenant, "", "ops")
	require.NoError(t, err)

	current, err := models.NewContract("APT-101", tenant.Phone(), now.AddDate(0, -6, 0), now.AddDate(0, 6, 0),
		models.ContractTerms{MonthlyRent: 2500, DueDay: 5}, "ops")
	require.NoError(t, err)
	require.NoError(t, current.Activate("ops"))

	past, err := models.NewContract("APT-101", tenant.Phone(), now.AddDate(-2, 0, 0), now.AddDate(-1, 0, 0),
		models.ContractTerms{MonthlyRent: 2000, DueDay: 5}, "ops")
	require.NoError(t, err)
	require.NoError(t, past.Activate("ops"))
	require.NoError(t, past.Expire("system"))

	payment := aggPaidPayment(t, "APT-101", 2500, now.AddDate(0, -1, 0), now.AddDate(0, -1, 0))

	details, err := svc.AggregateApartmentDetails(apt,
		[]*models.User{tenant, stranger},
		[]*models.UserApartmentRelation{rel, otherUnitRel},
		[]*models.Contract{past, current},
		[]*models.Payment{payment},
	)
	require.NoError(t, err)

	// only the user with a relation to this unit survives the join
	require.Len(t, details.Users, 1)
	assert.Equal(t, tenant.Phone().String(), details.Users[0].Phone)

	require.NotNil(t, details.ActiveContract)
	assert.Equal(t, current.ID(), details.ActiveContract.ID)
	require.Len(t, details.ContractHistory, 2)
	assert.Equal(t, current.ID(), details.ContractHistory[0].ID, "history is newest first")

	require.Len(t, details.RecentPayments, 1)
	assert.Equal(t, views.PaymentStatusCurrent, details.PaymentSummary.Status)
}

func TestAggregateApartmentDetailsEmptyCollections(t *testing.T) {
	svc := NewAggregationService()

	details, err := svc.AggregateApartmentDetails(aggApartment(t, "APT-101"), nil, nil, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, details.Users)
	assert.Nil(t, details.ActiveContract)
	assert.Empty(t, details.ContractHistory)
	assert.Empty(t, details.RecentPayments)
	assert.Equal(t, views.PaymentStatusNoPayments, details.PaymentSummary.Status)
}

func TestAggregateApartmentLog(t *testing.T) {
	svc := NewAggregationService()
	now := timeutil.Now()

	apt := aggApartment(t, "APT-101")

	finished, err := models.NewContract("APT-101", "+5511987654321", now.AddDate(0, 0, -400), now.AddDate(0, 0, -35),
		models.ContractTerms{MonthlyRent: 2500, DueDay: 5}, "ops")
	require.NoError(t, err)
	require.NoError(t, finished.Activate("ops"))
	require.NoError(t, finished.Terminate("ops"))

	paid := aggPaidPayment(t, "APT-101", 2500, now.AddDate(0, -1, 0), now.AddDate(0, -1, 0))
	foreign := aggPaidPayment(t, "APT-202", 9999, now.AddDate(0, -1, 0), now.AddDate(0, -1, 0))

	log, err := svc.AggregateApartmentLog(apt, []*models.Contract{finished}, []*models.Payment{paid, foreign}, nil)
	require.NoError(t, err)

	assert.Equal(t, "APT-101", log.UnitCode)
	// contract start + end plus the received payment
	assert.Len(t, log.Timeline, 3)
	assert.Equal(t, 1, log.Statistics.TotalPayments)
	assert.Equal(t, 2500.0, log.Statistics.TotalRevenue)
	assert.Equal(t, 1, log.Statistics.TotalContracts)
}
