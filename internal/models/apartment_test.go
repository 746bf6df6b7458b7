package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApartment(t *testing.T) *Apartment {
	t.Helper()
	a, err := NewApartment("APT-101", "Garden unit", "Rua das Flores 100, Jardins, São Paulo",
		2500, 150, RentalLongTerm, Amenities{Furnished: true, Parking: true}, "ops@rental.com")
	require.NoError(t, err)
	return a
}

func TestNewApartmentValidation(t *testing.T) {
	tests := []struct {
		name        string
		unitCode    string
		address     string
		baseRent    float64
		cleaningFee float64
		rentalType  RentalType
		field       string
	}{
		{"missing unit code", "  ", "some address", 1000, 0, RentalLongTerm, "unit_code"},
		{"missing address", "APT-1", "", 1000, 0, RentalLongTerm, "address"},
		{"zero rent", "APT-1", "addr", 0, 0, RentalLongTerm, "base_rent"},
		{"negative cleaning fee", "APT-1", "addr", 1000, -1, RentalLongTerm, "cleaning_fee"},
		{"bad rental type", "APT-1", "addr", 1000, 0, RentalType("WEEKLY"), "rental_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewApartment(tt.unitCode, "", tt.address, tt.baseRent, tt.cleaningFee, tt.rentalType, Amenities{}, "ops")
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestNewApartmentStartsAvailable(t *testing.T) {
	a := newTestApartment(t)
	assert.Equal(t, ApartmentAvailable, a.Status())
	assert.True(t, a.Available())
	assert.Equal(t, 1, a.Meta().Version)
}

func TestApartmentStatusTransitions(t *testing.T) {
	allowed := map[ApartmentStatus][]ApartmentStatus{
		ApartmentAvailable:   {ApartmentOccupied, ApartmentMaintenance, ApartmentInactive},
		ApartmentOccupied:    {ApartmentAvailable, ApartmentMaintenance, ApartmentInactive},
		ApartmentVacant:      {ApartmentAvailable, ApartmentOccupied, ApartmentMaintenance, ApartmentInactive},
		ApartmentReserved:    {ApartmentOccupied, ApartmentAvailable, ApartmentMaintenance, ApartmentInactive},
		ApartmentMaintenance: {ApartmentAvailable, ApartmentVacant, ApartmentInactive},
		ApartmentInactive:    {ApartmentAvailable, ApartmentVacant, ApartmentMaintenance},
	}
	all := []ApartmentStatus{ApartmentAvailable, ApartmentOccupied, ApartmentVacant,
		ApartmentReserved, ApartmentMaintenance, ApartmentInactive}

	for from, targets := range allowed {
		permitted := map[ApartmentStatus]bool{}
		for _, to := range targets {
			permitted[to] = true
		}

		for _, to := range all {
			a := newTestApartment(t)
			a.status = from

			err := a.ChangeStatus(to, "ops")
			if permitted[to] {
				require.NoError(t, err, "%s -> %s should be allowed", from, to)
				assert.Equal(t, to, a.Status())
			} else {
				require.Error(t, err, "%s -> %s should be rejected", from, to)
				var bre *BusinessRuleViolationError
				require.ErrorAs(t, err, &bre)
				assert.Equal(t, RuleInvalidStatusTransition, bre.Rule)
				assert.Equal(t, from, a.Status())
			}
		}
	}
}

func TestApartmentChangeStatusUnknownTarget(t *testing.T) {
	a := newTestApartment(t)
	err := a.ChangeStatus(ApartmentStatus("DEMOLISHED"), "ops")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestApartmentDeactivateIsSoftDelete(t *testing.T) {
	a := newTestApartment(t)
	require.NoError(t, a.Deactivate("ops"))
	assert.Equal(t, ApartmentInactive, a.Status())

	// INACTIVE -> INACTIVE is not in the allow-list
	require.Error(t, a.Deactivate("ops"))
}

func TestApartmentMutationsBumpVersion(t *testing.T) {
	a := newTestApartment(t)
	require.NoError(t, a.UpdatePricing(2600, 100, "admin@rental.com"))
	require.NoError(t, a.ChangeRentalType(RentalBoth, "admin@rental.com"))
	require.NoError(t, a.SetImages([]string{"img/1.jpg"}, "admin@rental.com"))

	assert.Equal(t, 4, a.Meta().Version)
	assert.Equal(t, "admin@rental.com", a.Meta().UpdatedBy)
	assert.Equal(t, "ops@rental.com", a.Meta().CreatedBy)
}

func TestApartmentUpdatePricingGuards(t *testing.T) {
	a := newTestApartment(t)
	require.Error(t, a.UpdatePricing(0, 0, "ops"))
	require.Error(t, a.UpdatePricing(1000, -5, "ops"))
	assert.Equal(t, 2500.0, a.BaseRent())
}

func TestApartmentSetAirbnbLinkRequiresURL(t *testing.T) {
	a := newTestApartment(t)
	require.Error(t, a.SetAirbnbLink("not a url", "ops"))
	require.NoError(t, a.SetAirbnbLink("https://airbnb.com/rooms/123", "ops"))
	require.NoError(t, a.SetAirbnbLink("", "ops"))
	assert.Equal(t, "", a.AirbnbLink())
}

func TestApartmentRecordRoundTrip(t *testing.T) {
	a := newTestApartment(t)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, a.SetAvailability(false, &from, "ops"))
	require.NoError(t, a.SetImages([]string{"a.jpg", "b.jpg"}, "ops"))
	require.NoError(t, a.SetAirbnbLink("https://airbnb.com/rooms/9", "ops"))

	restored, err := ApartmentFromRecord(a.Record())
	require.NoError(t, err)

	assert.Equal(t, a.UnitCode(), restored.UnitCode())
	assert.Equal(t, a.Address(), restored.Address())
	assert.Equal(t, a.BaseRent(), restored.BaseRent())
	assert.Equal(t, a.CleaningFee(), restored.CleaningFee())
	assert.Equal(t, a.Status(), restored.Status())
	assert.Equal(t, a.RentalType(), restored.RentalType())
	assert.Equal(t, a.Amenities(), restored.Amenities())
	assert.Equal(t, a.Images(), restored.Images())
	assert.Equal(t, a.AirbnbLink(), restored.AirbnbLink())
	assert.Equal(t, a.Available(), restored.Available())
	require.NotNil(t, restored.AvailableFrom())
	assert.True(t, restored.AvailableFrom().Equal(from))
	assert.Equal(t, a.Meta().Version, restored.Meta().Version)
}

func TestApartmentFromRecordRejectsBadStatus(t *testing.T) {
	a := newTestApartment(t)
	r := a.Record()
	r["status"] = "FLOODED"
	_, err := ApartmentFromRecord(r)
	require.Error(t, err)
}
