package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/timeutil"
)

func newTestContract(t *testing.T) *Contract {
	t.Helper()
	start := timeutil.Now()
	c, err := NewContract("APT-101", Phone("+5511987654321"), start, start.AddDate(1, 0, 0), ContractTerms{
		MonthlyRent: 2500,
		DueDay:      5,
		Deposit:     2500,
		Inclusions:  []string{"water", "condo fee"},
	}, "ops")
	require.NoError(t, err)
	return c
}

func TestNewContractValidation(t *testing.T) {
	start := timeutil.Now()
	end := start.AddDate(1, 0, 0)
	good := ContractTerms{MonthlyRent: 2500, DueDay: 5}

	cases := []struct {
		name  string
		run   func() (*Contract, error)
		field string
	}{
		{"missing unit code", func() (*Contract, error) {
			return NewContract("  ", "+5511987654321", start, end, good, "ops")
		}, "unit_code"},
		{"missing tenant phone", func() (*Contract, error) {
			return NewContract("APT-1", "", start, end, good, "ops")
		}, "tenant_phone"},
		{"end before start", func() (*Contract, error) {
			return NewContract("APT-1", "+5511987654321", end, start, good, "ops")
		}, "end_date"},
		{"end equals start", func() (*Contract, error) {
			return NewContract("APT-1", "+5511987654321", start, start, good, "ops")
		}, "end_date"},
		{"zero rent", func() (*Contract, error) {
			return NewContract("APT-1", "+5511987654321", start, end, ContractTerms{DueDay: 5}, "ops")
		}, "monthly_rent"},
		{"due day out of range", func() (*Contract, error) {
			return NewContract("APT-1", "+5511987654321", start, end, ContractTerms{MonthlyRent: 1, DueDay: 32}, "ops")
		}, "due_day"},
		{"negative deposit", func() (*Contract, error) {
			return NewContract("APT-1", "+5511987654321", start, end, ContractTerms{MonthlyRent: 1, DueDay: 5, Deposit: -1}, "ops")
		}, "deposit"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.run()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestContractLifecycle(t *testing.T) {
	c := newTestContract(t)
	assert.Equal(t, ContractPending, c.Status())

	var bre *BusinessRuleViolationError
	require.ErrorAs(t, c.Terminate("ops"), &bre)
	assert.Equal(t, RuleContractNotActive, bre.Rule)
	require.ErrorAs(t, c.Expire("system"), &bre)

	require.NoError(t, c.Activate("ops"))
	assert.Equal(t, ContractActive, c.Status())

	require.ErrorAs(t, c.Activate("ops"), &bre)
	assert.Equal(t, RuleInvalidStatusTransition, bre.Rule)

	require.NoError(t, c.Terminate("ops"))
	assert.Equal(t, ContractTerminated, c.Status())

	// terminal: nothing moves anymore
	require.Error(t, c.Activate("ops"))
	require.Error(t, c.Expire("system"))
	require.Error(t, c.Extend(c.EndDate().AddDate(0, 6, 0), "ops"))
}

func TestContractExpire(t *testing.T) {
	c := newTestContract(t)
	require.NoError(t, c.Activate("ops"))
	require.NoError(t, c.Expire("system"))
	assert.Equal(t, ContractExpired, c.Status())
	require.Error(t, c.Terminate("ops"))
}

func TestContractExtend(t *testing.T) {
	c := newTestContract(t)
	end := c.EndDate()

	var bre *BusinessRuleViolationError
	require.ErrorAs(t, c.Extend(end.AddDate(0, 6, 0), "ops"), &bre)
	assert.Equal(t, RuleContractNotActive, bre.Rule)

	require.NoError(t, c.Activate("ops"))

	require.ErrorAs(t, c.Extend(end, "ops"), &bre)
	assert.Equal(t, RuleEndDateNotLater, bre.Rule)
	require.ErrorAs(t, c.Extend(end.AddDate(0, 0, -1), "ops"), &bre)

	require.NoError(t, c.Extend(end.AddDate(0, 6, 0), "ops"))
	assert.True(t, c.EndDate().Equal(end.AddDate(0, 6, 0)))
}

func TestContractTermsAreCopied(t *testing.T) {
	c := newTestContract(t)
	terms := c.Terms()
	terms.Inclusions[0] = "mutated"
	assert.Equal(t, "water", c.Terms().Inclusions[0])
}

func TestContractRecordRoundTrip(t *testing.T) {
	c := newTestContract(t)
	require.NoError(t, c.Activate("admin"))

	restored, err := ContractFromRecord(c.Record())
	require.NoError(t, err)

	assert.Equal(t, c.ID(), restored.ID())
	assert.Equal(t, c.UnitCode(), restored.UnitCode())
	assert.Equal(t, c.TenantPhone(), restored.TenantPhone())
	assert.Equal(t, c.Status(), restored.Status())
	assert.True(t, c.StartDate().Equal(restored.StartDate()))
	assert.True(t, c.EndDate().Equal(restored.EndDate()))
	assert.Equal(t, c.Terms(), restored.Terms())
	assert.Equal(t, c.Meta().Version, restored.Meta().Version)
	assert.Equal(t, "admin", restored.Meta().UpdatedBy)

	_, err = ContractFromRecord(Record{"id": "x", "status": "SIGNED"})
	require.Error(t, err)
}
