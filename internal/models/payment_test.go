package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/timeutil"
)

func newTestPayment(t *testing.T, due time.Time) *Payment {
	t.Helper()
	p, err := NewPayment("APT-101", Phone("+5511987654321"), 2500, due, PaymentRent, "contract-1", "ops")
	require.NoError(t, err)
	return p
}

func TestNewPaymentGuards(t *testing.T) {
	due := timeutil.Now().AddDate(0, 0, 7)

	_, err := NewPayment("", Phone("+5511987654321"), 100, due, PaymentRent, "", "ops")
	require.Error(t, err)

	_, err = NewPayment("APT-1", "", 100, due, PaymentRent, "", "ops")
	require.Error(t, err)

	_, err = NewPayment("APT-1", Phone("+5511987654321"), 0, due, PaymentRent, "", "ops")
	var bre *BusinessRuleViolationError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RuleAmountNotPositive, bre.Rule)

	_, err = NewPayment("APT-1", Phone("+5511987654321"), 100, time.Time{}, PaymentRent, "", "ops")
	require.Error(t, err)

	_, err = NewPayment("APT-1", Phone("+5511987654321"), 100, due, PaymentType("BARTER"), "", "ops")
	require.Error(t, err)
}

func TestPaymentProofFlow(t *testing.T) {
	p := newTestPayment(t, timeutil.Now().AddDate(0, 0, 7))
	assert.Equal(t, PaymentPending, p.Status())
	assert.False(t, p.HasProof())

	paidOn := timeutil.Now().AddDate(0, 0, -1)
	require.NoError(t, p.SubmitProof("proofs/APT-101/x/1", paidOn, "tenant"))
	assert.Equal(t, PaymentPaid, p.Status())
	assert.True(t, p.HasProof())
	require.NotNil(t, p.PaymentDate())

	// proof cannot be re-submitted
	err := p.SubmitProof("proofs/APT-101/x/2", paidOn, "tenant")
	var bre *BusinessRuleViolationError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RuleInvalidStatusTransition, bre.Rule)
}

func TestPaymentSubmitProofGuards(t *testing.T) {
	p := newTestPayment(t, timeutil.Now().AddDate(0, 0, 7))

	err := p.SubmitProof("  ", timeutil.Now(), "tenant")
	var bre *BusinessRuleViolationError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RuleProofRequired, bre.Rule)

	err = p.SubmitProof("proofs/k", timeutil.Now().Add(time.Hour), "tenant")
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RulePaymentDateInFuture, bre.Rule)

	assert.Equal(t, PaymentPending, p.Status())
}

func TestPaymentMarkOverdue(t *testing.T) {
	p := newTestPayment(t, timeutil.Now().AddDate(0, 0, 7))

	err := p.MarkOverdue("system")
	var bre *BusinessRuleViolationError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RuleDueDateNotPassed, bre.Rule)

	late := newTestPayment(t, timeutil.Now().AddDate(0, 0, -3))
	require.NoError(t, late.MarkOverdue("system"))
	assert.Equal(t, PaymentOverdue, late.Status())

	// an OVERDUE payment does not accept proof until the due date moves
	err = late.SubmitProof("proofs/k", timeutil.Now(), "tenant")
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RuleInvalidStatusTransition, bre.Rule)
}

func TestPaymentOverdueBackToPendingOnNewDueDate(t *testing.T) {
	p := newTestPayment(t, timeutil.Now().AddDate(0, 0, -3))
	require.NoError(t, p.MarkOverdue("system"))

	require.NoError(t, p.UpdateDueDate(timeutil.Now().AddDate(0, 0, 14), "ops"))
	assert.Equal(t, PaymentPending, p.Status())

	// pushing the due date into the past keeps it overdue-eligible, not flipped
	q := newTestPayment(t, timeutil.Now().AddDate(0, 0, -3))
	require.NoError(t, q.MarkOverdue("system"))
	require.NoError(t, q.UpdateDueDate(timeutil.Now().AddDate(0, 0, -1), "ops"))
	assert.Equal(t, PaymentOverdue, q.Status())
}

func TestPaymentValidateRequiresProof(t *testing.T) {
	p := newTestPayment(t, timeutil.Now().AddDate(0, 0, 7))

	err := p.Validate("admin")
	var bre *BusinessRuleViolationError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RuleInvalidStatusTransition, bre.Rule)

	require.NoError(t, p.SubmitProof("proofs/k", timeutil.Now(), "tenant"))
	require.NoError(t, p.Validate("admin"))
	assert.Equal(t, PaymentValidated, p.Status())
	assert.Equal(t, "admin", p.ValidatedBy())
	require.NotNil(t, p.ValidatedAt())
}

func TestPaymentRejectThenTerminal(t *testing.T) {
	p := newTestPayment(t, timeutil.Now().AddDate(0, 0, 7))
	require.NoError(t, p.SubmitProof("proofs/k", timeutil.Now(), "tenant"))
	require.NoError(t, p.Reject("admin"))
	assert.Equal(t, PaymentRejected, p.Status())

	var bre *BusinessRuleViolationError
	err := p.UpdateAmount(999, "ops")
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RuleTerminalPayment, bre.Rule)

	err = p.UpdateDueDate(timeutil.Now().AddDate(0, 1, 0), "ops")
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RuleTerminalPayment, bre.Rule)
}

func TestPaymentEffectiveDate(t *testing.T) {
	p := newTestPayment(t, timeutil.Now().AddDate(0, 0, 7))
	assert.True(t, p.EffectiveDate().Equal(p.Meta().CreatedAt))

	paidOn := timeutil.Now().AddDate(0, 0, -2)
	require.NoError(t, p.SubmitProof("proofs/k", paidOn, "tenant"))
	assert.True(t, p.EffectiveDate().Equal(paidOn))
}

func TestPaymentRecordRoundTrip(t *testing.T) {
	p := newTestPayment(t, timeutil.Now().AddDate(0, 0, 7))
	require.NoError(t, p.SubmitProof("proofs/APT-101/p/1", timeutil.Now().AddDate(0, 0, -1), "tenant"))
	require.NoError(t, p.Validate("admin"))

	restored, err := PaymentFromRecord(p.Record())
	require.NoError(t, err)

	assert.Equal(t, p.ID(), restored.ID())
	assert.Equal(t, p.UnitCode(), restored.UnitCode())
	assert.Equal(t, p.PayerPhone(), restored.PayerPhone())
	assert.Equal(t, p.Amount(), restored.Amount())
	assert.Equal(t, p.Status(), restored.Status())
	assert.Equal(t, p.Type(), restored.Type())
	assert.Equal(t, p.ContractID(), restored.ContractID())
	assert.Equal(t, p.ProofKey(), restored.ProofKey())
	assert.Equal(t, p.ValidatedBy(), restored.ValidatedBy())
	assert.True(t, p.DueDate().Equal(restored.DueDate()))
	require.NotNil(t, restored.PaymentDate())
	assert.True(t, p.PaymentDate().Equal(*restored.PaymentDate()))
}
