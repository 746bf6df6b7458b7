package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"
)

func TestApplyProofPendingPayment(t *testing.T) {
	p := aggPayment(t, "APT-101", 2500, timeutil.Now().AddDate(0, 0, 7))

	require.NoError(t, applyProof(p, "proofs/k", timeutil.Now(), "tenant"))
	assert.Equal(t, models.PaymentPaid, p.Status())
	assert.True(t, p.HasProof())
}

func TestApplyProofOverduePayment(t *testing.T) {
	due := timeutil.Now().AddDate(0, 0, -10)
	p := aggPayment(t, "APT-101", 2500, due)
	require.NoError(t, p.MarkOverdue("system"))

	// a tenant settling late rent online must still be able to complete
	require.NoError(t, applyProof(p, "gateway/razorpay/pay_123", timeutil.Now(), "gateway"))

	assert.Equal(t, models.PaymentPaid, p.Status())
	assert.True(t, p.HasProof())
	assert.True(t, p.DueDate().Equal(due), "original due date stays so delay analytics see the real deadline")
}

func TestApplyProofOverdueGuardsStillHold(t *testing.T) {
	p := aggPayment(t, "APT-101", 2500, timeutil.Now().AddDate(0, 0, -10))
	require.NoError(t, p.MarkOverdue("system"))

	err := applyProof(p, "proofs/k", timeutil.Now().Add(time.Hour), "tenant")
	var bre *models.BusinessRuleViolationError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, models.RulePaymentDateInFuture, bre.Rule)
}

func TestApplyProofTerminalPayment(t *testing.T) {
	p := aggPaidPayment(t, "APT-101", 2500, timeutil.Now().AddDate(0, 0, 7), timeutil.Now())
	require.NoError(t, p.Validate("admin"))

	err := applyProof(p, "proofs/k2", timeutil.Now(), "tenant")
	var bre *models.BusinessRuleViolationError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, models.RuleInvalidStatusTransition, bre.Rule)
	assert.Equal(t, models.PaymentValidated, p.Status())
}
