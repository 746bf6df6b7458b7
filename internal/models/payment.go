package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"rental-backend/internal/timeutil"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentOverdue   PaymentStatus = "OVERDUE"
	PaymentValidated PaymentStatus = "VALIDATED"
	PaymentRejected  PaymentStatus = "REJECTED"
)

type PaymentType string

const (
	PaymentRent        PaymentType = "RENT"
	PaymentCleaningFee PaymentType = "CLEANING_FEE"
	PaymentDeposit     PaymentType = "DEPOSIT"
	PaymentUtilities   PaymentType = "UTILITIES"
	PaymentOther       PaymentType = "OTHER"
)

func validPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentValidated, PaymentRejected:
		return true
	}
	return false
}

func validPaymentType(t PaymentType) bool {
	switch t {
	case PaymentRent, PaymentCleaningFee, PaymentDeposit, PaymentUtilities, PaymentOther:
		return true
	}
	return false
}

// Payment is a single billed amount against an apartment. Proof must be
// submitted before validation; VALIDATED and REJECTED are terminal for
// amount and due date changes.
type Payment struct {
	id          string
	unitCode    string
	payerPhone  Phone
	amount      float64
	dueDate     time.Time
	status      PaymentStatus
	ptype       PaymentType
	contractID  string
	proofKey    string
	paymentDate *time.Time
	validatedBy string
	validatedAt *time.Time
	meta        Meta
}

// NewPayment bills an amount. Payments start PENDING.
func NewPayment(unitCode string, payerPhone Phone, amount float64, dueDate time.Time, ptype PaymentType, contractID, createdBy string) (*Payment, error) {
	if strings.TrimSpace(unitCode) == "" {
		return nil, NewValidationError("unit_code", "unit code is required")
	}
	if payerPhone == "" {
		return nil, NewValidationError("payer_phone", "payer phone is required")
	}
	if amount <= 0 {
		return nil, NewBusinessRuleViolation(RuleAmountNotPositive, "payment amount must be positive, got %.2f", amount)
	}
	if dueDate.IsZero() {
		return nil, NewValidationError("due_date", "due date is required")
	}
	if !validPaymentType(ptype) {
		return nil, NewValidationError("type", "unknown payment type")
	}

	return &Payment{
		id:         uuid.NewString(),
		unitCode:   strings.TrimSpace(unitCode),
		payerPhone: payerPhone,
		amount:     amount,
		dueDate:    dueDate,
		status:     PaymentPending,
		ptype:      ptype,
		contractID: contractID,
		meta:       NewMeta(createdBy),
	}, nil
}

func (p *Payment) ID() string              { return p.id }
func (p *Payment) UnitCode() string        { return p.unitCode }
func (p *Payment) PayerPhone() Phone       { return p.payerPhone }
func (p *Payment) Amount() float64         { return p.amount }
func (p *Payment) DueDate() time.Time      { return p.dueDate }
func (p *Payment) Status() PaymentStatus   { return p.status }
func (p *Payment) Type() PaymentType       { return p.ptype }
func (p *Payment) ContractID() string      { return p.contractID }
func (p *Payment) ProofKey() string        { return p.proofKey }
func (p *Payment) PaymentDate() *time.Time { return p.paymentDate }
func (p *Payment) ValidatedBy() string     { return p.validatedBy }
func (p *Payment) ValidatedAt() *time.Time { return p.validatedAt }
func (p *Payment) Meta() Meta              { return p.meta }

func (p *Payment) HasProof() bool { return p.proofKey != "" }

// EffectiveDate is the payment date when set, otherwise the creation time.
// Summaries use it to answer "when did money last move".
func (p *Payment) EffectiveDate() time.Time {
	if p.paymentDate != nil {
		return *p.paymentDate
	}
	return p.meta.CreatedAt
}

func (p *Payment) terminal() bool {
	return p.status == PaymentValidated || p.status == PaymentRejected
}

// SubmitProof records the proof object key and the date the tenant paid,
// moving the payment to PAID. Only PENDING payments accept proof; an
// OVERDUE payment first needs its due date pushed into the future.
func (p *Payment) SubmitProof(proofKey string, paymentDate time.Time, by string) error {
	if p.status != PaymentPending {
		return NewBusinessRuleViolation(RuleInvalidStatusTransition,
			"payment %s cannot accept proof while %s", p.id, p.status)
	}
	proofKey = strings.TrimSpace(proofKey)
	if proofKey == "" {
		return NewBusinessRuleViolation(RuleProofRequired, "proof key is required")
	}
	if paymentDate.After(timeutil.Now()) {
		return NewBusinessRuleViolation(RulePaymentDateInFuture, "payment date cannot be in the future")
	}
	p.proofKey = proofKey
	d := paymentDate
	p.paymentDate = &d
	p.status = PaymentPaid
	p.meta.Touch(by)
	return nil
}

// MarkOverdue flips a PENDING payment whose due date has passed.
func (p *Payment) MarkOverdue(by string) error {
	if p.status != PaymentPending {
		return NewBusinessRuleViolation(RuleInvalidStatusTransition,
			"payment %s cannot be marked overdue while %s", p.id, p.status)
	}
	if !p.dueDate.Before(timeutil.Now()) {
		return NewBusinessRuleViolation(RuleDueDateNotPassed, "due date has not passed yet")
	}
	p.status = PaymentOverdue
	p.meta.Touch(by)
	return nil
}

// Validate confirms a PAID payment after inspecting its proof.
func (p *Payment) Validate(by string) error {
	if p.status != PaymentPaid {
		return NewBusinessRuleViolation(RuleInvalidStatusTransition,
			"payment %s cannot be validated while %s", p.id, p.status)
	}
	if !p.HasProof() {
		return NewBusinessRuleViolation(RuleProofRequired, "payment %s has no proof attached", p.id)
	}
	now := timeutil.Now()
	p.status = PaymentValidated
	p.validatedBy = by
	p.validatedAt = &now
	p.meta.Touch(by)
	return nil
}

// Reject sends a PAID payment back as not acceptable.
func (p *Payment) Reject(by string) error {
	if p.status != PaymentPaid {
		return NewBusinessRuleViolation(RuleInvalidStatusTransition,
			"payment %s cannot be rejected while %s", p.id, p.status)
	}
	now := timeutil.Now()
	p.status = PaymentRejected
	p.validatedBy = by
	p.validatedAt = &now
	p.meta.Touch(by)
	return nil
}

func (p *Payment) UpdateAmount(amount float64, by string) error {
	if p.terminal() {
		return NewBusinessRuleViolation(RuleTerminalPayment,
			"payment %s is %s and cannot change amount", p.id, p.status)
	}
	if amount <= 0 {
		return NewBusinessRuleViolation(RuleAmountNotPositive, "payment amount must be positive, got %.2f", amount)
	}
	p.amount = amount
	p.meta.Touch(by)
	return nil
}

// UpdateDueDate moves the due date. An OVERDUE payment whose new due date
// lies in the future goes back to PENDING.
func (p *Payment) UpdateDueDate(dueDate time.Time, by string) error {
	if p.terminal() {
		return NewBusinessRuleViolation(RuleTerminalPayment,
			"payment %s is %s and cannot change due date", p.id, p.status)
	}
	if dueDate.IsZero() {
		return NewValidationError("due_date", "due date is required")
	}
	p.dueDate = dueDate
	if p.status == PaymentOverdue && dueDate.After(timeutil.Now()) {
		p.status = PaymentPending
	}
	p.meta.Touch(by)
	return nil
}

func (p *Payment) Record() Record {
	r := Record{
		"id":           p.id,
		"unit_code":    p.unitCode,
		"payer_phone":  string(p.payerPhone),
		"amount":       p.amount,
		"due_date":     p.dueDate.Format(time.RFC3339Nano),
		"status":       string(p.status),
		"type":         string(p.ptype),
		"contract_id":  p.contractID,
		"proof_key":    p.proofKey,
		"validated_by": p.validatedBy,
	}
	putOptionalTime(r, "payment_date", p.paymentDate)
	putOptionalTime(r, "validated_at", p.validatedAt)
	p.meta.record(r)
	return r
}

func PaymentFromRecord(r Record) (*Payment, error) {
	id := r.stringValue("id")
	if id == "" {
		return nil, NewValidationError("id", "missing")
	}
	status := PaymentStatus(r.stringValue("status"))
	if !validPaymentStatus(status) {
		return nil, NewValidationError("status", "unknown payment status")
	}
	ptype := PaymentType(r.stringValue("type"))
	if !validPaymentType(ptype) {
		return nil, NewValidationError("type", "unknown payment type")
	}
	amount, err := r.floatValue("amount")
	if err != nil {
		return nil, err
	}
	dueDate, err := r.timeValue("due_date")
	if err != nil {
		return nil, err
	}
	paymentDate, err := r.optionalTime("payment_date")
	if err != nil {
		return nil, err
	}
	validatedAt, err := r.optionalTime("validated_at")
	if err != nil {
		return nil, err
	}
	meta, err := metaFromRecord(r)
	if err != nil {
		return nil, err
	}

	return &Payment{
		id:          id,
		unitCode:    r.stringValue("unit_code"),
		payerPhone:  Phone(r.stringValue("payer_phone")),
		amount:      amount,
		dueDate:     dueDate,
		status:      status,
		ptype:       ptype,
		contractID:  r.stringValue("contract_id"),
		proofKey:    r.stringValue("proof_key"),
		paymentDate: paymentDate,
		validatedBy: r.stringValue("validated_by"),
		validatedAt: validatedAt,
		meta:        meta,
	}, nil
}
