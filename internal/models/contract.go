package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractPending    ContractStatus = "PENDING"
	ContractActive     ContractStatus = "ACTIVE"
	ContractExpired    ContractStatus = "EXPIRED"
	ContractTerminated ContractStatus = "TERMINATED"
)

func validContractStatus(s ContractStatus) bool {
	switch s {
	case ContractPending, ContractActive, ContractExpired, ContractTerminated:
		return true
	}
	return false
}

// ContractTerms are the agreed billing conditions.
type ContractTerms struct {
	MonthlyRent float64
	DueDay      int // day of month rent falls due, 1-31
	Deposit     float64
	Inclusions  []string
}

// Contract is a lease between an apartment and a tenant. Contracts start
// PENDING and are activated, extended, terminated or expired by explicit
// calls.
type Contract struct {
	id          string
	unitCode    string
	tenantPhone Phone
	startDate   time.Time
	endDate     time.Time
	terms       ContractTerms
	status      ContractStatus
	meta        Meta
}

func NewContract(unitCode string, tenantPhone Phone, startDate, endDate time.Time, terms ContractTerms, createdBy string) (*Contract, error) {
	if strings.TrimSpace(unitCode) == "" {
		return nil, NewValidationError("unit_code", "unit code is required")
	}
	if tenantPhone == "" {
		return nil, NewValidationError("tenant_phone", "tenant phone is required")
	}
	if startDate.IsZero() || endDate.IsZero() {
		return nil, NewValidationError("dates", "start and end dates are required")
	}
	if !endDate.After(startDate) {
		return nil, NewValidationError("end_date", "end date must be after start date")
	}
	if terms.MonthlyRent <= 0 {
		return nil, NewValidationError("monthly_rent", "monthly rent must be positive")
	}
	if terms.DueDay < 1 || terms.DueDay > 31 {
		return nil, NewValidationError("due_day", "due day must be between 1 and 31")
	}
	if terms.Deposit < 0 {
		return nil, NewValidationError("deposit", "deposit cannot be negative")
	}

	return &Contract{
		id:          uuid.NewString(),
		unitCode:    strings.TrimSpace(unitCode),
		tenantPhone: tenantPhone,
		startDate:   startDate,
		endDate:     endDate,
		terms:       terms,
		status:      ContractPending,
		meta:        NewMeta(createdBy),
	}, nil
}

func (c *Contract) ID() string             { return c.id }
func (c *Contract) UnitCode() string       { return c.unitCode }
func (c *Contract) TenantPhone() Phone     { return c.tenantPhone }
func (c *Contract) StartDate() time.Time   { return c.startDate }
func (c *Contract) EndDate() time.Time     { return c.endDate }
func (c *Contract) Status() ContractStatus { return c.status }
func (c *Contract) Meta() Meta             { return c.meta }

func (c *Contract) Terms() ContractTerms {
	t := c.terms
	t.Inclusions = make([]string, len(c.terms.Inclusions))
	copy(t.Inclusions, c.terms.Inclusions)
	return t
}

func (c *Contract) Activate(by string) error {
	if c.status != ContractPending {
		return NewBusinessRuleViolation(RuleInvalidStatusTransition,
			"contract %s cannot be activated while %s", c.id, c.status)
	}
	c.status = ContractActive
	c.meta.Touch(by)
	return nil
}

func (c *Contract) Terminate(by string) error {
	if c.status != ContractActive {
		return NewBusinessRuleViolation(RuleContractNotActive,
			"contract %s cannot be terminated while %s", c.id, c.status)
	}
	c.status = ContractTerminated
	c.meta.Touch(by)
	return nil
}

func (c *Contract) Expire(by string) error {
	if c.status != ContractActive {
		return NewBusinessRuleViolation(RuleContractNotActive,
			"contract %s cannot expire while %s", c.id, c.status)
	}
	c.status = ContractExpired
	c.meta.Touch(by)
	return nil
}

// Extend pushes the end date of an ACTIVE contract to a later date.
func (c *Contract) Extend(newEndDate time.Time, by string) error {
	if c.status != ContractActive {
		return NewBusinessRuleViolation(RuleContractNotActive,
			"contract %s cannot be extended while %s", c.id, c.status)
	}
	if !newEndDate.After(c.endDate) {
		return NewBusinessRuleViolation(RuleEndDateNotLater,
			"new end date must be later than the current end date")
	}
	c.endDate = newEndDate
	c.meta.Touch(by)
	return nil
}

func (c *Contract) Record() Record {
	r := Record{
		"id":           c.id,
		"unit_code":    c.unitCode,
		"tenant_phone": string(c.tenantPhone),
		"start_date":   c.startDate.Format(time.RFC3339Nano),
		"end_date":     c.endDate.Format(time.RFC3339Nano),
		"monthly_rent": c.terms.MonthlyRent,
		"due_day":      c.terms.DueDay,
		"deposit":      c.terms.Deposit,
		"inclusions":   append([]string(nil), c.terms.Inclusions...),
		"status":       string(c.status),
	}
	c.meta.record(r)
	return r
}

func ContractFromRecord(r Record) (*Contract, error) {
	id := r.stringValue("id")
	if id == "" {
		return nil, NewValidationError("id", "missing")
	}
	status := ContractStatus(r.stringValue("status"))
	if !validContractStatus(status) {
		return nil, NewValidationError("status", "unknown contract status")
	}
	startDate, err := r.timeValue("start_date")
	if err != nil {
		return nil, err
	}
	endDate, err := r.timeValue("end_date")
	if err != nil {
		return nil, err
	}
	monthlyRent, err := r.floatValue("monthly_rent")
	if err != nil {
		return nil, err
	}
	dueDay, err := r.intValue("due_day")
	if err != nil {
		return nil, err
	}
	deposit, err := r.floatValue("deposit")
	if err != nil {
		return nil, err
	}
	meta, err := metaFromRecord(r)
	if err != nil {
		return nil, err
	}

	return &Contract{
		id:          id,
		unitCode:    r.stringValue("unit_code"),
		tenantPhone: Phone(r.stringValue("tenant_phone")),
		startDate:   startDate,
		endDate:     endDate,
		terms: ContractTerms{
			MonthlyRent: monthlyRent,
			DueDay:      dueDay,
			Deposit:     deposit,
			Inclusions:  r.stringSlice("inclusions"),
		},
		status: status,
		meta:   meta,
	}, nil
}
