package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable discriminator carried by every domain
// failure so handlers can map errors to responses without string matching.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation_error"
	KindBusinessRule ErrorKind = "business_rule_violation"
	KindNotFound     ErrorKind = "entity_not_found"
	KindAggregation  ErrorKind = "aggregation_error"
)

// Business rule identifiers reported by entity state machines.
const (
	RuleInvalidStatusTransition = "invalid_status_transition"
	RuleProofRequired           = "proof_required"
	RuleAmountNotPositive       = "amount_not_positive"
	RuleDueDateNotPassed        = "due_date_not_passed"
	RulePaymentDateInFuture     = "payment_date_in_future"
	RuleTerminalPayment         = "terminal_payment_immutable"
	RuleContractNotActive       = "contract_not_active"
	RuleEndDateNotLater         = "end_date_not_later"
	RuleAlreadyInState          = "already_in_state"
	RuleRelationshipTypeMissing = "relationship_type_required"
	RuleActiveContractExists    = "active_contract_exists"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type BusinessRuleViolationError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleViolationError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Rule)
}

func NewBusinessRuleViolation(rule, format string, args ...any) error {
	return &BusinessRuleViolationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

type EntityNotFoundError struct {
	Entity string
	Key    string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

func NewEntityNotFound(entity, key string) error {
	return &EntityNotFoundError{Entity: entity, Key: key}
}

// AggregationError wraps an unexpected failure inside an aggregation method.
// Callers see the context string; the cause stays available via Unwrap.
type AggregationError struct {
	Context string
	Cause   error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed for %s", e.Context)
}

func (e *AggregationError) Unwrap() error { return e.Cause }

func NewAggregationError(context string, cause error) error {
	return &AggregationError{Context: context, Cause: cause}
}

// KindOf classifies err into the domain error taxonomy. Unknown errors
// return an empty kind.
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	var bre *BusinessRuleViolationError
	var nfe *EntityNotFoundError
	var age *AggregationError
	switch {
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &bre):
		return KindBusinessRule
	case errors.As(err, &nfe):
		return KindNotFound
	case errors.As(err, &age):
		return KindAggregation
	default:
		return ""
	}
}
