// Package views holds the composite read models produced by the mapper and
// the aggregation service. They are plain data meant for direct
// serialization; no behavior lives here.
package views

import "time"

// UserWithRelation flattens a (user, relation) pair for apartment pages.
type UserWithRelation struct {
	Phone            string    `json:"phone"`
	Name             string    `json:"name"`
	TaxID            string    `json:"tax_id,omitempty"`
	Email            string    `json:"email,omitempty"`
	Status           string    `json:"status"`
	Role             string    `json:"role"`
	RelationshipType string    `json:"relationship_type,omitempty"`
	RelationActive   bool      `json:"relation_active"`
	RelatedSince     time.Time `json:"related_since"`
	RelationUpdated  time.Time `json:"relation_updated"`
}

// ApartmentWithRelation flattens a (apartment, relation) pair for per-user
// pages.
type ApartmentWithRelation struct {
	UnitCode         string    `json:"unit_code"`
	Label            string    `json:"label,omitempty"`
	Address          string    `json:"address"`
	Status           string    `json:"status"`
	RentalType       string    `json:"rental_type"`
	Role             string    `json:"role"`
	RelationshipType string    `json:"relationship_type,omitempty"`
	RelationActive   bool      `json:"relation_active"`
	RelatedSince     time.Time `json:"related_since"`
	RelationUpdated  time.Time `json:"relation_updated"`
}

// ApartmentListing is the public-facing projection of a unit.
type ApartmentListing struct {
	UnitCode     string     `json:"unit_code"`
	Label        string     `json:"label,omitempty"`
	Address      string     `json:"address"`
	Neighborhood string     `json:"neighborhood,omitempty"`
	City         string     `json:"city,omitempty"`
	RentalType   string     `json:"rental_type"`
	Status       string     `json:"status"`
	Features     []string   `json:"features"`
	PriceRange   [2]float64 `json:"price_range"`
	Images       []string   `json:"images,omitempty"`
	AirbnbLink   string     `json:"airbnb_link,omitempty"`
	Available    bool       `json:"available"`
}

// Payment status summary values.
const (
	PaymentStatusNoPayments = "no_payments"
	PaymentStatusOverdue    = "overdue"
	PaymentStatusCurrent    = "current"
)

// PaymentStatusSummary condenses a payment collection into a traffic-light
// view. The optional fields are present only when non-zero.
type PaymentStatusSummary struct {
	Status               string  `json:"status"`
	DaysSinceLastPayment *int    `json:"days_since_last_payment,omitempty"`
	TotalPendingAmount   float64 `json:"total_pending_amount,omitempty"`
	OverdueCount         int     `json:"overdue_count,omitempty"`
}

// Timeline event types.
const (
	EventContract    = "contract"
	EventPayment     = "payment"
	EventUserAdded   = "user_added"
	EventUserRemoved = "user_removed"
)

// TimelineEvent is a dated, typed entry in an apartment history view.
type TimelineEvent struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Ref         string    `json:"ref,omitempty"` // contract id, payment id or phone
}

// ApartmentStatistics summarizes occupancy over a unit's contracts.
type ApartmentStatistics struct {
	TotalContracts           int  `json:"total_contracts"`
	AverageOccupancyDuration int  `json:"average_occupancy_duration"` // whole days over completed contracts
	CurrentOccupancyDuration *int `json:"current_occupancy_duration,omitempty"`
}

// UserPaymentSummary totals a user's payment history.
type UserPaymentSummary struct {
	TotalPaidAmount     float64    `json:"total_paid_amount"`
	TotalPendingAmount  float64    `json:"total_pending_amount"`
	LastPaymentDate     *time.Time `json:"last_payment_date,omitempty"`
	AveragePaymentDelay int        `json:"average_payment_delay"` // whole days, late payments only
}

// PaymentView is the serializable shape of a payment inside composites.
type PaymentView struct {
	ID          string     `json:"id"`
	UnitCode    string     `json:"unit_code"`
	PayerPhone  string     `json:"payer_phone"`
	Amount      float64    `json:"amount"`
	DueDate     time.Time  `json:"due_date"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
	ContractID  string     `json:"contract_id,omitempty"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	HasProof    bool       `json:"has_proof"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ContractView is the serializable shape of a contract inside composites.
type ContractView struct {
	ID          string    `json:"id"`
	UnitCode    string    `json:"unit_code"`
	TenantPhone string    `json:"tenant_phone"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	MonthlyRent float64   `json:"monthly_rent"`
	DueDay      int       `json:"due_day"`
	Deposit     float64   `json:"deposit"`
	Status      string    `json:"status"`
}

// ApartmentWithPaymentInfo pairs a unit with its latest payment picture.
type ApartmentWithPaymentInfo struct {
	UnitCode       string               `json:"unit_code"`
	Label          string               `json:"label,omitempty"`
	Address        string               `json:"address"`
	Status         string               `json:"status"`
	LastPayment    *PaymentView         `json:"last_payment,omitempty"`
	PaymentSummary PaymentStatusSummary `json:"payment_summary"`
	TotalPaid      float64              `json:"total_paid"`
	TotalPending   float64              `json:"total_pending"`
}

// ApartmentDetails is the consolidated apartment page.
type ApartmentDetails struct {
	UnitCode        string               `json:"unit_code"`
	Label           string               `json:"label,omitempty"`
	Address         string               `json:"address"`
	Status          string               `json:"status"`
	RentalType      string               `json:"rental_type"`
	BaseRent        float64              `json:"base_rent"`
	CleaningFee     float64              `json:"cleaning_fee"`
	Users           []UserWithRelation   `json:"users"`
	ActiveContract  *ContractView        `json:"active_contract,omitempty"`
	ContractHistory []ContractView       `json:"contract_history"`
	RecentPayments  []PaymentView        `json:"recent_payments"`
	PaymentSummary  PaymentStatusSummary `json:"payment_summary"`
}

// ApartmentLogStatistics extends occupancy statistics with payment totals.
type ApartmentLogStatistics struct {
	ApartmentStatistics
	TotalPayments int     `json:"total_payments"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// ApartmentLog is the history timeline for a unit.
type ApartmentLog struct {
	UnitCode   string                 `json:"unit_code"`
	Timeline   []TimelineEvent        `json:"timeline"`
	Statistics ApartmentLogStatistics `json:"statistics"`
}
