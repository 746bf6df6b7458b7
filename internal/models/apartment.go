package models

import (
	"strings"
	"time"
)

type ApartmentStatus string

const (
	ApartmentAvailable   ApartmentStatus = "AVAILABLE"
	ApartmentOccupied    ApartmentStatus = "OCCUPIED"
	ApartmentVacant      ApartmentStatus = "VACANT"
	ApartmentReserved    ApartmentStatus = "RESERVED"
	ApartmentMaintenance ApartmentStatus = "MAINTENANCE"
	ApartmentInactive    ApartmentStatus = "INACTIVE"
)

type RentalType string

const (
	RentalLongTerm RentalType = "LONG_TERM"
	RentalAirbnb   RentalType = "AIRBNB"
	RentalBoth     RentalType = "BOTH"
)

// Amenities are the boolean feature flags shown on listings.
type Amenities struct {
	Furnished       bool
	AirConditioning bool
	Parking         bool
	PetsAllowed     bool
	Balcony         bool
	WasherDryer     bool
	Pool            bool
	Gym             bool
}

// apartmentTransitions is the status allow-list. Any pair not listed is an
// invalid transition.
var apartmentTransitions = map[ApartmentStatus][]ApartmentStatus{
	ApartmentAvailable:   {ApartmentOccupied, ApartmentMaintenance, ApartmentInactive},
	ApartmentOccupied:    {ApartmentAvailable, ApartmentMaintenance, ApartmentInactive},
	ApartmentVacant:      {ApartmentAvailable, ApartmentOccupied, ApartmentMaintenance, ApartmentInactive},
	ApartmentReserved:    {ApartmentOccupied, ApartmentAvailable, ApartmentMaintenance, ApartmentInactive},
	ApartmentMaintenance: {ApartmentAvailable, ApartmentVacant, ApartmentInactive},
	ApartmentInactive:    {ApartmentAvailable, ApartmentVacant, ApartmentMaintenance},
}

// Apartment is a rentable unit. The unit code is its natural key.
// Apartments are never hard-deleted; retiring one means moving it to
// INACTIVE.
type Apartment struct {
	unitCode      string
	label         string
	address       string
	baseRent      float64
	cleaningFee   float64
	status        ApartmentStatus
	rentalType    RentalType
	amenities     Amenities
	images        []string
	airbnbLink    string
	available     bool
	availableFrom *time.Time
	meta          Meta
}

func validRentalType(rt RentalType) bool {
	return rt == RentalLongTerm || rt == RentalAirbnb || rt == RentalBoth
}

func validApartmentStatus(s ApartmentStatus) bool {
	_, ok := apartmentTransitions[s]
	return ok
}

// NewApartment onboards a unit. New apartments start AVAILABLE.
func NewApartment(unitCode, label, address string, baseRent, cleaningFee float64, rentalType RentalType, amenities Amenities, createdBy string) (*Apartment, error) {
	unitCode = strings.TrimSpace(unitCode)
	if unitCode == "" {
		return nil, NewValidationError("unit_code", "unit code is required")
	}
	if strings.TrimSpace(address) == "" {
		return nil, NewValidationError("address", "address is required")
	}
	if baseRent <= 0 {
		return nil, NewValidationError("base_rent", "base rent must be positive")
	}
	if cleaningFee < 0 {
		return nil, NewValidationError("cleaning_fee", "cleaning fee cannot be negative")
	}
	if !validRentalType(rentalType) {
		return nil, NewValidationError("rental_type", "unknown rental type")
	}

	return &Apartment{
		unitCode:    unitCode,
		label:       strings.TrimSpace(label),
		address:     strings.TrimSpace(address),
		baseRent:    baseRent,
		cleaningFee: cleaningFee,
		status:      ApartmentAvailable,
		rentalType:  rentalType,
		amenities:   amenities,
		available:   true,
		meta:        NewMeta(createdBy),
	}, nil
}

func (a *Apartment) UnitCode() string          { return a.unitCode }
func (a *Apartment) Label() string             { return a.label }
func (a *Apartment) Address() string           { return a.address }
func (a *Apartment) BaseRent() float64         { return a.baseRent }
func (a *Apartment) CleaningFee() float64      { return a.cleaningFee }
func (a *Apartment) Status() ApartmentStatus   { return a.status }
func (a *Apartment) RentalType() RentalType    { return a.rentalType }
func (a *Apartment) Amenities() Amenities      { return a.amenities }
func (a *Apartment) AirbnbLink() string        { return a.airbnbLink }
func (a *Apartment) Available() bool           { return a.available }
func (a *Apartment) AvailableFrom() *time.Time { return a.availableFrom }
func (a *Apartment) Meta() Meta                { return a.meta }

func (a *Apartment) Images() []string {
	out := make([]string, len(a.images))
	copy(out, a.images)
	return out
}

// ChangeStatus moves the apartment to next when the allow-list permits it.
func (a *Apartment) ChangeStatus(next ApartmentStatus, by string) error {
	if !validApartmentStatus(next) {
		return NewValidationError("status", "unknown apartment status")
	}
	for _, allowed := range apartmentTransitions[a.status] {
		if allowed == next {
			a.status = next
			a.meta.Touch(by)
			return nil
		}
	}
	return NewBusinessRuleViolation(RuleInvalidStatusTransition,
		"apartment %s cannot move from %s to %s", a.unitCode, a.status, next)
}

// Deactivate soft-deletes the unit.
func (a *Apartment) Deactivate(by string) error {
	return a.ChangeStatus(ApartmentInactive, by)
}

func (a *Apartment) UpdatePricing(baseRent, cleaningFee float64, by string) error {
	if baseRent <= 0 {
		return NewValidationError("base_rent", "base rent must be positive")
	}
	if cleaningFee < 0 {
		return NewValidationError("cleaning_fee", "cleaning fee cannot be negative")
	}
	a.baseRent = baseRent
	a.cleaningFee = cleaningFee
	a.meta.Touch(by)
	return nil
}

func (a *Apartment) ChangeRentalType(rt RentalType, by string) error {
	if !validRentalType(rt) {
		return NewValidationError("rental_type", "unknown rental type")
	}
	a.rentalType = rt
	a.meta.Touch(by)
	return nil
}

func (a *Apartment) SetAirbnbLink(link string, by string) error {
	link = strings.TrimSpace(link)
	if link != "" && !strings.HasPrefix(link, "http") {
		return NewValidationError("airbnb_link", "airbnb link must be a URL")
	}
	a.airbnbLink = link
	a.meta.Touch(by)
	return nil
}

func (a *Apartment) SetAvailability(available bool, from *time.Time, by string) error {
	a.available = available
	if from != nil {
		t := *from
		a.availableFrom = &t
	} else {
		a.availableFrom = nil
	}
	a.meta.Touch(by)
	return nil
}

func (a *Apartment) SetImages(images []string, by string) error {
	a.images = make([]string, len(images))
	copy(a.images, images)
	a.meta.Touch(by)
	return nil
}

// Record flattens the apartment for persistence.
func (a *Apartment) Record() Record {
	r := Record{
		"unit_code":    a.unitCode,
		"label":        a.label,
		"address":      a.address,
		"base_rent":    a.baseRent,
		"cleaning_fee": a.cleaningFee,
		"status":       string(a.status),
		"rental_type":  string(a.rentalType),
		"furnished":    a.amenities.Furnished,
		"air_con":      a.amenities.AirConditioning,
		"parking":      a.amenities.Parking,
		"pets_allowed": a.amenities.PetsAllowed,
		"balcony":      a.amenities.Balcony,
		"washer_dryer": a.amenities.WasherDryer,
		"pool":         a.amenities.Pool,
		"gym":          a.amenities.Gym,
		"images":       a.Images(),
		"airbnb_link":  a.airbnbLink,
		"available":    a.available,
	}
	putOptionalTime(r, "available_from", a.availableFrom)
	a.meta.record(r)
	return r
}

// ApartmentFromRecord reconstructs an apartment from its flat record form.
func ApartmentFromRecord(r Record) (*Apartment, error) {
	unitCode := r.stringValue("unit_code")
	if unitCode == "" {
		return nil, NewValidationError("unit_code", "missing")
	}
	status := ApartmentStatus(r.stringValue("status"))
	if !validApartmentStatus(status) {
		return nil, NewValidationError("status", "unknown apartment status")
	}
	rentalType := RentalType(r.stringValue("rental_type"))
	if !validRentalType(rentalType) {
		return nil, NewValidationError("rental_type", "unknown rental type")
	}
	baseRent, err := r.floatValue("base_rent")
	if err != nil {
		return nil, err
	}
	cleaningFee, err := r.floatValue("cleaning_fee")
	if err != nil {
		return nil, err
	}
	availableFrom, err := r.optionalTime("available_from")
	if err != nil {
		return nil, err
	}
	meta, err := metaFromRecord(r)
	if err != nil {
		return nil, err
	}

	return &Apartment{
		unitCode:    unitCode,
		label:       r.stringValue("label"),
		address:     r.stringValue("address"),
		baseRent:    baseRent,
		cleaningFee: cleaningFee,
		status:      status,
		rentalType:  rentalType,
		amenities: Amenities{
			Furnished:       r.boolValue("furnished"),
			AirConditioning: r.boolValue("air_con"),
			Parking:         r.boolValue("parking"),
			PetsAllowed:     r.boolValue("pets_allowed"),
			Balcony:         r.boolValue("balcony"),
			WasherDryer:     r.boolValue("washer_dryer"),
			Pool:            r.boolValue("pool"),
			Gym:             r.boolValue("gym"),
		},
		images:        r.stringSlice("images"),
		airbnbLink:    r.stringValue("airbnb_link"),
		available:     r.boolValue("available"),
		availableFrom: availableFrom,
		meta:          meta,
	}, nil
}
