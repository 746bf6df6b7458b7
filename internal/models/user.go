package models

import "strings"

type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserInactive  UserStatus = "INACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

func validUserStatus(s UserStatus) bool {
	switch s {
	case UserActive, UserInactive, UserSuspended:
		return true
	}
	return false
}

// User is anyone the system tracks against apartments: tenants, emergency
// contacts and staff. The phone number is the natural key.
type User struct {
	phone   Phone
	name    string
	taxID   TaxID
	contact ContactInfo
	status  UserStatus
	meta    Meta
}

func NewUser(phone Phone, name string, taxID TaxID, contact ContactInfo, createdBy string) (*User, error) {
	if phone == "" {
		return nil, NewValidationError("phone", "phone is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	return &User{
		phone:   phone,
		name:    name,
		taxID:   taxID,
		contact: contact,
		status:  UserActive,
		meta:    NewMeta(createdBy),
	}, nil
}

func (u *User) Phone() Phone         { return u.phone }
func (u *User) Name() string         { return u.name }
func (u *User) TaxID() TaxID         { return u.taxID }
func (u *User) Contact() ContactInfo { return u.contact }
func (u *User) Status() UserStatus   { return u.status }
func (u *User) Meta() Meta           { return u.meta }

// The three transitions are edge-triggered: moving to the status the user
// is already in is a guard violation, not a no-op.

func (u *User) Activate(by string) error {
	if u.status == UserActive {
		return NewBusinessRuleViolation(RuleAlreadyInState, "user %s is already active", u.phone)
	}
	u.status = UserActive
	u.meta.Touch(by)
	return nil
}

func (u *User) Deactivate(by string) error {
	if u.status == UserInactive {
		return NewBusinessRuleViolation(RuleAlreadyInState, "user %s is already inactive", u.phone)
	}
	u.status = UserInactive
	u.meta.Touch(by)
	return nil
}

func (u *User) Suspend(by string) error {
	if u.status == UserSuspended {
		return NewBusinessRuleViolation(RuleAlreadyInState, "user %s is already suspended", u.phone)
	}
	u.status = UserSuspended
	u.meta.Touch(by)
	return nil
}

func (u *User) UpdateContact(contact ContactInfo, by string) error {
	u.contact = contact
	u.meta.Touch(by)
	return nil
}

func (u *User) Rename(name string, by string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError("name", "name is required")
	}
	u.name = name
	u.meta.Touch(by)
	return nil
}

func (u *User) Record() Record {
	r := Record{
		"phone":     string(u.phone),
		"name":      u.name,
		"tax_id":    string(u.taxID),
		"email":     u.contact.Email,
		"alt_phone": string(u.contact.AltPhone),
		"status":    string(u.status),
	}
	u.meta.record(r)
	return r
}

func UserFromRecord(r Record) (*User, error) {
	phone := r.stringValue("phone")
	if phone == "" {
		return nil, NewValidationError("phone", "missing")
	}
	status := UserStatus(r.stringValue("status"))
	if !validUserStatus(status) {
		return nil, NewValidationError("status", "unknown user status")
	}
	meta, err := metaFromRecord(r)
	if err != nil {
		return nil, err
	}
	return &User{
		phone: Phone(phone),
		name:  r.stringValue("name"),
		taxID: TaxID(r.stringValue("tax_id")),
		contact: ContactInfo{
			Email:    r.stringValue("email"),
			AltPhone: Phone(r.stringValue("alt_phone")),
		},
		status: status,
		meta:   meta,
	}, nil
}
