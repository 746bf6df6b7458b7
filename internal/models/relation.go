package models

import "strings"

// RelationRole names what a user is to an apartment.
type RelationRole string

const (
	RolePrimaryTenant    RelationRole = "PRIMARY_TENANT"
	RoleSecondaryTenant  RelationRole = "SECONDARY_TENANT"
	RoleEmergencyContact RelationRole = "EMERGENCY_CONTACT"
	RoleAdmin            RelationRole = "ADMIN"
	RoleOps              RelationRole = "OPS"
)

func validRelationRole(r RelationRole) bool {
	switch r {
	case RolePrimaryTenant, RoleSecondaryTenant, RoleEmergencyContact, RoleAdmin, RoleOps:
		return true
	}
	return false
}

// UserApartmentRelation is the many-to-many edge between a user and an
// apartment. The composite key is (unit code, phone, role). It references
// both endpoints by key, never by object, and its lifecycle is its own:
// deactivating a relation says nothing about the user or the apartment.
type UserApartmentRelation struct {
	unitCode         string
	phone            Phone
	role             RelationRole
	relationshipType string
	active           bool
	meta             Meta
}

// NewUserApartmentRelation links a user to an apartment. SECONDARY_TENANT
// relations must say what the relationship is (spouse, child, roommate...).
func NewUserApartmentRelation(unitCode string, phone Phone, role RelationRole, relationshipType, createdBy string) (*UserApartmentRelation, error) {
	unitCode = strings.TrimSpace(unitCode)
	if unitCode == "" {
		return nil, NewValidationError("unit_code", "unit code is required")
	}
	if phone == "" {
		return nil, NewValidationError("phone", "phone is required")
	}
	if !validRelationRole(role) {
		return nil, NewValidationError("role", "unknown relation role")
	}
	relationshipType = strings.TrimSpace(relationshipType)
	if role == RoleSecondaryTenant && relationshipType == "" {
		return nil, NewBusinessRuleViolation(RuleRelationshipTypeMissing,
			"secondary tenant relations require a relationship type")
	}

	return &UserApartmentRelation{
		unitCode:         unitCode,
		phone:            phone,
		role:             role,
		relationshipType: relationshipType,
		active:           true,
		meta:             NewMeta(createdBy),
	}, nil
}

func (rel *UserApartmentRelation) UnitCode() string         { return rel.unitCode }
func (rel *UserApartmentRelation) Phone() Phone             { return rel.phone }
func (rel *UserApartmentRelation) Role() RelationRole       { return rel.role }
func (rel *UserApartmentRelation) RelationshipType() string { return rel.relationshipType }
func (rel *UserApartmentRelation) IsActive() bool           { return rel.active }
func (rel *UserApartmentRelation) Meta() Meta               { return rel.meta }

// Activate and Deactivate are edge-triggered like user transitions.

func (rel *UserApartmentRelation) Activate(by string) error {
	if rel.active {
		return NewBusinessRuleViolation(RuleAlreadyInState,
			"relation %s/%s/%s is already active", rel.unitCode, rel.phone, rel.role)
	}
	rel.active = true
	rel.meta.Touch(by)
	return nil
}

func (rel *UserApartmentRelation) Deactivate(by string) error {
	if !rel.active {
		return NewBusinessRuleViolation(RuleAlreadyInState,
			"relation %s/%s/%s is already inactive", rel.unitCode, rel.phone, rel.role)
	}
	rel.active = false
	rel.meta.Touch(by)
	return nil
}

func (rel *UserApartmentRelation) Record() Record {
	r := Record{
		"unit_code":         rel.unitCode,
		"phone":             string(rel.phone),
		"role":              string(rel.role),
		"relationship_type": rel.relationshipType,
		"active":            rel.active,
	}
	rel.meta.record(r)
	return r
}

func RelationFromRecord(r Record) (*UserApartmentRelation, error) {
	unitCode := r.stringValue("unit_code")
	if unitCode == "" {
		return nil, NewValidationError("unit_code", "missing")
	}
	phone := r.stringValue("phone")
	if phone == "" {
		return nil, NewValidationError("phone", "missing")
	}
	role := RelationRole(r.stringValue("role"))
	if !validRelationRole(role) {
		return nil, NewValidationError("role", "unknown relation role")
	}
	meta, err := metaFromRecord(r)
	if err != nil {
		return nil, err
	}
	return &UserApartmentRelation{
		unitCode:         unitCode,
		phone:            Phone(phone),
		role:             role,
		relationshipType: r.stringValue("relationship_type"),
		active:           r.boolValue("active"),
		meta:             meta,
	}, nil
}
