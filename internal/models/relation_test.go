package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRelationValidation(t *testing.T) {
	_, err := NewUserApartmentRelation("", "+5511987654321", RolePrimaryTenant, "", "ops")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "unit_code", ve.Field)

	_, err = NewUserApartmentRelation("APT-101", "", RolePrimaryTenant, "", "ops")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "phone", ve.Field)

	_, err = NewUserApartmentRelation("APT-101", "+5511987654321", RelationRole("LANDLORD"), "", "ops")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "role", ve.Field)
}

func TestSecondaryTenantRequiresRelationshipType(t *testing.T) {
	_, err := NewUserApartmentRelation("APT-101", "+5511987654321", RoleSecondaryTenant, "  ", "ops")
	var bre *BusinessRuleViolationError
	require.ErrorAs(t, err, &bre)
	assert.Equal(t, RuleRelationshipTypeMissing, bre.Rule)

	rel, err := NewUserApartmentRelation("APT-101", "+5511987654321", RoleSecondaryTenant, "spouse", "ops")
	require.NoError(t, err)
	assert.Equal(t, "spouse", rel.RelationshipType())

	// other roles do not need one
	_, err = NewUserApartmentRelation("APT-101", "+5511987654321", RoleEmergencyContact, "", "ops")
	require.NoError(t, err)
}

func TestRelationActiveToggleIsEdgeTriggered(t *testing.T) {
	rel, err := NewUserApartmentRelation("APT-101", "+5511987654321", RolePrimaryTenant, "", "ops")
	require.NoError(t, err)
	require.True(t, rel.IsActive())

	var bre *BusinessRuleViolationError
	require.ErrorAs(t, rel.Activate("ops"), &bre)
	assert.Equal(t, RuleAlreadyInState, bre.Rule)

	require.NoError(t, rel.Deactivate("ops"))
	assert.False(t, rel.IsActive())
	require.ErrorAs(t, rel.Deactivate("ops"), &bre)
	assert.Equal(t, RuleAlreadyInState, bre.Rule)

	require.NoError(t, rel.Activate("ops"))
	assert.True(t, rel.IsActive())
}

func TestRelationRecordRoundTrip(t *testing.T) {
	rel, err := NewUserApartmentRelation("APT-101", "+5511987654321", RoleSecondaryTenant, "roommate", "ops")
	require.NoError(t, err)
	require.NoError(t, rel.Deactivate("admin"))

	restored, err := RelationFromRecord(rel.Record())
	require.NoError(t, err)

	assert.Equal(t, rel.UnitCode(), restored.UnitCode())
	assert.Equal(t, rel.Phone(), restored.Phone())
	assert.Equal(t, rel.Role(), restored.Role())
	assert.Equal(t, rel.RelationshipType(), restored.RelationshipType())
	assert.False(t, restored.IsActive())
	assert.Equal(t, rel.Meta().Version, restored.Meta().Version)
}
