package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	u, err := NewUser(Phone("+5511987654321"), "Maria Silva", TaxID("52998224725"), ContactInfo{
		Email:    "maria@example.com",
		AltPhone: Phone("+5511912345678"),
	}, "ops")
	require.NoError(t, err)
	return u
}

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser("", "Maria", "", ContactInfo{}, "ops")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "phone", ve.Field)

	_, err = NewUser("+5511987654321", "   ", "", ContactInfo{}, "ops")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestUserTransitionsAreEdgeTriggered(t *testing.T) {
	u := newTestUser(t)
	assert.Equal(t, UserActive, u.Status())

	// activating an already active user is a violation, not a no-op
	var bre *BusinessRuleViolationError
	require.ErrorAs(t, u.Activate("ops"), &bre)
	assert.Equal(t, RuleAlreadyInState, bre.Rule)

	require.NoError(t, u.Suspend("admin"))
	assert.Equal(t, UserSuspended, u.Status())
	require.ErrorAs(t, u.Suspend("admin"), &bre)
	assert.Equal(t, RuleAlreadyInState, bre.Rule)

	require.NoError(t, u.Deactivate("admin"))
	require.ErrorAs(t, u.Deactivate("admin"), &bre)

	// any different target is always reachable
	require.NoError(t, u.Activate("admin"))
	assert.Equal(t, UserActive, u.Status())
}

func TestUserRename(t *testing.T) {
	u := newTestUser(t)
	require.NoError(t, u.Rename("Maria S. Costa", "ops"))
	assert.Equal(t, "Maria S. Costa", u.Name())

	var ve *ValidationError
	require.ErrorAs(t, u.Rename("  ", "ops"), &ve)
	assert.Equal(t, "name", ve.Field)
}

func TestUserUpdateContactBumpsVersion(t *testing.T) {
	u := newTestUser(t)
	before := u.Meta().Version
	require.NoError(t, u.UpdateContact(ContactInfo{Email: "new@example.com"}, "admin"))
	assert.Equal(t, "new@example.com", u.Contact().Email)
	assert.Equal(t, before+1, u.Meta().Version)
	assert.Equal(t, "admin", u.Meta().UpdatedBy)
}

func TestUserRecordRoundTrip(t *testing.T) {
	u := newTestUser(t)
	require.NoError(t, u.Suspend("admin"))

	restored, err := UserFromRecord(u.Record())
	require.NoError(t, err)

	assert.Equal(t, u.Phone(), restored.Phone())
	assert.Equal(t, u.Name(), restored.Name())
	assert.Equal(t, u.TaxID(), restored.TaxID())
	assert.Equal(t, u.Contact(), restored.Contact())
	assert.Equal(t, u.Status(), restored.Status())
	assert.Equal(t, u.Meta().Version, restored.Meta().Version)

	_, err = UserFromRecord(Record{"phone": "+5511987654321", "status": "BANNED"})
	require.Error(t, err)
}
