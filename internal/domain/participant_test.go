package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Helpline/internal/domain"
)

func TestParseRole(t *testing.T) {
	tests := map[string]domain.Role{
		"SEEKER":    domain.RoleSeeker,
		"seeker":    domain.RoleSeeker,
		" USER ":    domain.RoleSeeker,
		"HELPER":    domain.RoleHelper,
		"Volunteer": domain.RoleHelper,
	}
	for in, want := range tests {
		got, err := domain.ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseRole("ADMIN")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
	_, err = domain.ParseRole("")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestRole_Opposite(t *testing.T) {
	assert.Equal(t, domain.RoleHelper, domain.RoleSeeker.Opposite())
	assert.Equal(t, domain.RoleSeeker, domain.RoleHelper.Opposite())
	assert.False(t, domain.Role(0).Valid())
	assert.Equal(t, "SEEKER", domain.RoleSeeker.String())
}

func TestValidateIdentity(t *testing.T) {
	assert.NoError(t, domain.ValidateIdentity("Alice", "c1"))
	assert.NoError(t, domain.ValidateIdentity(strings.Repeat("Я", 200), strings.Repeat("c", 500)))
	assert.ErrorIs(t, domain.ValidateIdentity("", "c1"), domain.ErrDisplayNameEmpty)
	assert.ErrorIs(t, domain.ValidateIdentity("Alice", " "), domain.ErrClientIDEmpty)
}

func TestOutcomeConstructors(t *testing.T) {
	w := domain.Waiting("p1")
	assert.Equal(t, domain.StatusWaiting, w.Status)
	assert.Empty(t, w.RoomID)
	assert.Nil(t, w.Partner)

	c := domain.Connected("p1", "r1", domain.Partner{DisplayName: "Bob", ClientID: "c2"})
	assert.Equal(t, domain.StatusConnected, c.Status)
	assert.Equal(t, domain.RoomID("r1"), c.RoomID)
	assert.Equal(t, "Bob", c.Partner.DisplayName)
}
