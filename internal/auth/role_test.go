package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, val := range []string{"empresario", "emprendedor", "inversionista", "institucion", "admin"} {
		role, err := ParseRole(val)
		require.NoError(t, err, val)
		assert.Equal(t, val, role.String())
		assert.True(t, role.Valid())
	}

	_, err := ParseRole("banquero")
	assert.Error(t, err)
	assert.False(t, Role("banquero").Valid())
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestProfileDetail_RolesAndNames(t *testing.T) {
	t.Parallel()

	cases := []struct {
		profile ProfileDetail
		role    Role
		name    string
	}{
		{&EntrepreneurProfile{FullName: "Ana"}, RoleEntrepreneur, "Ana"},
		{&BusinessOwnerProfile{FullName: "Luis"}, RoleBusinessOwner, "Luis"},
		{&InvestorProfile{FullName: "Marta"}, RoleInvestor, "Marta"},
		{&InstitutionProfile{FullName: "SENA Regional"}, RoleInstitution, "SENA Regional"},
		{AdminProfile{}, RoleAdmin, "Administrador"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.role, tc.profile.ProfileRole())
		assert.Equal(t, tc.name, tc.profile.DisplayName())
	}
}
