package rbac

import (
	"testing"

	"opspulse/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminImpliesRead(t *testing.T) {
	for _, d := range dashboards {
		caps := EffectiveCapabilities(string(RoleUser), []string{string(d) + "admin"})
		assert.True(t, caps.Has(DashboardAdmin(d)), "admin cap for %s", d)
		assert.True(t, caps.Has(DashboardRead(d)), "read cap for %s", d)
	}
}

func TestUserRoleGrantsNothing(t *testing.T) {
	caps := EffectiveCapabilities("user", nil)
	assert.Empty(t, caps)
}

func TestDashboardRolesAreIsolated(t *testing.T) {
	caps := EffectiveCapabilities("SDadmin", nil)
	assert.True(t, caps.Has(DashboardAdmin(DashboardService)))
	assert.False(t, caps.Has(DashboardAdmin(DashboardIncident)))
	assert.False(t, caps.Has(DashboardRead(DashboardIncident)))
	assert.False(t, caps.Has(CapGlobalAdmin))
}

func TestEffectiveCapabilitiesAreAUnion(t *testing.T) {
	caps := EffectiveCapabilities("SDuser", []string{"IRadmin"})
	assert.True(t, caps.Has(DashboardRead(DashboardService)))
	assert.True(t, caps.Has(DashboardAdmin(DashboardIncident)))
	assert.False(t, caps.Has(DashboardAdmin(DashboardService)))
}

func TestAppAdminSupersedesEveryDashboard(t *testing.T) {
	caps := EffectiveCapabilities("appadmin", nil)
	for _, d := range dashboards {
		assert.True(t, caps.Has(DashboardAdmin(d)), "admin cap for %s", d)
	}
	assert.True(t, caps.Has(CapGlobalAdmin))
	assert.False(t, caps.Has(CapSuperAdmin))
}

func TestSuperAdminSupersedesEverything(t *testing.T) {
	caps := EffectiveCapabilities("superadmin", nil)
	for _, d := range dashboards {
		assert.True(t, caps.Has(DashboardAdmin(d)))
	}
	assert.True(t, caps.Has(CapGlobalAdmin))
	assert.True(t, caps.Has(CapSuperAdmin))
}

func TestUnknownRolesContributeNothing(t *testing.T) {
	caps := EffectiveCapabilities("retired-role", []string{"also-gone", "SDuser"})
	assert.Len(t, caps, 1)
	assert.True(t, caps.Has(DashboardRead(DashboardService)))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("SDadmin")
	require.NoError(t, err)
	assert.Equal(t, RoleSDAdmin, role)

	_, err = ParseRole("wizard")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRequireCapability(t *testing.T) {
	assert.NoError(t, RequireCapability("SDadmin", nil, DashboardAdmin(DashboardService)))

	err := RequireCapability("SDuser", nil, DashboardAdmin(DashboardService))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
