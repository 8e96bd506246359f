package rbac

import (
	"fmt"

	"opspulse/internal/core/domain"
)

// Role is a closed enumeration of the role catalogue.
// Unknown role names are rejected at the boundary by ParseRole.
type Role string

const (
	RoleUser       Role = "user"
	RoleSDUser     Role = "SDuser"
	RoleSDAdmin    Role = "SDadmin"
	RoleIDUser     Role = "IDuser"
	RoleIDAdmin    Role = "IDadmin"
	RoleSCUser     Role = "SCuser"
	RoleSCAdmin    Role = "SCadmin"
	RoleIRUser     Role = "IRuser"
	RoleIRAdmin    Role = "IRadmin"
	RolePRUser     Role = "PRuser"
	RolePRAdmin    Role = "PRadmin"
	RoleAppAdmin   Role = "appadmin"
	RoleSuperAdmin Role = "superadmin"
)

// Dashboard identifies one dashboard with its own user/admin capability pair.
type Dashboard string

const (
	DashboardService  Dashboard = "SD" // Service Metrics dashboard
	DashboardIndusIT  Dashboard = "ID"
	DashboardSecurity Dashboard = "SC"
	DashboardIncident Dashboard = "IR"
	DashboardProblem  Dashboard = "PR"
)

// Capability is a named permission granted transitively through roles.
type Capability string

const (
	CapGlobalAdmin Capability = "global-admin" // user and role-request management
	CapSuperAdmin  Capability = "super-admin"  // role catalogue and cross-dashboard override
)

// DashboardRead returns the read capability for a dashboard.
func DashboardRead(d Dashboard) Capability {
	return Capability(string(d) + ":read")
}

// DashboardAdmin returns the admin capability for a dashboard.
// Admin always implies read; the grant table below encodes that.
func DashboardAdmin(d Dashboard) Capability {
	return Capability(string(d) + ":admin")
}

var dashboards = []Dashboard{
	DashboardService,
	DashboardIndusIT,
	DashboardSecurity,
	DashboardIncident,
	DashboardProblem,
}

// grants holds the per-role capability sets, computed once.
// Admission is per-capability, not per-level, so adding a dashboard
// never perturbs existing authorization decisions.
var grants = buildGrants()

func buildGrants() map[Role][]Capability {
	g := map[Role][]Capability{
		RoleUser:    {},
		RoleSDUser:  {DashboardRead(DashboardService)},
		RoleSDAdmin: {DashboardRead(DashboardService), DashboardAdmin(DashboardService)},
		RoleIDUser:  {DashboardRead(DashboardIndusIT)},
		RoleIDAdmin: {DashboardRead(DashboardIndusIT), DashboardAdmin(DashboardIndusIT)},
		RoleSCUser:  {DashboardRead(DashboardSecurity)},
		RoleSCAdmin: {DashboardRead(DashboardSecurity), DashboardAdmin(DashboardSecurity)},
		RoleIRUser:  {DashboardRead(DashboardIncident)},
		RoleIRAdmin: {DashboardRead(DashboardIncident), DashboardAdmin(DashboardIncident)},
		RolePRUser:  {DashboardRead(DashboardProblem)},
		RolePRAdmin: {DashboardRead(DashboardProblem), DashboardAdmin(DashboardProblem)},
	}

	// appadmin supersedes every dashboard admin pair and manages users.
	appAdmin := []Capability{CapGlobalAdmin}
	for _, d := range dashboards {
		appAdmin = append(appAdmin, DashboardRead(d), DashboardAdmin(d))
	}
	g[RoleAppAdmin] = appAdmin

	// superadmin supersedes everything.
	g[RoleSuperAdmin] = append(append([]Capability{}, appAdmin...), CapSuperAdmin)

	return g
}

// ParseRole validates a role name against the catalogue.
func ParseRole(name string) (Role, error) {
	r := Role(name)
	if _, ok := grants[r]; !ok {
		return "", fmt.Errorf("unknown role %q: %w", name, domain.ErrInvalidInput)
	}
	return r, nil
}

// CapabilitySet is an effective set of capabilities for one principal.
type CapabilitySet map[Capability]struct{}

// Has reports whether the set contains the capability.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// EffectiveCapabilities computes the union of capabilities granted by the
// primary role and every role in the additional-roles set. Unknown role
// names contribute nothing rather than failing: a principal stored before
// a role was retired must still resolve.
func EffectiveCapabilities(primary string, additional []string) CapabilitySet {
	set := make(CapabilitySet)
	add := func(name string) {
		for _, c := range grants[Role(name)] {
			set[c] = struct{}{}
		}
	}
	add(primary)
	for _, name := range additional {
		add(name)
	}
	return set
}

// RequireCapability checks membership in the effective capability set.
// The caller is already identified, so absence is Forbidden, never
// Unauthenticated.
func RequireCapability(primary string, additional []string, c Capability) error {
	if !EffectiveCapabilities(primary, additional).Has(c) {
		return domain.ErrForbidden
	}
	return nil
}
