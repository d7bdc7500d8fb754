package constants

import "fmt"

// Role values carried in the JWT "role" claim.
const (
	RoleMember     = "MEMBER"
	RoleOrg        = "ORG"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// Role error message templates
const (
	ErrOnlyVolunteersCanAccess = "❌ Only volunteers may access the %s feature."
	ErrOnlyOrgsCanAccess       = "❌ Only organization accounts may access the %s feature."
	ErrOnlyAdminsCanAccess     = "❌ Only admins may access the %s feature."
)

func RoleErrorVolunteer(feature string) string {
	return fmt.Sprintf(ErrOnlyVolunteersCanAccess, feature)
}

func RoleErrorOrg(feature string) string {
	return fmt.Sprintf(ErrOnlyOrgsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleMember,
		RoleOrg,
		RoleAdmin,
		RoleSuperAdmin,
	}

	VolunteerOnly = []string{
		RoleMember,
	}

	OrgAndAbove = []string{
		RoleOrg,
		RoleAdmin,
		RoleSuperAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
		RoleSuperAdmin,
	}
)
