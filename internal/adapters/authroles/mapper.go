package authroles

import (
	"strings"

	domainauth "github.com/solenne/boutique/internal/domain/auth"
)

// ProfileRoleMapper maps the raw role attribute stored on a profile row to
// an application role. Unknown or empty values default to member so a badly
// seeded row can never grant admin implicitly.
type ProfileRoleMapper struct{}

func (ProfileRoleMapper) Map(raw string) domainauth.Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return domainauth.RoleAdmin
	case "":
		return domainauth.RoleNone
	default:
		return domainauth.RoleMember
	}
}
