package enums

import "fmt"

// AdminRole is the authorization role of a back-office user.
type AdminRole string

const (
	AdminRoleOwner   AdminRole = "OWNER"
	AdminRoleManager AdminRole = "MANAGER"
	AdminRoleViewer  AdminRole = "VIEWER"
)

var validAdminRoles = map[AdminRole]struct{}{
	AdminRoleOwner:   {},
	AdminRoleManager: {},
	AdminRoleViewer:  {},
}

func (r AdminRole) String() string {
	return string(r)
}

func (r AdminRole) IsValid() bool {
	_, ok := validAdminRoles[r]
	return ok
}

func ParseAdminRole(value string) (AdminRole, error) {
	role := AdminRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid admin role: %q", value)
	}
	return role, nil
}
