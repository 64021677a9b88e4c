// Package auth defines the closed set of account roles and the policy
// table that decides which role may perform which operation. Every
// authorization decision in the service flows through Decide; handlers
// never compare role strings themselves.
package auth

import "fmt"

// Role enumerates the three account roles. Using a dedicated type
// instead of raw strings means a typo in a role check fails to compile
// rather than silently denying (or worse, allowing) requests.
type Role uint8

const (
	// RoleUnknown is the zero value and never authorizes anything.
	RoleUnknown Role = iota
	// RoleAdmin manages accounts and has unrestricted visitor access.
	RoleAdmin
	// RoleSecurity reviews registrations and operates the gate.
	RoleSecurity
	// RoleResident registers visitors for their own unit only.
	RoleResident
)

// roleNames maps each role to the string stored in the database and in
// token claims.
var roleNames = map[Role]string{
	RoleAdmin:    "admin",
	RoleSecurity: "security",
	RoleResident: "resident",
}

// String returns the wire/database representation of the role.
func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "unknown"
}

// ParseRole converts a stored role string into a Role. Unrecognized or
// empty strings return RoleUnknown and an error; callers must treat
// that as a forbidden request, never as a default role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "security":
		return RoleSecurity, nil
	case "resident":
		return RoleResident, nil
	}
	return RoleUnknown, fmt.Errorf("unrecognized role %q", s)
}
