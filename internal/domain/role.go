package domain

// Role is an ordered permission level. Higher values include the
// permissions of every lower value.
type Role int

// Roles, lowest first.
const (
	RoleGuest Role = iota
	RoleUser
	RoleAdmin
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// HasPermission reports whether a caller holding r may perform an action
// that requires the given role.
func (r Role) HasPermission(required Role) bool {
	return r >= required
}
