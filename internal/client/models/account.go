package models

// Role is the server-assigned authorization level of an account.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleAdminView Role = "ADMIN_VIEW"
)

// CanViewAdmin reports whether the role may open the admin dashboard
// (listing and statistics).
func (r Role) CanViewAdmin() bool {
	return r == RoleAdmin || r == RoleAdminView
}

// CanMutate reports whether the role may issue privileged write operations
// (role change, password reset, delete).
func (r Role) CanMutate() bool {
	return r == RoleAdmin
}

// Account is the response of GET /me. Role and Profile are optional; a
// freshly verified phone number has neither.
type Account struct {
	Phone   string       `json:"phone"`
	Role    Role         `json:"role,omitempty"`
	Profile *UserProfile `json:"profile,omitempty"`
}
