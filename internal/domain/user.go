package domain

import "time"

// Role is the access level assigned to a user account.
type Role string

// User roles, from least to most privileged.
const (
	RoleCustomer Role = "CUSTOMER"
	RoleOperator Role = "OPERATOR"
	RoleAdmin    Role = "ADMIN"
)

// IsValid checks if the role is one of the three known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleOperator, RoleAdmin:
		return true
	}
	return false
}

// rank orders roles for permission checks. Unknown roles rank below customer.
func (r Role) rank() int {
	switch r {
	case RoleCustomer:
		return 1
	case RoleOperator:
		return 2
	case RoleAdmin:
		return 3
	}
	return 0
}

// HasPermission reports whether the role is at least minRole.
func (r Role) HasPermission(minRole Role) bool {
	return r.rank() >= minRole.rank()
}

// User represents a store account. The password field holds a bcrypt hash,
// never the plain text, and is excluded from JSON.
type User struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"userName"`
	Name      string    `json:"name,omitempty"`
	FullName  string    `json:"fullName"`
	Password  string    `json:"-"`
	BirthDate string    `json:"birthDate,omitempty"`
	Role      Role      `json:"role"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}
