package domain

import "fmt"

// Role enumerates portal roles ordered by rank.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleAssociate  Role = "ASSOCIATE"
	RoleCustomer   Role = "CUSTOMER"
)

// Roles lists every role from highest to lowest rank.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleAssociate, RoleCustomer}
}

// Rank returns the position of the role in the hierarchy. Higher outranks lower.
func (r Role) Rank() int {
	switch r {
	case RoleSuperAdmin:
		return 4
	case RoleAdmin:
		return 3
	case RoleAssociate:
		return 2
	case RoleCustomer:
		return 1
	}
	return 0
}

// Outranks reports whether r sits strictly above other.
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// ParseRole converts a wire token into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("unknown role %q", string(r))
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
