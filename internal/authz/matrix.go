package authz

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spec-kit/wealthguard/internal/domain"
)

// RolePermissions is one row of the permission matrix.
type RolePermissions struct {
	Role        domain.Role                `json:"role"`
	Permissions map[domain.Capability]bool `json:"permissions"`
}

// Matrix maps (role, capability) to a grant. Reads return copies and writes are serialized.
type Matrix struct {
	mu   sync.RWMutex
	rows map[domain.Role]map[domain.Capability]bool
}

// NewMatrix builds a matrix from seed rows. Later rows for the same role replace earlier ones.
func NewMatrix(seed ...RolePermissions) *Matrix {
	m := &Matrix{rows: make(map[domain.Role]map[domain.Capability]bool, len(seed))}
	for _, row := range seed {
		m.rows[row.Role] = copyGrants(row.Permissions)
	}
	return m
}

// DefaultMatrix returns the grant set the portal ships with.
func DefaultMatrix() *Matrix {
	return NewMatrix(DefaultRows()...)
}

// DefaultRows returns the seed rows used by DefaultMatrix.
func DefaultRows() []RolePermissions {
	return []RolePermissions{
		{Role: domain.RoleSuperAdmin, Permissions: grants(true, true, true, true, true, true, true)},
		{Role: domain.RoleAdmin, Permissions: grants(false, true, true, false, true, true, true)},
		{Role: domain.RoleAssociate, Permissions: grants(false, false, true, false, true, false, true)},
		{Role: domain.RoleCustomer, Permissions: grants(false, false, true, true, false, false, true)},
	}
}

// grants pairs values with domain.Capabilities() in column order.
func grants(values ...bool) map[domain.Capability]bool {
	caps := domain.Capabilities()
	out := make(map[domain.Capability]bool, len(caps))
	for i, c := range caps {
		out[c] = values[i]
	}
	return out
}

// Get returns an isolated copy of the grants for role. Nil when the role has no row.
func (m *Matrix) Get(role domain.Role) map[domain.Capability]bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[role]
	if !ok {
		return nil
	}
	return copyGrants(row)
}

// Check returns the stored grant. Missing rows and cells are denied.
func (m *Matrix) Check(role domain.Role, capability domain.Capability) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.rows[role]
	if !ok {
		return false
	}
	return row[capability]
}

// Set stores value for (role, capability). It returns false without change when the role has no row.
// Set does not authorize its caller.
func (m *Matrix) Set(role domain.Role, capability domain.Capability, value bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[role]
	if !ok {
		return false
	}
	row[capability] = value
	return true
}

// Toggle flips (role, capability) and returns the new value.
func (m *Matrix) Toggle(role domain.Role, capability domain.Capability) (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[role]
	if !ok {
		return false, false
	}
	row[capability] = !row[capability]
	return row[capability], true
}

// Rows returns a copy of every row in descending rank order.
func (m *Matrix) Rows() []RolePermissions {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RolePermissions, 0, len(m.rows))
	for _, role := range domain.Roles() {
		row, ok := m.rows[role]
		if !ok {
			continue
		}
		out = append(out, RolePermissions{Role: role, Permissions: copyGrants(row)})
	}
	return out
}

// Validate reports rows or cells missing from a fully populated matrix.
func (m *Matrix) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var missing []string
	for _, role := range domain.Roles() {
		row, ok := m.rows[role]
		if !ok {
			missing = append(missing, string(role))
			continue
		}
		for _, c := range domain.Capabilities() {
			if _, ok := row[c]; !ok {
				missing = append(missing, string(role)+"/"+string(c))
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("permission matrix incomplete: %s", strings.Join(missing, ", "))
	}
	return nil
}

func copyGrants(src map[domain.Capability]bool) map[domain.Capability]bool {
	out := make(map[domain.Capability]bool, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
