package domain

// Identity is a portal user record.
type Identity struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       Role    `json:"role"`
	AssignedTo *string `json:"assigned_to,omitempty"`
}

// IdentityPatch carries the fields to change on an identity. Nil fields are left alone.
type IdentityPatch struct {
	Name       *string
	Email      *string
	Role       *Role
	AssignedTo *string
	// ClearAssignment removes AssignedTo and wins over AssignedTo.
	ClearAssignment bool
}

// Clone returns a deep copy.
func (i Identity) Clone() Identity {
	out := i
	if i.AssignedTo != nil {
		v := *i.AssignedTo
		out.AssignedTo = &v
	}
	return out
}

// AssignedToID returns the assigned associate id or "".
func (i Identity) AssignedToID() string {
	if i.AssignedTo == nil {
		return ""
	}
	return *i.AssignedTo
}

// Apply returns a copy of i with the patch applied.
func (p IdentityPatch) Apply(i Identity) Identity {
	out := i.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Role != nil {
		out.Role = *p.Role
	}
	if p.AssignedTo != nil {
		v := *p.AssignedTo
		out.AssignedTo = &v
	}
	if p.ClearAssignment {
		out.AssignedTo = nil
	}
	return out
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
