package domain

import "fmt"

// Capability is a role-scoped permission bit.
type Capability string

const (
	CapAdminModules  Capability = "ADMIN_MODULES"
	CapAssociates    Capability = "ASSOCIATES"
	CapCustomers     Capability = "CUSTOMERS"
	CapWholeFamily   Capability = "WHOLE_FAMILY"
	CapEditCustomers Capability = "EDIT_CUSTOMERS"
	CapDeleteCascade Capability = "DELETE_CASCADE"
	CapDownloadPDF   Capability = "DOWNLOAD_PDF"
)

// Capabilities lists every capability in matrix column order.
func Capabilities() []Capability {
	return []Capability{
		CapAdminModules,
		CapAssociates,
		CapCustomers,
		CapWholeFamily,
		CapEditCustomers,
		CapDeleteCascade,
		CapDownloadPDF,
	}
}

// Valid reports whether c is one of the declared capabilities.
func (c Capability) Valid() bool {
	switch c {
	case CapAdminModules, CapAssociates, CapCustomers, CapWholeFamily,
		CapEditCustomers, CapDeleteCascade, CapDownloadPDF:
		return true
	}
	return false
}

// ParseCapability converts a wire token into a Capability.
func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown capability %q", s)
	}
	return c, nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Capability) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown capability %q", string(c))
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Capability) UnmarshalText(text []byte) error {
	parsed, err := ParseCapability(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
