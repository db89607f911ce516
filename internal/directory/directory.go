package directory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spec-kit/wealthguard/internal/domain"
)

var (
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrDuplicateIdentity  = errors.New("identity already exists")
	ErrInvalidAssignment  = errors.New("invalid associate assignment")
	ErrIdentityReferenced = errors.New("identity is still referenced")
	ErrInvalidIdentity    = errors.New("invalid identity")
)

// Directory is the in-memory identity set. List preserves insertion order.
type Directory struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]domain.Identity
}

// New builds a directory from seed identities, validating each in order.
func New(seed ...domain.Identity) (*Directory, error) {
	d := &Directory{byID: make(map[string]domain.Identity, len(seed))}
	for _, identity := range seed {
		if err := d.Add(identity); err != nil {
			return nil, fmt.Errorf("seed %s: %w", identity.ID, err)
		}
	}
	return d, nil
}

// DefaultSeed returns the demo identities the portal starts with.
func DefaultSeed() []domain.Identity {
	return []domain.Identity{
		{ID: "a", Name: "Alice (Super)", Role: domain.RoleSuperAdmin, Email: "alice@wealthguard.com"},
		{ID: "b", Name: "Bob (Admin)", Role: domain.RoleAdmin, Email: "bob@wealthguard.com"},
		{ID: "c", Name: "Charlie (Admin)", Role: domain.RoleAdmin, Email: "charlie@wealthguard.com"},
		{ID: "d", Name: "David (Assoc)", Role: domain.RoleAssociate, Email: "david@wealthguard.com"},
		{ID: "e", Name: "Eve (Assoc)", Role: domain.RoleAssociate, Email: "eve@wealthguard.com"},
		{ID: "f_acc", Name: "Frank Family", Role: domain.RoleCustomer, Email: "frank@client.com", AssignedTo: domain.StringPtr("d")},
		{ID: "i_acc", Name: "Isabella Family", Role: domain.RoleCustomer, Email: "isabella@client.com", AssignedTo: domain.StringPtr("e")},
	}
}

// Add inserts a new identity.
func (d *Directory) Add(identity domain.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byID[identity.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentity, identity.ID)
	}
	if err := d.validateLocked(identity); err != nil {
		return err
	}
	d.byID[identity.ID] = identity.Clone()
	d.order = append(d.order, identity.ID)
	return nil
}

// Update applies patch to the identity with id and returns the stored result.
func (d *Directory) Update(id string, patch domain.IdentityPatch) (domain.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.byID[id]
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
	}
	updated := patch.Apply(current)
	updated.ID = id
	if err := d.validateLocked(updated); err != nil {
		return domain.Identity{}, err
	}
	if current.Role == domain.RoleAssociate && updated.Role != domain.RoleAssociate && d.referencedLocked(id) {
		return domain.Identity{}, fmt.Errorf("%w: %s has assigned customers", ErrIdentityReferenced, id)
	}
	d.byID[id] = updated
	return updated.Clone(), nil
}

// Delete removes the identity. Associates with assigned customers are kept.
// Records owned by the identity elsewhere are not purged.
func (d *Directory) Delete(id string) (domain.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.byID[id]
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
	}
	if current.Role == domain.RoleAssociate && d.referencedLocked(id) {
		return domain.Identity{}, fmt.Errorf("%w: %s has assigned customers", ErrIdentityReferenced, id)
	}
	delete(d.byID, id)
	for i, existing := range d.order {
		if existing == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return current, nil
}

// Find looks up an identity by id.
func (d *Directory) Find(id string) (domain.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	identity, ok := d.byID[id]
	if !ok {
		return domain.Identity{}, false
	}
	return identity.Clone(), true
}

// List returns copies of all identities in insertion order.
func (d *Directory) List() []domain.Identity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Identity, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id].Clone())
	}
	return out
}

// Len returns the number of identities.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

func (d *Directory) validateLocked(identity domain.Identity) error {
	if identity.ID == "" {
		return fmt.Errorf("%w: id required", ErrInvalidIdentity)
	}
	if !identity.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidIdentity, identity.Role)
	}
	if identity.AssignedTo == nil {
		return nil
	}
	if identity.Role != domain.RoleCustomer {
		return fmt.Errorf("%w: only customers can be assigned", ErrInvalidAssignment)
	}
	// byID still holds the pre-update record, so a self reference would see an associate.
	if *identity.AssignedTo == identity.ID {
		return fmt.Errorf("%w: %s cannot be assigned to itself", ErrInvalidAssignment, identity.ID)
	}
	associate, ok := d.byID[*identity.AssignedTo]
	if !ok || associate.Role != domain.RoleAssociate {
		return fmt.Errorf("%w: %s is not an associate", ErrInvalidAssignment, *identity.AssignedTo)
	}
	return nil
}

func (d *Directory) referencedLocked(associateID string) bool {
	for _, identity := range d.byID {
		if identity.AssignedToID() == associateID {
			return true
		}
	}
	return false
}
