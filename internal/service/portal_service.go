package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/wealthguard/internal/audit"
	"github.com/spec-kit/wealthguard/internal/authz"
	"github.com/spec-kit/wealthguard/internal/directory"
	"github.com/spec-kit/wealthguard/internal/domain"
	"github.com/spec-kit/wealthguard/internal/observability"
	"github.com/spec-kit/wealthguard/internal/repository"
	"github.com/spec-kit/wealthguard/internal/session"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// PortalService authorizes and audits every operation the portal exposes.
type PortalService struct {
	engine    *authz.Engine
	directory *directory.Directory
	audit     *audit.Log
	sessions  *session.Controller
	families  repository.FamilyMemberRepository
	assets    repository.AssetRepository
	documents repository.DocumentRepository
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// PortalDependencies encapsulates collaborators of the portal service.
type PortalDependencies struct {
	Engine    *authz.Engine
	Directory *directory.Directory
	Audit     *audit.Log
	Sessions  *session.Controller
	Families  repository.FamilyMemberRepository
	Assets    repository.AssetRepository
	Documents repository.DocumentRepository
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// NewPortalService builds the service.
func NewPortalService(deps PortalDependencies) *PortalService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalService{
		engine:    deps.Engine,
		directory: deps.Directory,
		audit:     deps.Audit,
		sessions:  deps.Sessions,
		families:  deps.Families,
		assets:    deps.Assets,
		documents: deps.Documents,
		metrics:   deps.Metrics,
		logger:    logger,
	}
}

// Login opens a session for the identity with id.
func (s *PortalService) Login(ctx context.Context, id string) (domain.Session, error) {
	return s.sessions.Login(ctx, id)
}

// Logout ends the session.
func (s *PortalService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Logout(ctx, sessionID)
}

// Session returns the current state of a session.
func (s *PortalService) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.sessions.Current(ctx, sessionID)
}

// StartImpersonation switches the session to act as targetID.
func (s *PortalService) StartImpersonation(ctx context.Context, sessionID, targetID string) (domain.Session, error) {
	sess, err := s.sessions.StartImpersonation(ctx, sessionID, targetID)
	if errors.Is(err, session.ErrImpersonationDenied) {
		s.metrics.RecordDecision("impersonation.start", false)
		return sess, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	if err == nil {
		s.metrics.RecordDecision("impersonation.start", true)
	}
	return sess, err
}

// StopImpersonation returns the session to its acting user.
func (s *PortalService) StopImpersonation(ctx context.Context, sessionID string) (domain.Session, error) {
	return s.sessions.StopImpersonation(ctx, sessionID)
}

// VisibleIdentities lists the identities in the current user's scope, filtered by a
// case-insensitive match on name or email when search is not empty.
func (s *PortalService) VisibleIdentities(ctx context.Context, sessionID, search string) ([]domain.Identity, error) {
	sess, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	visible := s.engine.VisibleIdentities(sess.CurrentUser)
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return visible, nil
	}
	filtered := make([]domain.Identity, 0, len(visible))
	for _, u := range visible {
		if strings.Contains(strings.ToLower(u.Name), term) || strings.Contains(strings.ToLower(u.Email), term) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// CreateIdentity adds a new identity. The current user needs EDIT_CUSTOMERS, must
// outrank the new role, and an associate may only create customers assigned to itself.
func (s *PortalService) CreateIdentity(ctx context.Context, sessionID string, identity domain.Identity) (domain.Identity, error) {
	sess, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return domain.Identity{}, err
	}
	actor := sess.CurrentUser

	allowed := s.engine.HasPermission(actor, domain.CapEditCustomers) && actor.Role.Outranks(identity.Role)
	if allowed && actor.Role == domain.RoleAssociate {
		allowed = identity.AssignedToID() == actor.ID
	}
	if err := s.decide(sess, "identity.create", allowed); err != nil {
		return domain.Identity{}, err
	}

	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	if err := s.directory.Add(identity); err != nil {
		return domain.Identity{}, err
	}

	s.record(ctx, sess, domain.ActionUserCreate, domain.SeverityInfo, identity.ID,
		fmt.Sprintf("Created new user: %s with role %s", identity.Name, identity.Role))
	return identity.Clone(), nil
}

// UpdateIdentity patches an identity inside the current user's scope. An associate
// may not move a customer out of its own book.
func (s *PortalService) UpdateIdentity(ctx context.Context, sessionID, id string, patch domain.IdentityPatch) (domain.Identity, error) {
	sess, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return domain.Identity{}, err
	}
	if _, ok := s.directory.Find(id); !ok {
		return domain.Identity{}, fmt.Errorf("%w: %s", directory.ErrIdentityNotFound, id)
	}
	actor := sess.CurrentUser

	allowed := s.engine.HasPermission(actor, domain.CapEditCustomers) && s.engine.CanSee(actor, id)
	if allowed && patch.Role != nil {
		allowed = actor.Role.Outranks(*patch.Role)
	}
	if allowed && actor.Role == domain.RoleAssociate {
		allowed = !patch.ClearAssignment && (patch.AssignedTo == nil || *patch.AssignedTo == actor.ID)
	}
	if err := s.decide(sess, "identity.update", allowed); err != nil {
		return domain.Identity{}, err
	}

	updated, err := s.directory.Update(id, patch)
	if err != nil {
		return domain.Identity{}, err
	}

	s.record(ctx, sess, domain.ActionUserUpdate, domain.SeverityInfo, id,
		fmt.Sprintf("Updated user %s details", id))
	return updated, nil
}

// DeleteIdentity removes an identity inside the current user's scope.
func (s *PortalService) DeleteIdentity(ctx context.Context, sessionID, id string) error {
	sess, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return err
	}
	if _, ok := s.directory.Find(id); !ok {
		return fmt.Errorf("%w: %s", directory.ErrIdentityNotFound, id)
	}
	actor := sess.CurrentUser

	allowed := s.engine.HasPermission(actor, domain.CapDeleteCascade) && s.engine.CanSee(actor, id)
	if err := s.decide(sess, "identity.delete", allowed); err != nil {
		return err
	}

	removed, err := s.directory.Delete(id)
	if err != nil {
		return err
	}

	s.record(ctx, sess, domain.ActionUserDelete, domain.SeverityCritical, id,
		fmt.Sprintf("Deleted user: %s (%s)", removed.Name, removed.ID))
	return nil
}

// PermissionMatrix returns every matrix row. Only a super admin may read it.
func (s *PortalService) PermissionMatrix(ctx context.Context, sessionID string) ([]authz.RolePermissions, error) {
	sess, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.decide(sess, "matrix.read", sess.CurrentUser.Role == domain.RoleSuperAdmin); err != nil {
		return nil, err
	}
	return s.engine.Matrix().Rows(), nil
}

// SetPermission stores a matrix cell. Only a super admin may edit the matrix.
func (s *PortalService) SetPermission(ctx context.Context, sessionID string, role domain.Role, capability domain.Capability, value bool) error {
	sess, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.decide(sess, "matrix.update", sess.CurrentUser.Role == domain.RoleSuperAdmin); err != nil {
		return err
	}
	if !role.Valid() || !capability.Valid() {
		return fmt.Errorf("%w: unknown role or capability", ErrInvalidInput)
	}
	if !s.engine.Matrix().Set(role, capability, value) {
		return fmt.Errorf("%w: no matrix row for %s", ErrInvalidInput, role)
	}

	s.record(ctx, sess, domain.ActionMatrixUpdate, domain.SeverityWarning, "",
		fmt.Sprintf("Updated %s capability: %s = %t", role, capability, value))
	return nil
}

// TogglePermission flips a matrix cell atomically and returns the new value.
func (s *PortalService) TogglePermission(ctx context.Context, sessionID string, role domain.Role, capability domain.Capability) (bool, error) {
	sess, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if err := s.decide(sess, "matrix.update", sess.CurrentUser.Role == domain.RoleSuperAdmin); err != nil {
		return false, err
	}
	if !role.Valid() || !capability.Valid() {
		return false, fmt.Errorf("%w: unknown role or capability", ErrInvalidInput)
	}
	value, ok := s.engine.Matrix().Toggle(role, capability)
	if !ok {
		return false, fmt.Errorf("%w: no matrix row for %s", ErrInvalidInput, role)
	}

	s.record(ctx, sess, domain.ActionMatrixUpdate, domain.SeverityWarning, "",
		fmt.Sprintf("Updated %s capability: %s = %t", role, capability, value))
	return value, nil
}

// ListAuditLog returns audit entries newest first for users allowed to view them.
func (s *PortalService) ListAuditLog(ctx context.Context, sessionID string, filter audit.Filter) ([]domain.AuditLogEntry, error) {
	sess, err := s.sessions.Current(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.decide(sess, "audit.read", s.engine.CanViewAuditLog(sess.CurrentUser)); err != nil {
		return nil, err
	}
	return s.audit.Query(filter), nil
}

// decide records the outcome and converts a denial into ErrForbidden.
func (s *PortalService) decide(sess domain.Session, operation string, allowed bool) error {
	s.metrics.RecordDecision(operation, allowed)
	if allowed {
		return nil
	}
	s.logger.Warn("operation denied",
		zap.String("operation", operation),
		zap.String("actor_id", sess.ActingUser.ID),
		zap.String("current_id", sess.CurrentUser.ID),
	)
	return fmt.Errorf("%w: %s", ErrForbidden, operation)
}

// record appends an entry attributed to the acting user and, while impersonating,
// to the impersonated identity.
func (s *PortalService) record(ctx context.Context, sess domain.Session, action domain.AuditAction, severity domain.Severity, targetID, details string) domain.AuditLogEntry {
	entry := domain.AuditLogEntry{
		ActorID:    sess.ActingUser.ID,
		ActingAsID: sess.ActingAsID(),
		Action:     action,
		Details:    details,
		Severity:   severity,
	}
	if targetID != "" {
		entry.TargetID = domain.StringPtr(targetID)
	}
	return s.audit.Append(ctx, entry)
}
