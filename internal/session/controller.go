package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/wealthguard/internal/directory"
	"github.com/spec-kit/wealthguard/internal/domain"
)

var (
	ErrImpersonationDenied = errors.New("impersonation denied")
	ErrNotImpersonating    = errors.New("session is not impersonating")
)

// IdentityFinder resolves identities by id.
type IdentityFinder interface {
	Find(id string) (domain.Identity, bool)
}

// ImpersonationPolicy decides impersonation eligibility.
type ImpersonationPolicy interface {
	CanImpersonate(actor, target domain.Identity) bool
}

// Recorder appends audit entries.
type Recorder interface {
	Append(ctx context.Context, entry domain.AuditLogEntry) domain.AuditLogEntry
}

// Controller drives the Direct/Impersonating state machine of each session.
type Controller struct {
	identities IdentityFinder
	policy     ImpersonationPolicy
	audit      Recorder
	store      Store
	logger     *zap.Logger
}

// Dependencies bundles collaborators for the controller.
type Dependencies struct {
	Identities IdentityFinder
	Policy     ImpersonationPolicy
	Audit      Recorder
	Store      Store
	Logger     *zap.Logger
}

// NewController constructs a controller.
func NewController(deps Dependencies) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		identities: deps.Identities,
		policy:     deps.Policy,
		audit:      deps.Audit,
		store:      deps.Store,
		logger:     logger,
	}
}

// Login opens a Direct session for the identity with id.
func (c *Controller) Login(ctx context.Context, id string) (domain.Session, error) {
	user, ok := c.identities.Find(id)
	if !ok {
		return domain.Session{}, fmt.Errorf("login %s: %w", id, directory.ErrIdentityNotFound)
	}

	sess := domain.Session{
		ID:          uuid.NewString(),
		CurrentUser: user,
		ActingUser:  user,
	}
	if err := c.store.Save(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	c.audit.Append(ctx, domain.AuditLogEntry{
		ActorID:  user.ID,
		Action:   domain.ActionLogin,
		Details:  fmt.Sprintf("%s logged into the system", user.Name),
		Severity: domain.SeverityInfo,
	})
	c.logger.Info("session opened", zap.String("session_id", sess.ID), zap.String("identity_id", user.ID))
	return sess, nil
}

// Current returns the session, refreshing both identities from the directory.
// An impersonation the acting user is no longer eligible for is ended and recorded.
func (c *Controller) Current(ctx context.Context, sessionID string) (domain.Session, error) {
	sess, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	acting, ok := c.identities.Find(sess.ActingUser.ID)
	if !ok {
		_ = c.store.Delete(ctx, sessionID)
		return domain.Session{}, ErrNoSession
	}
	sess.ActingUser = acting
	if !sess.IsImpersonating {
		sess.CurrentUser = acting
		return sess, nil
	}

	current, ok := c.identities.Find(sess.CurrentUser.ID)
	if ok && c.policy.CanImpersonate(acting, current) {
		sess.CurrentUser = current
		return sess, nil
	}
	return c.revoke(ctx, sess, ok)
}

// revoke drops an impersonating session back to Direct after eligibility was lost.
func (c *Controller) revoke(ctx context.Context, sess domain.Session, targetExists bool) (domain.Session, error) {
	previous := sess.CurrentUser

	next := sess
	next.CurrentUser = sess.ActingUser
	next.IsImpersonating = false
	if err := c.store.Save(ctx, next); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	reason := "privileges changed"
	if !targetExists {
		reason = "target removed"
	}
	c.audit.Append(ctx, domain.AuditLogEntry{
		ActorID:    sess.ActingUser.ID,
		ActingAsID: domain.StringPtr(previous.ID),
		Action:     domain.ActionImpersonationStop,
		Details:    fmt.Sprintf("Impersonation of %s by %s revoked: %s", previous.Name, sess.ActingUser.Name, reason),
		Severity:   domain.SeverityWarning,
	})
	c.logger.Warn("impersonation revoked",
		zap.String("session_id", sess.ID),
		zap.String("actor_id", sess.ActingUser.ID),
		zap.String("target_id", previous.ID),
		zap.String("reason", reason),
	)
	return next, nil
}

// StartImpersonation switches the session to present targetID. Eligibility is always
// judged against the acting user, also when the session already impersonates someone.
// A denial leaves the session unchanged and is recorded as CRITICAL.
func (c *Controller) StartImpersonation(ctx context.Context, sessionID, targetID string) (domain.Session, error) {
	sess, err := c.Current(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	target, ok := c.identities.Find(targetID)
	if !ok {
		return sess, fmt.Errorf("impersonate %s: %w", targetID, directory.ErrIdentityNotFound)
	}
	actor := sess.ActingUser

	if !c.policy.CanImpersonate(actor, target) {
		c.audit.Append(ctx, domain.AuditLogEntry{
			ActorID:  actor.ID,
			TargetID: domain.StringPtr(target.ID),
			Action:   domain.ActionImpersonationDenied,
			Details:  fmt.Sprintf("Unauthorized impersonation attempt by %s on %s", actor.Name, target.Name),
			Severity: domain.SeverityCritical,
		})
		c.logger.Warn("impersonation denied",
			zap.String("session_id", sess.ID),
			zap.String("actor_id", actor.ID),
			zap.String("target_id", target.ID),
		)
		return sess, ErrImpersonationDenied
	}

	next := sess
	next.CurrentUser = target
	next.IsImpersonating = true
	if err := c.store.Save(ctx, next); err != nil {
		return sess, fmt.Errorf("save session: %w", err)
	}

	c.audit.Append(ctx, domain.AuditLogEntry{
		ActorID:    actor.ID,
		ActingAsID: domain.StringPtr(target.ID),
		Action:     domain.ActionImpersonationStart,
		Details:    fmt.Sprintf("%s started impersonating %s", actor.Name, target.Name),
		Severity:   domain.SeverityWarning,
	})
	return next, nil
}

// StopImpersonation returns an impersonating session to Direct.
func (c *Controller) StopImpersonation(ctx context.Context, sessionID string) (domain.Session, error) {
	sess, err := c.Current(ctx, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	if !sess.IsImpersonating {
		return sess, ErrNotImpersonating
	}
	previous := sess.CurrentUser

	next := sess
	next.CurrentUser = sess.ActingUser
	next.IsImpersonating = false
	if err := c.store.Save(ctx, next); err != nil {
		return sess, fmt.Errorf("save session: %w", err)
	}

	c.audit.Append(ctx, domain.AuditLogEntry{
		ActorID:    sess.ActingUser.ID,
		ActingAsID: domain.StringPtr(previous.ID),
		Action:     domain.ActionImpersonationStop,
		Details:    fmt.Sprintf("%s stopped impersonating %s", sess.ActingUser.Name, previous.Name),
		Severity:   domain.SeverityInfo,
	})
	return next, nil
}

// Logout ends the session and records it.
func (c *Controller) Logout(ctx context.Context, sessionID string) error {
	sess, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := c.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	c.audit.Append(ctx, domain.AuditLogEntry{
		ActorID:    sess.ActingUser.ID,
		ActingAsID: sess.ActingAsID(),
		Action:     domain.ActionLogout,
		Details:    fmt.Sprintf("%s logged out of the system", sess.ActingUser.Name),
		Severity:   domain.SeverityInfo,
	})
	c.logger.Info("session closed", zap.String("session_id", sessionID))
	return nil
}
