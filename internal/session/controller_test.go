package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wealthguard/internal/audit"
	"github.com/spec-kit/wealthguard/internal/authz"
	"github.com/spec-kit/wealthguard/internal/directory"
	"github.com/spec-kit/wealthguard/internal/domain"
)

type fixture struct {
	controller *Controller
	audit      *audit.Log
	directory  *directory.Directory
	store      *MemoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir, err := directory.New(directory.DefaultSeed()...)
	require.NoError(t, err)
	log := audit.NewLog()
	store := NewMemoryStore(0)
	controller := NewController(Dependencies{
		Identities: dir,
		Policy:     authz.NewEngine(authz.DefaultMatrix(), dir),
		Audit:      log,
		Store:      store,
	})
	return fixture{controller: controller, audit: log, directory: dir, store: store}
}

// newest returns the last appended entry regardless of timestamp ties.
func (f fixture) newest(t *testing.T) domain.AuditLogEntry {
	t.Helper()
	entries := f.audit.List()
	require.NotEmpty(t, entries)
	last := entries[0]
	for _, e := range entries[1:] {
		if e.Sequence > last.Sequence {
			last = e
		}
	}
	return last
}

func (f fixture) login(t *testing.T, id string) domain.Session {
	t.Helper()
	sess, err := f.controller.Login(context.Background(), id)
	require.NoError(t, err)
	return sess
}

func TestLoginOpensDirectSession(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, "b")

	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.IsImpersonating)
	assert.Equal(t, "b", sess.CurrentUser.ID)
	assert.Equal(t, "b", sess.ActingUser.ID)

	entries := f.audit.List()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionLogin, entries[0].Action)
	assert.Equal(t, domain.SeverityInfo, entries[0].Severity)
	assert.Equal(t, "Bob (Admin) logged into the system", entries[0].Details)
}

func TestLoginUnknownIdentity(t *testing.T) {
	f := newFixture(t)
	_, err := f.controller.Login(context.Background(), "nobody")
	require.ErrorIs(t, err, directory.ErrIdentityNotFound)
	assert.Equal(t, 0, f.audit.Len())
}

func TestImpersonationRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, "b")

	started, err := f.controller.StartImpersonation(ctx, sess.ID, "f_acc")
	require.NoError(t, err)
	assert.True(t, started.IsImpersonating)
	assert.Equal(t, "f_acc", started.CurrentUser.ID)
	assert.Equal(t, "b", started.ActingUser.ID)

	start := f.newest(t)
	assert.Equal(t, domain.ActionImpersonationStart, start.Action)
	assert.Equal(t, domain.SeverityWarning, start.Severity)
	assert.Equal(t, "b", start.ActorID)
	require.NotNil(t, start.ActingAsID)
	assert.Equal(t, "f_acc", *start.ActingAsID)
	assert.Equal(t, "Bob (Admin) started impersonating Frank Family", start.Details)

	stopped, err := f.controller.StopImpersonation(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, stopped.IsImpersonating)
	assert.Equal(t, "b", stopped.CurrentUser.ID)

	stop := f.newest(t)
	assert.Equal(t, domain.ActionImpersonationStop, stop.Action)
	assert.Equal(t, domain.SeverityInfo, stop.Severity)
	assert.Equal(t, "f_acc", *stop.ActingAsID)
	assert.Equal(t, 3, f.audit.Len())
}

func TestImpersonationDeniedLeavesSessionUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, "d")

	got, err := f.controller.StartImpersonation(ctx, sess.ID, "b")
	require.ErrorIs(t, err, ErrImpersonationDenied)
	assert.False(t, got.IsImpersonating)
	assert.Equal(t, "d", got.CurrentUser.ID)

	current, err := f.controller.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess, current)

	denied := f.newest(t)
	assert.Equal(t, domain.ActionImpersonationDenied, denied.Action)
	assert.Equal(t, domain.SeverityCritical, denied.Severity)
	assert.Equal(t, "d", denied.ActorID)
	require.NotNil(t, denied.TargetID)
	assert.Equal(t, "b", *denied.TargetID)
	assert.Nil(t, denied.ActingAsID)
}

func TestSelfAndPeerImpersonationDenied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, "b")

	_, err := f.controller.StartImpersonation(ctx, sess.ID, "b")
	require.ErrorIs(t, err, ErrImpersonationDenied)
	_, err = f.controller.StartImpersonation(ctx, sess.ID, "c")
	require.ErrorIs(t, err, ErrImpersonationDenied)
}

func TestNestedImpersonationJudgedAgainstActingUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, "b")

	_, err := f.controller.StartImpersonation(ctx, sess.ID, "f_acc")
	require.NoError(t, err)

	// Bob presenting as a customer may still switch to an associate.
	switched, err := f.controller.StartImpersonation(ctx, sess.ID, "d")
	require.NoError(t, err)
	assert.Equal(t, "d", switched.CurrentUser.ID)
	assert.Equal(t, "b", switched.ActingUser.ID)
	assert.Equal(t, "b", f.newest(t).ActorID)

	_, err = f.controller.StartImpersonation(ctx, sess.ID, "a")
	require.ErrorIs(t, err, ErrImpersonationDenied)

	current, err := f.controller.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "d", current.CurrentUser.ID)
}

func TestStopWhileDirect(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, "a")

	_, err := f.controller.StopImpersonation(context.Background(), sess.ID)
	require.ErrorIs(t, err, ErrNotImpersonating)
	assert.Equal(t, 1, f.audit.Len())
}

func TestImpersonateUnknownTarget(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, "a")

	_, err := f.controller.StartImpersonation(context.Background(), sess.ID, "ghost")
	require.ErrorIs(t, err, directory.ErrIdentityNotFound)
	assert.Equal(t, 1, f.audit.Len())
}

func TestLogoutIsAudited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, "a")
	_, err := f.controller.StartImpersonation(ctx, sess.ID, "d")
	require.NoError(t, err)

	require.NoError(t, f.controller.Logout(ctx, sess.ID))

	logout := f.newest(t)
	assert.Equal(t, domain.ActionLogout, logout.Action)
	assert.Equal(t, "a", logout.ActorID)
	assert.Equal(t, "d", *logout.ActingAsID)

	_, err = f.controller.Current(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNoSession)
	require.ErrorIs(t, f.controller.Logout(ctx, sess.ID), ErrNoSession)
}

func TestCurrentRefreshesIdentities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, "d")

	_, err := f.directory.Update("d", domain.IdentityPatch{Name: domain.StringPtr("David R.")})
	require.NoError(t, err)

	current, err := f.controller.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "David R.", current.CurrentUser.Name)
	assert.Equal(t, "David R.", current.ActingUser.Name)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Session{ID: "s1"}))
	_, err := store.Get(ctx, "s1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestCurrentRevokesImpersonationAfterDemotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, "b")
	_, err := f.controller.StartImpersonation(ctx, sess.ID, "d")
	require.NoError(t, err)

	customer := domain.RoleCustomer
	_, err = f.directory.Update("b", domain.IdentityPatch{Role: &customer})
	require.NoError(t, err)

	current, err := f.controller.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, current.IsImpersonating)
	assert.Equal(t, "b", current.CurrentUser.ID)
	assert.Equal(t, domain.RoleCustomer, current.CurrentUser.Role)

	revoked := f.newest(t)
	assert.Equal(t, domain.ActionImpersonationStop, revoked.Action)
	assert.Equal(t, domain.SeverityWarning, revoked.Severity)
	assert.Equal(t, "b", revoked.ActorID)
	assert.Equal(t, "d", *revoked.ActingAsID)

	// The revocation is persisted, so later reads do not record it again.
	before := f.audit.Len()
	again, err := f.controller.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, again.IsImpersonating)
	assert.Equal(t, before, f.audit.Len())
}

func TestCurrentRevokesImpersonationOfRemovedTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, "a")
	_, err := f.controller.StartImpersonation(ctx, sess.ID, "i_acc")
	require.NoError(t, err)

	_, err = f.directory.Delete("i_acc")
	require.NoError(t, err)

	current, err := f.controller.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, current.IsImpersonating)
	assert.Equal(t, "a", current.CurrentUser.ID)
	assert.Contains(t, f.newest(t).Details, "target removed")
}
