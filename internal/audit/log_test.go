package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wealthguard/internal/domain"
)

type stepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

type recordingSink struct {
	mu      sync.Mutex
	entries []domain.AuditLogEntry
	err     error
}

func (s *recordingSink) Record(_ context.Context, entry domain.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return s.err
}

func entry(actor string, action domain.AuditAction, severity domain.Severity) domain.AuditLogEntry {
	return domain.AuditLogEntry{ActorID: actor, Action: action, Details: string(action), Severity: severity}
}

func TestAppendAssignsIdentity(t *testing.T) {
	log := NewLog()
	ctx := context.Background()

	first := log.Append(ctx, domain.AuditLogEntry{ID: "caller-id", ActorID: "a", Action: domain.ActionLogin, Severity: domain.SeverityInfo})
	second := log.Append(ctx, entry("a", domain.ActionLogin, domain.SeverityInfo))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, "caller-id", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Less(t, first.Sequence, second.Sequence)
	assert.Equal(t, time.UTC, first.Timestamp.Location())
	assert.Equal(t, 2, log.Len())
}

func TestListNewestFirst(t *testing.T) {
	clock := &stepClock{next: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), step: time.Second}
	log := NewLog(WithClock(clock.Now))
	ctx := context.Background()

	log.Append(ctx, entry("a", domain.ActionLogin, domain.SeverityInfo))
	log.Append(ctx, entry("a", domain.ActionImpersonationStart, domain.SeverityWarning))
	log.Append(ctx, entry("a", domain.ActionImpersonationStop, domain.SeverityInfo))

	list := log.List()
	require.Len(t, list, 3)
	assert.Equal(t, domain.ActionImpersonationStop, list[0].Action)
	assert.Equal(t, domain.ActionImpersonationStart, list[1].Action)
	assert.Equal(t, domain.ActionLogin, list[2].Action)
}

func TestEqualTimestampsKeepInsertionOrder(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	log := NewLog(WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	for _, actor := range []string{"a", "b", "c"} {
		log.Append(ctx, entry(actor, domain.ActionLogin, domain.SeverityInfo))
	}

	var actors []string
	for _, e := range log.List() {
		actors = append(actors, e.ActorID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, actors)
}

func TestEntriesAreImmutable(t *testing.T) {
	log := NewLog()
	ctx := context.Background()

	input := entry("a", domain.ActionUserDelete, domain.SeverityCritical)
	input.TargetID = domain.StringPtr("f_acc")
	stored := log.Append(ctx, input)
	*input.TargetID = "tampered"
	*stored.TargetID = "tampered"

	got := log.List()[0]
	assert.Equal(t, "f_acc", *got.TargetID)
}

func TestConcurrentAppendsAreUnique(t *testing.T) {
	log := NewLog()
	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			log.Append(ctx, entry("a", domain.ActionLogin, domain.SeverityInfo))
		}()
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, e := range log.List() {
		seen[e.ID] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, log.Len())
}

func TestQueryFilters(t *testing.T) {
	clock := &stepClock{next: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), step: time.Minute}
	log := NewLog(WithClock(clock.Now))
	ctx := context.Background()

	log.Append(ctx, entry("a", domain.ActionLogin, domain.SeverityInfo))
	denied := entry("d", domain.ActionImpersonationDenied, domain.SeverityCritical)
	denied.TargetID = domain.StringPtr("b")
	log.Append(ctx, denied)
	start := entry("a", domain.ActionImpersonationStart, domain.SeverityWarning)
	start.ActingAsID = domain.StringPtr("f_acc")
	log.Append(ctx, start)
	log.Append(ctx, entry("b", domain.ActionLogin, domain.SeverityInfo))

	assert.Len(t, log.Query(Filter{ActorID: "a"}), 2)
	assert.Len(t, log.Query(Filter{TargetID: "b"}), 1)
	assert.Len(t, log.Query(Filter{ActingAsID: "f_acc"}), 1)
	assert.Len(t, log.Query(Filter{Actions: []domain.AuditAction{domain.ActionLogin}}), 2)
	assert.Len(t, log.Query(Filter{Severities: []domain.Severity{domain.SeverityCritical, domain.SeverityWarning}}), 2)
	assert.Len(t, log.Query(Filter{Since: time.Date(2024, 3, 1, 9, 2, 0, 0, time.UTC)}), 2)

	limited := log.Query(Filter{Limit: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, "b", limited[0].ActorID)
}

func TestSinkFailureDoesNotBlockAppend(t *testing.T) {
	failing := &recordingSink{err: errors.New("database unavailable")}
	ok := &recordingSink{}
	log := NewLog(WithSink(failing), WithSink(ok))

	stored := log.Append(context.Background(), entry("a", domain.ActionLogin, domain.SeverityInfo))

	assert.Equal(t, 1, log.Len())
	require.Len(t, failing.entries, 1)
	require.Len(t, ok.entries, 1)
	assert.Equal(t, stored.ID, ok.entries[0].ID)
}
