package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/wealthguard/internal/domain"
)

// Sink receives every appended entry. Sinks mirror the log; they never gate an append.
type Sink interface {
	Record(ctx context.Context, entry domain.AuditLogEntry) error
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the time source used when an entry carries no timestamp.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithSink adds a mirror sink.
func WithSink(sink Sink) Option {
	return func(l *Log) { l.sinks = append(l.sinks, sink) }
}

// WithLogger sets the logger used to report sink failures.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// Log is the append-only audit trail.
type Log struct {
	mu      sync.RWMutex
	entries []domain.AuditLogEntry
	seq     uint64
	now     func() time.Time
	sinks   []Sink
	logger  *zap.Logger
}

// NewLog creates an empty audit log.
func NewLog(opts ...Option) *Log {
	l := &Log{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append stores entry with a fresh id and sequence and returns the stored copy.
// Any ID or Sequence on the input is ignored.
func (l *Log) Append(ctx context.Context, entry domain.AuditLogEntry) domain.AuditLogEntry {
	l.mu.Lock()
	l.seq++
	entry.ID = uuid.NewString()
	entry.Sequence = l.seq
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	entry = cloneEntry(entry)
	l.entries = append(l.entries, entry)
	sinks := l.sinks
	l.mu.Unlock()

	for _, sink := range sinks {
		if err := sink.Record(ctx, entry); err != nil {
			l.logger.Error("audit sink failed",
				zap.String("entry_id", entry.ID),
				zap.String("action", string(entry.Action)),
				zap.Error(err),
			)
		}
	}
	return cloneEntry(entry)
}

// List returns all entries newest first. Entries with equal timestamps keep insertion order.
func (l *Log) List() []domain.AuditLogEntry {
	return l.Query(Filter{})
}

// Filter narrows a Query. Zero fields match everything.
type Filter struct {
	ActorID    string
	TargetID   string
	ActingAsID string
	Actions    []domain.AuditAction
	Severities []domain.Severity
	Since      time.Time
	Limit      int
}

// Query returns matching entries newest first, truncated to Limit when positive.
func (l *Log) Query(filter Filter) []domain.AuditLogEntry {
	l.mu.RLock()
	out := make([]domain.AuditLogEntry, 0, len(l.entries))
	for _, entry := range l.entries {
		if filter.matches(entry) {
			out = append(out, cloneEntry(entry))
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

// Len returns the number of stored entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (f Filter) matches(entry domain.AuditLogEntry) bool {
	if f.ActorID != "" && entry.ActorID != f.ActorID {
		return false
	}
	if f.TargetID != "" && (entry.TargetID == nil || *entry.TargetID != f.TargetID) {
		return false
	}
	if f.ActingAsID != "" && (entry.ActingAsID == nil || *entry.ActingAsID != f.ActingAsID) {
		return false
	}
	if len(f.Actions) > 0 && !contains(f.Actions, entry.Action) {
		return false
	}
	if len(f.Severities) > 0 && !contains(f.Severities, entry.Severity) {
		return false
	}
	if !f.Since.IsZero() && entry.Timestamp.Before(f.Since) {
		return false
	}
	return true
}

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func cloneEntry(entry domain.AuditLogEntry) domain.AuditLogEntry {
	if entry.ActingAsID != nil {
		entry.ActingAsID = domain.StringPtr(*entry.ActingAsID)
	}
	if entry.TargetID != nil {
		entry.TargetID = domain.StringPtr(*entry.TargetID)
	}
	return entry
}
