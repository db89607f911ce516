package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/wealthguard/internal/domain"
)

// LoggerSink writes each entry as a structured log line.
type LoggerSink struct {
	logger *zap.Logger
}

// NewLoggerSink constructs a sink over logger.
func NewLoggerSink(logger *zap.Logger) *LoggerSink {
	return &LoggerSink{logger: logger.Named("audit")}
}

// Record implements Sink.
func (s *LoggerSink) Record(_ context.Context, entry domain.AuditLogEntry) error {
	fields := []zap.Field{
		zap.String("id", entry.ID),
		zap.String("actor_id", entry.ActorID),
		zap.String("action", string(entry.Action)),
		zap.String("severity", string(entry.Severity)),
		zap.String("details", entry.Details),
		zap.String("timestamp", entry.Timestamp.Format(time.RFC3339Nano)),
	}
	if entry.ActingAsID != nil {
		fields = append(fields, zap.String("acting_as_id", *entry.ActingAsID))
	}
	if entry.TargetID != nil {
		fields = append(fields, zap.String("target_id", *entry.TargetID))
	}

	switch entry.Severity {
	case domain.SeverityCritical:
		s.logger.Error("audit event", fields...)
	case domain.SeverityWarning:
		s.logger.Warn("audit event", fields...)
	default:
		s.logger.Info("audit event", fields...)
	}
	return nil
}
