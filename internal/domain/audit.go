package domain

import "time"

// Severity grades audit entries.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// AuditAction tags the category of an audit entry.
type AuditAction string

const (
	ActionLogin               AuditAction = "LOGIN"
	ActionLogout              AuditAction = "LOGOUT"
	ActionImpersonationStart  AuditAction = "IMPERSONATION_START"
	ActionImpersonationStop   AuditAction = "IMPERSONATION_STOP"
	ActionImpersonationDenied AuditAction = "IMPERSONATION_DENIED"
	ActionUserCreate          AuditAction = "USER_CREATE"
	ActionUserUpdate          AuditAction = "USER_UPDATE"
	ActionUserDelete          AuditAction = "USER_DELETE"
	ActionMatrixUpdate        AuditAction = "MATRIX_UPDATE"
	ActionAssetCreate         AuditAction = "ASSET_CREATE"
	ActionAssetDelete         AuditAction = "ASSET_DELETE"
	ActionFamilyMemberCreate  AuditAction = "FAMILY_MEMBER_CREATE"
	ActionFamilyMemberDelete  AuditAction = "FAMILY_MEMBER_DELETE"
	ActionDocumentUpload      AuditAction = "DOCUMENT_UPLOAD"
	ActionDocumentDownload    AuditAction = "DOCUMENT_DOWNLOAD"
)

// AuditLogEntry is an immutable record of a security-relevant event.
type AuditLogEntry struct {
	ID         string      `json:"id"`
	ActorID    string      `json:"actor_id"`
	ActingAsID *string     `json:"acting_as_id,omitempty"`
	TargetID   *string     `json:"target_id,omitempty"`
	Action     AuditAction `json:"action"`
	Details    string      `json:"details"`
	Timestamp  time.Time   `json:"timestamp"`
	Severity   Severity    `json:"severity"`
	Sequence   uint64      `json:"-"`
}
