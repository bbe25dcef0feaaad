package models

import (
	"encoding/json"
	"time"
)

// AuditSeverity distinguishes recorded anomalies from advisory notes.
type AuditSeverity string

const (
	AuditSeverityError   AuditSeverity = "error"
	AuditSeverityWarning AuditSeverity = "warning"
)

// AuditEvent is one append-only record of a request-validation failure or an
// anomaly detected in the engine's own output.
type AuditEvent struct {
	ID        string          `db:"id" json:"id"`
	Severity  AuditSeverity   `db:"severity" json:"severity"`
	Header    string          `db:"header" json:"header"`
	Detail    string          `db:"detail" json:"detail"`
	Context   json.RawMessage `db:"context" json:"context,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
