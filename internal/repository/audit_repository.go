package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/modplan/modplan-api/internal/models"
)

// AuditRepository persists engine audit events append-only.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new repository instance.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append inserts one audit event.
func (r *AuditRepository) Append(ctx context.Context, event models.AuditEvent) error {
	const query = `
		INSERT INTO audit_events (id, severity, header, detail, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, event.ID, event.Severity, event.Header, event.Detail, []byte(event.Context), event.CreatedAt); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// Recent returns the newest events for operational inspection.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const query = `
		SELECT id, severity, header, detail, context, created_at
		FROM audit_events
		ORDER BY created_at DESC
		LIMIT $1`
	var events []models.AuditEvent
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
