package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modplan/modplan-api/internal/models"
	"github.com/modplan/modplan-api/pkg/jobs"
)

type auditStore interface {
	Append(ctx context.Context, event models.AuditEvent) error
}

// AuditRecorderConfig tunes the background writer.
type AuditRecorderConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// AuditRecorder is the append-only audit sink. Events are enqueued and
// persisted by background workers so a slow store never delays a generation
// request; a full buffer drops the event with a log line instead of blocking.
type AuditRecorder struct {
	store  auditStore
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditRecorder builds the recorder and starts its worker queue.
func NewAuditRecorder(ctx context.Context, store auditStore, logger *zap.Logger, cfg AuditRecorderConfig) *AuditRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	recorder := &AuditRecorder{store: store, logger: logger}
	recorder.queue = jobs.NewQueue("audit-events", recorder.persist, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	recorder.queue.Start(ctx)
	return recorder
}

// Record enqueues one audit event. Never fails the caller.
func (r *AuditRecorder) Record(ctx context.Context, severity models.AuditSeverity, header, detail string, fields map[string]any) {
	event := models.AuditEvent{
		ID:        uuid.NewString(),
		Severity:  severity,
		Header:    header,
		Detail:    detail,
		Context:   marshalAuditContext(fields),
		CreatedAt: time.Now().UTC(),
	}
	err := r.queue.TryEnqueue(jobs.Job{ID: event.ID, Type: "audit_event", Payload: event})
	if err != nil {
		r.logger.Warn("dropping audit event",
			zap.String("header", header),
			zap.Error(err),
		)
	}
}

// Stop drains the worker queue.
func (r *AuditRecorder) Stop() {
	r.queue.Stop()
}

func (r *AuditRecorder) persist(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.AuditEvent)
	if !ok {
		r.logger.Error("unexpected audit job payload", zap.String("job_id", job.ID))
		return nil
	}
	return r.store.Append(ctx, event)
}

// marshalAuditContext renders the context map best-effort; audit writes must
// never fail over an unencodable value.
func marshalAuditContext(payload map[string]any) json.RawMessage {
	if payload == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return raw
}
