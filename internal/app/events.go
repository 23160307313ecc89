package app

import (
	"context"
	"log/slog"
	"time"

	"studyboard/internal/access"
	"studyboard/internal/logging"
	"studyboard/internal/model"
)

// AuditPublisher ships audit events off the request path.
type AuditPublisher interface {
	Publish(ctx context.Context, event model.AuditEvent) error
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.AuditEvent) error { return nil }

const publishTimeout = 2 * time.Second

// Auditor records domain and security events. Publishing is best effort: a
// failure is logged and never surfaces to the caller.
type Auditor struct {
	publisher AuditPublisher
	logger    *slog.Logger
}

func NewAuditor(publisher AuditPublisher, logger *slog.Logger) *Auditor {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Auditor{publisher: publisher, logger: logger}
}

func (a *Auditor) Record(ctx context.Context, eventType string, actor *model.User, resource string, resourceID uint, detail string) {
	event := model.AuditEvent{
		Type:       eventType,
		Resource:   resource,
		ResourceID: resourceID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if actor != nil {
		id := actor.ID
		event.ActorID = &id
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := a.publisher.Publish(pubCtx, event); err != nil {
		a.logger.Error("publish audit event failed", "error", err, "type", eventType)
	}
}

// Deny turns a non-permit decision into the matching service error, logging
// and recording identified requesters that were refused.
func (a *Auditor) Deny(ctx context.Context, actor *model.User, resource string, resourceID uint, d access.Decision) error {
	if d.Outcome == access.Forbid || d.Outcome == access.Conflict {
		args := []any{"resource", resource, "resource_id", resourceID, "outcome", d.Outcome.String()}
		if actor != nil {
			args = append(args, "user_id", actor.ID)
		}
		logging.SecurityEvent(a.logger, "access_denied", args...)
		a.Record(ctx, model.AuditAccessDenied, actor, resource, resourceID, d.Reason)
	}
	return decisionError(d)
}
