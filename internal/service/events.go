package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/job_board/pkg/logging"
)

const (
	EventUserRegistered     = "user_registered"
	EventJobCreated         = "job_created"
	EventJobUpdated         = "job_updated"
	EventJobDeleted         = "job_deleted"
	EventApplicationCreated = "application_created"
	EventCVUploaded         = "cv_uploaded"
	EventCVDeleted          = "cv_deleted"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event map[string]any) error
}

type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, map[string]any) error { return nil }

// publish never fails the caller; the write it describes has already committed.
func publish(ctx context.Context, p EventPublisher, key any, event map[string]any) {
	if p == nil {
		return
	}
	event["event_id"] = uuid.NewString()
	event["occurred_at"] = time.Now().UTC().Format(time.RFC3339)

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(pctx, fmt.Sprint(key), event); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "type", event["type"], "error", err)
	}
}
