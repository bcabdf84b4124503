package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-catalog/pkg/activity"
	"github.com/goliatone/go-catalog/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	tenant := uuid.New()
	hook := usersink.Hook{Sink: sink, TenantID: tenant}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	productID := uuid.New().String()

	event := activity.BuildProductEvent(activity.VerbProductUpdated, activity.EntityEventInput{
		ActorID: actorID.String(),
		ID:      productID,
		Name:    "Shirt",
		Channel: "catalog",
	})
	event.OccurredAt = now

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != actorID {
		t.Fatalf("expected actor %s got %s/%s", actorID, record.ActorID, record.UserID)
	}
	if record.TenantID != tenant {
		t.Fatalf("expected tenant %s got %s", tenant, record.TenantID)
	}
	if record.Verb != activity.VerbProductUpdated || record.ObjectType != "product" || record.ObjectID != productID {
		t.Fatalf("unexpected record identity: %+v", record)
	}
	if record.Data["name"] != "Shirt" {
		t.Fatalf("expected name in data, got %+v", record.Data)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
}

func TestHookNotifyInvalidActorAndMissingFields(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.Event{Verb: "product.created"}); err != nil {
		t.Fatalf("expected incomplete event to be ignored, got %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected no records for incomplete event")
	}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       "variant.created",
		ActorID:    "not-a-uuid",
		ObjectType: "variant",
		ObjectID:   "v-1",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if sink.records[0].ActorID != uuid.Nil {
		t.Fatalf("expected nil actor for unparsable id, got %s", sink.records[0].ActorID)
	}
}

func TestHookNotifySurfacesSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}
	err := hook.Notify(context.Background(), activity.Event{Verb: "variant.deleted", ObjectType: "variant", ObjectID: "v"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}

	if err := (usersink.Hook{}).Notify(context.Background(), activity.Event{}); err != nil {
		t.Fatalf("nil sink should be a no-op, got %v", err)
	}
}
