package main

import (
	"context"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/miguelantunes/partnerflow-backend/pkg/config"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/metrics"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox/registry"
)

type fakeDB struct{}

func (fakeDB) Ping(ctx context.Context) error { return nil }

func (fakeDB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakePubSub struct{}

func (fakePubSub) Ping(ctx context.Context) error             { return nil }
func (fakePubSub) Publisher(name string) *gcppubsub.Publisher { return nil }

type fakeOutboxRepo struct {
	due       []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	failedAt  []time.Time
	terminal  []enums.OutboxDLQErrorReason
}

func (f *fakeOutboxRepo) FetchDue(limit int, now time.Time) ([]models.OutboxEvent, error) {
	return f.due, nil
}

func (f *fakeOutboxRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(id uuid.UUID, attemptErr error, nextAttemptAt time.Time) error {
	f.failed = append(f.failed, id)
	f.failedAt = append(f.failedAt, nextAttemptAt)
	return nil
}

func (f *fakeOutboxRepo) MarkTerminal(event models.OutboxEvent, reason enums.OutboxDLQErrorReason, lastErr error) error {
	f.terminal = append(f.terminal, reason)
	return nil
}

type fakeResolver struct {
	resolveFn func(models.OutboxEvent) (*registry.ResolvedEvent, error)
}

func (f fakeResolver) Resolve(event models.OutboxEvent) (*registry.ResolvedEvent, error) {
	return f.resolveFn(event)
}

type fakePublisher struct {
	err error
}

func (f fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return fakePublishResult{err: f.err}
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "msg-1", nil
}

func testEvent(attempts int) models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.OutboxEventWorkflowStepAdvanced,
		AggregateType: enums.OutboxAggregateWorkflow,
		AggregateID:   uuid.New(),
		Payload:       []byte(`{"version":1,"eventId":"e1","data":{}}`),
		Status:        enums.OutboxEventStatusPending,
		Attempts:      attempts,
		CreatedAt:     time.Now(),
	}
}

func resolveOK(event models.OutboxEvent) (*registry.ResolvedEvent, error) {
	return &registry.ResolvedEvent{
		Descriptor: registry.EventDescriptor{
			EventType:     event.EventType,
			AggregateType: event.AggregateType,
			Topic:         "workflow-events",
		},
		Envelope: outbox.PayloadEnvelope{EventID: "e1", OccurredAt: time.Now()},
	}, nil
}

func newPublisherService(t *testing.T, repo *fakeOutboxRepo, resolver registryResolver, pub publisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:   &config.Config{},
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		DB:       fakeDB{},
		PubSub:   fakePubSub{},
		Registry: resolver,
		Metrics:  metrics.NewOutboxMetrics(nil),
		RepositoryFactory: func(tx *gorm.DB) outboxRepository {
			return repo
		},
		PublisherFactory: func(topic string) publisher {
			return pub
		},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	event := testEvent(0)
	repo := &fakeOutboxRepo{due: []models.OutboxEvent{event}}
	svc := newPublisherService(t, repo, fakeResolver{resolveFn: resolveOK}, fakePublisher{})

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to report work")
	}
	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("expected event marked published, got %v", repo.published)
	}
}

func TestProcessBatchMarksFailedWithBackoff(t *testing.T) {
	event := testEvent(0)
	repo := &fakeOutboxRepo{due: []models.OutboxEvent{event}}
	svc := newPublisherService(t, repo, fakeResolver{resolveFn: resolveOK}, fakePublisher{err: errors.New("broker unavailable")})

	before := time.Now()
	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if len(repo.failed) != 1 {
		t.Fatalf("expected one failure, got %v", repo.failed)
	}
	if !repo.failedAt[0].After(before) {
		t.Fatalf("next attempt must be in the future, got %s", repo.failedAt[0])
	}
	if len(repo.terminal) != 0 {
		t.Fatal("transient failure must not dead-letter")
	}
}

func TestProcessBatchDeadlettersAfterMaxAttempts(t *testing.T) {
	event := testEvent(defaultMaxAttempts - 1)
	repo := &fakeOutboxRepo{due: []models.OutboxEvent{event}}
	svc := newPublisherService(t, repo, fakeResolver{resolveFn: resolveOK}, fakePublisher{err: errors.New("broker unavailable")})

	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != enums.OutboxDLQReasonMaxAttempts {
		t.Fatalf("expected max attempts dead-letter, got %v", repo.terminal)
	}
	if len(repo.failed) != 0 {
		t.Fatal("exhausted event must not be retried")
	}
}

func TestProcessBatchDeadlettersUnroutableEvents(t *testing.T) {
	event := testEvent(0)
	repo := &fakeOutboxRepo{due: []models.OutboxEvent{event}}
	resolver := fakeResolver{resolveFn: func(models.OutboxEvent) (*registry.ResolvedEvent, error) {
		return nil, registry.NewNonRetryableError(errors.New("unknown event type: bogus"))
	}}
	svc := newPublisherService(t, repo, resolver, fakePublisher{})

	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != enums.OutboxDLQReasonMalformed {
		t.Fatalf("expected malformed dead-letter, got %v", repo.terminal)
	}
}

func TestProcessBatchClassifiesUnknownEventType(t *testing.T) {
	event := testEvent(0)
	repo := &fakeOutboxRepo{due: []models.OutboxEvent{event}}
	resolver := fakeResolver{resolveFn: func(models.OutboxEvent) (*registry.ResolvedEvent, error) {
		return nil, registry.NewNonRetryableError(registry.ErrUnknownEventType)
	}}
	svc := newPublisherService(t, repo, resolver, fakePublisher{})

	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != enums.OutboxDLQReasonUnroutable {
		t.Fatalf("expected unroutable dead-letter, got %v", repo.terminal)
	}
}

func TestProcessBatchDeadlettersRejectedPublishes(t *testing.T) {
	event := testEvent(0)
	repo := &fakeOutboxRepo{due: []models.OutboxEvent{event}}
	svc := newPublisherService(t, repo, fakeResolver{resolveFn: resolveOK}, nil)

	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("processBatch: %v", err)
	}
	if len(repo.terminal) != 1 || repo.terminal[0] != enums.OutboxDLQReasonPublishRejected {
		t.Fatalf("expected publish rejected dead-letter, got %v", repo.terminal)
	}
}

func TestRetryDelayDoublesAndCaps(t *testing.T) {
	repo := &fakeOutboxRepo{}
	svc := newPublisherService(t, repo, fakeResolver{resolveFn: resolveOK}, fakePublisher{})

	if got := svc.retryDelay(1); got != defaultBaseBackoff {
		t.Fatalf("attempt 1: expected %s, got %s", defaultBaseBackoff, got)
	}
	if got := svc.retryDelay(2); got != 2*defaultBaseBackoff {
		t.Fatalf("attempt 2: expected %s, got %s", 2*defaultBaseBackoff, got)
	}
	if got := svc.retryDelay(100); got != defaultMaxBackoff {
		t.Fatalf("deep attempt: expected cap %s, got %s", defaultMaxBackoff, got)
	}
}
