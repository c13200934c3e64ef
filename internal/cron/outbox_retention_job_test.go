package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

type fakeOutboxPurger struct {
	lastCutoff time.Time
	called     int
	err        error
}

func (f *fakeOutboxPurger) PurgePublishedBefore(cutoff time.Time) (int64, error) {
	f.called++
	f.lastCutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return 7, nil
}

func newRetentionJob(t *testing.T, purger *fakeOutboxPurger, retention time.Duration) *outboxRetentionJob {
	t.Helper()
	jobIface, err := NewOutboxRetentionJob(OutboxRetentionJobParams{
		Logger:    logger.New(logger.Options{ServiceName: "test"}),
		Outbox:    purger,
		Retention: retention,
	})
	if err != nil {
		t.Fatalf("NewOutboxRetentionJob: %v", err)
	}
	job, ok := jobIface.(*outboxRetentionJob)
	if !ok {
		t.Fatalf("expected outboxRetentionJob, got %T", jobIface)
	}
	return job
}

func TestOutboxRetentionJobPurgesBeforeCutoff(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	purger := &fakeOutboxPurger{}
	job := newRetentionJob(t, purger, 7*24*time.Hour)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expected := now.Add(-7 * 24 * time.Hour)
	if !purger.lastCutoff.Equal(expected) {
		t.Fatalf("expected cutoff %s, got %s", expected, purger.lastCutoff)
	}
	if purger.called != 1 {
		t.Fatalf("expected one purge, got %d", purger.called)
	}
}

func TestOutboxRetentionJobDefaultsRetention(t *testing.T) {
	job := newRetentionJob(t, &fakeOutboxPurger{}, 0)
	if job.retention != defaultOutboxRetention {
		t.Fatalf("expected default retention, got %s", job.retention)
	}
}

func TestOutboxRetentionJobPropagatesError(t *testing.T) {
	purger := &fakeOutboxPurger{err: errors.New("boom")}
	job := newRetentionJob(t, purger, time.Hour)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
