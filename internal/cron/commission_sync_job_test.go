package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

type fakeCommissionSyncer struct {
	called int
	err    error
}

func (f *fakeCommissionSyncer) SyncCommissions(ctx context.Context) error {
	f.called++
	return f.err
}

func TestCommissionSyncJobRunsSyncer(t *testing.T) {
	syncer := &fakeCommissionSyncer{}
	job, err := NewCommissionSyncJob(CommissionSyncJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Coupons: syncer,
	})
	if err != nil {
		t.Fatalf("NewCommissionSyncJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if syncer.called != 1 {
		t.Fatalf("expected one sync, got %d", syncer.called)
	}
	if job.Name() != "commission-sync" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
}

func TestCommissionSyncJobWrapsError(t *testing.T) {
	syncer := &fakeCommissionSyncer{err: errors.New("provider timeout")}
	job, err := NewCommissionSyncJob(CommissionSyncJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Coupons: syncer,
	})
	if err != nil {
		t.Fatalf("NewCommissionSyncJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
