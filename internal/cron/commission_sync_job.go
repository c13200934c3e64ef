package cron

import (
	"context"
	"fmt"

	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
)

type commissionSyncer interface {
	SyncCommissions(ctx context.Context) error
}

type CommissionSyncJobParams struct {
	Logger  *logger.Logger
	Coupons commissionSyncer
}

func NewCommissionSyncJob(params CommissionSyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	return &commissionSyncJob{
		logg:    params.Logger,
		coupons: params.Coupons,
	}, nil
}

type commissionSyncJob struct {
	logg    *logger.Logger
	coupons commissionSyncer
}

func (j *commissionSyncJob) Name() string { return "commission-sync" }

func (j *commissionSyncJob) Run(ctx context.Context) error {
	if err := j.coupons.SyncCommissions(ctx); err != nil {
		return fmt.Errorf("commission sync: %w", err)
	}
	return nil
}
