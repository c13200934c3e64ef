package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	pkgerrors "github.com/miguelantunes/partnerflow-backend/pkg/errors"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox/payloads"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service is the partnership workflow engine: stepwise transitions, the
// portal-restricted variant, restart, and coupon attachment.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*WorkflowDTO, error)
	Get(ctx context.Context, workflowID uuid.UUID) (*WorkflowDTO, error)
	GetActiveByInfluencer(ctx context.Context, influencerID uuid.UUID) (*WorkflowDTO, error)
	ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]WorkflowDTO, error)
	Advance(ctx context.Context, input AdvanceInput) (*AdvanceResult, error)
	PortalAdvance(ctx context.Context, input PortalAdvanceInput) (*AdvanceResult, error)
	Restart(ctx context.Context, input RestartInput) (*WorkflowDTO, error)
	AttachCoupon(ctx context.Context, input AttachCouponInput) (*WorkflowDTO, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxEmitter
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the workflow engine with the required dependencies.
func NewService(repo Repository, tx txRunner, emitter outboxEmitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("workflow repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: emitter,
		logg:   logg,
		now:    time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*WorkflowDTO, error) {
	if input.InfluencerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "influencer id required")
	}

	var created *models.PartnershipWorkflow
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		influencer, err := repo.FindInfluencer(ctx, input.InfluencerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "influencer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load influencer")
		}

		if _, err := repo.FindActiveByInfluencer(ctx, input.InfluencerID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "influencer already has an active workflow")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active workflow")
		}

		workflow := &models.PartnershipWorkflow{
			InfluencerID: influencer.ID,
			CurrentStep:  FirstStep,
			Status:       enums.WorkflowStatusActive,
			Version:      1,
		}
		if influencer.Email != "" {
			email := influencer.Email
			workflow.ContactEmail = &email
		}
		if influencer.InstagramHandle != "" {
			handle := influencer.InstagramHandle
			workflow.ContactInstagram = &handle
		}
		if err := repo.Create(ctx, workflow); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create workflow")
		}

		if err := repo.UpdateInfluencerStatus(ctx, influencer.ID, enums.InfluencerStatusNegotiating.String()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update influencer status")
		}

		created = workflow
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithWorkflowID(ctx, created.ID.String())
	s.logg.Info(logCtx, "workflow created")
	return toDTO(created), nil
}

func (s *service) Get(ctx context.Context, workflowID uuid.UUID) (*WorkflowDTO, error) {
	if workflowID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workflow id required")
	}
	workflow, err := s.repo.FindByID(ctx, workflowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "workflow not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow")
	}
	return toDTO(workflow), nil
}

func (s *service) GetActiveByInfluencer(ctx context.Context, influencerID uuid.UUID) (*WorkflowDTO, error) {
	if influencerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "influencer id required")
	}
	workflow, err := s.repo.FindActiveByInfluencer(ctx, influencerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active workflow")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active workflow")
	}
	return toDTO(workflow), nil
}

func (s *service) ListByInfluencer(ctx context.Context, influencerID uuid.UUID) ([]WorkflowDTO, error) {
	if influencerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "influencer id required")
	}
	rows, err := s.repo.ListByInfluencer(ctx, influencerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list workflows")
	}
	dtos := make([]WorkflowDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *toDTO(&rows[i]))
	}
	return dtos, nil
}

// Advance moves the workflow out of its current step. The whole transition
// runs inside one transaction holding a row lock: field updates, validation,
// status sync on the influencer, and the outbox emit commit together or not
// at all.
func (s *service) Advance(ctx context.Context, input AdvanceInput) (*AdvanceResult, error) {
	if input.WorkflowID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workflow id required")
	}

	var result *AdvanceResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		workflow, err := repo.FindByIDForUpdate(ctx, input.WorkflowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "workflow not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow")
		}

		res, err := s.advanceLocked(ctx, tx, repo, workflow, input.Data, false, input.Actor)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PortalAdvance is the influencer-side variant: resolves the token's single
// active workflow, restricts submitted fields to the step's portal list, and
// rejects steps the portal may not advance.
func (s *service) PortalAdvance(ctx context.Context, input PortalAdvanceInput) (*AdvanceResult, error) {
	if input.InfluencerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "influencer identity missing")
	}

	var result *AdvanceResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		workflow, err := repo.FindActiveByInfluencerForUpdate(ctx, input.InfluencerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no active workflow")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active workflow")
		}

		if !PortalCanAdvance(workflow.CurrentStep) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "step cannot be advanced from the portal")
		}

		actor := &outbox.ActorRef{InfluencerID: &input.InfluencerID, Role: "portal"}
		res, err := s.advanceLocked(ctx, tx, repo, workflow, input.Data, true, actor)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) advanceLocked(
	ctx context.Context,
	tx *gorm.DB,
	repo Repository,
	workflow *models.PartnershipWorkflow,
	data *StepData,
	portal bool,
	actor *outbox.ActorRef,
) (*AdvanceResult, error) {
	if workflow.Status != enums.WorkflowStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "workflow is not active").
			WithDetails(map[string]any{"status": workflow.Status})
	}

	cfg, ok := ConfigForStep(workflow.CurrentStep)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("no configuration for step %d", workflow.CurrentStep))
	}

	if data != nil {
		var allowed []string
		if portal {
			allowed = cfg.PortalFields
		}
		applyStepData(workflow, data, allowed)
	}

	// The portal validates only the fields the influencer supplies; admin-side
	// fields like agreedPrice or contractUrl are not required on that path.
	required := cfg.Required
	if portal {
		required = cfg.PortalFields
	}
	if missing := MissingFields(workflow, required); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "step requirements not met").
			WithDetails(map[string]any{
				"step":     cfg.Step,
				"stepName": cfg.Name,
				"missing":  missing,
			})
	}

	now := s.now()
	if slot := workflow.StepCompletedAt(cfg.Step); slot != nil {
		*slot = &now
	}
	workflow.Version++

	influencer, err := repo.FindInfluencer(ctx, workflow.InfluencerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load influencer")
	}

	var (
		message     string
		emailQueued bool
	)

	if cfg.Terminal {
		workflow.Status = enums.WorkflowStatusCompleted
		if err := repo.Save(ctx, workflow); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save workflow")
		}
		if err := repo.UpdateInfluencerStatus(ctx, workflow.InfluencerID, cfg.NextStatus.String()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update influencer status")
		}
		// Completion sends no email.
		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventWorkflowCompleted,
			AggregateType: enums.OutboxAggregateWorkflow,
			AggregateID:   workflow.ID,
			Version:       1,
			Actor:         actor,
			Data: payloads.WorkflowCompletedEvent{
				WorkflowID:   workflow.ID,
				InfluencerID: workflow.InfluencerID,
				CompletedAt:  now,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit completed event")
		}
		message = fmt.Sprintf("Completed %s; workflow finished", cfg.Name)
	} else {
		workflow.CurrentStep = cfg.NextStep
		if err := repo.Save(ctx, workflow); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save workflow")
		}
		if err := repo.UpdateInfluencerStatus(ctx, workflow.InfluencerID, cfg.NextStatus.String()); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update influencer status")
		}

		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventWorkflowStepAdvanced,
			AggregateType: enums.OutboxAggregateWorkflow,
			AggregateID:   workflow.ID,
			Version:       1,
			Actor:         actor,
			Data: payloads.WorkflowStepAdvancedEvent{
				WorkflowID:       workflow.ID,
				InfluencerID:     workflow.InfluencerID,
				CompletedStep:    cfg.Step,
				NextStep:         cfg.NextStep,
				StepName:         cfg.Name,
				InfluencerStatus: cfg.NextStatus.String(),
				Recipient:        recipientFor(workflow, influencer),
				Variables:        buildVariables(workflow, influencer, cfg),
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit step advanced event")
		}
		emailQueued = true
		message = fmt.Sprintf("Advanced from %s to step %d", cfg.Name, cfg.NextStep)
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"workflow_id": workflow.ID.String(),
		"step":        cfg.Step,
		"terminal":    cfg.Terminal,
	})
	s.logg.Info(logCtx, "workflow advanced")

	return &AdvanceResult{
		Workflow:    toDTO(workflow),
		Message:     message,
		EmailQueued: emailQueued,
	}, nil
}

// Restart freezes a finished workflow and spawns a fresh run carrying only
// the negotiated contact details. The boundary is permissive: a workflow
// sitting on step 5 may restart even before its terminal advance.
func (s *service) Restart(ctx context.Context, input RestartInput) (*WorkflowDTO, error) {
	if input.WorkflowID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workflow id required")
	}

	var created *models.PartnershipWorkflow
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		workflow, err := repo.FindByIDForUpdate(ctx, input.WorkflowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "workflow not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow")
		}

		if workflow.CurrentStep < LastStep && workflow.Status != enums.WorkflowStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "workflow has not reached its final step").
				WithDetails(map[string]any{
					"currentStep": workflow.CurrentStep,
					"status":      workflow.Status,
				})
		}
		if workflow.Status == enums.WorkflowStatusRestarted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "workflow was already restarted")
		}

		// Supersede the old run first so the partial unique index on ACTIVE
		// never sees two live rows.
		workflow.Status = enums.WorkflowStatusRestarted
		workflow.Version++
		if err := repo.Save(ctx, workflow); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "supersede workflow")
		}

		next := &models.PartnershipWorkflow{
			InfluencerID:       workflow.InfluencerID,
			CurrentStep:        FirstStep,
			Status:             enums.WorkflowStatusActive,
			Version:            1,
			IsRestarted:        true,
			PreviousWorkflowID: &workflow.ID,
			ContactEmail:       workflow.ContactEmail,
			ContactInstagram:   workflow.ContactInstagram,
			ContactWhatsapp:    workflow.ContactWhatsapp,
		}
		if err := repo.Create(ctx, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create restarted workflow")
		}

		if err := repo.UpdateInfluencerStatus(ctx, workflow.InfluencerID, enums.InfluencerStatusNegotiating.String()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update influencer status")
		}

		event := outbox.DomainEvent{
			EventType:     enums.OutboxEventWorkflowRestarted,
			AggregateType: enums.OutboxAggregateWorkflow,
			AggregateID:   next.ID,
			Version:       1,
			Actor:         input.Actor,
			Data: payloads.WorkflowRestartedEvent{
				PreviousWorkflowID: workflow.ID,
				NewWorkflowID:      next.ID,
				InfluencerID:       workflow.InfluencerID,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit restarted event")
		}

		created = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithWorkflowID(ctx, created.ID.String())
	s.logg.Info(logCtx, "workflow restarted")
	return toDTO(created), nil
}

// AttachCoupon sets or clears the coupon code on a workflow. Deliberately not
// step-gated: coupons get provisioned whenever the commerce side is ready.
func (s *service) AttachCoupon(ctx context.Context, input AttachCouponInput) (*WorkflowDTO, error) {
	if input.WorkflowID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workflow id required")
	}

	var updated *models.PartnershipWorkflow
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		workflow, err := repo.FindByIDForUpdate(ctx, input.WorkflowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "workflow not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load workflow")
		}

		workflow.CouponCode = normalizeOptional(input.CouponCode)
		workflow.Version++
		if err := repo.Save(ctx, workflow); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save workflow")
		}

		if workflow.CouponCode != nil {
			event := outbox.DomainEvent{
				EventType:     enums.OutboxEventCouponAttached,
				AggregateType: enums.OutboxAggregateWorkflow,
				AggregateID:   workflow.ID,
				Version:       1,
				Actor:         input.Actor,
				Data: payloads.CouponAttachedEvent{
					WorkflowID:   workflow.ID,
					InfluencerID: workflow.InfluencerID,
					CouponCode:   *workflow.CouponCode,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit coupon attached event")
			}
		}

		updated = workflow
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDTO(updated), nil
}
