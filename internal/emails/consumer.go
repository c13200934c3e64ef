package emails

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/miguelantunes/partnerflow-backend/pkg/db"
	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
	"github.com/miguelantunes/partnerflow-backend/pkg/logger"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox"
	"github.com/miguelantunes/partnerflow-backend/pkg/outbox/payloads"
)

// Consumer watches the workflow event subscription and delivers step
// notification emails. Each (workflow, step) pair is sent at most once; the
// unique index on workflow_emails backs the dedup under redelivery.
type Consumer struct {
	repo         Repository
	sender       Sender
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

func NewConsumer(repo Repository, sender Sender, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, errors.New("email repository is required")
	}
	if sender == nil {
		return nil, errors.New("sender is required")
	}
	if subscription == nil {
		return nil, errors.New("email subscription is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		repo:         repo,
		sender:       sender,
		subscription: subscription,
		logg:         logg,
	}, nil
}

type processResult struct {
	ack  bool
	nack bool
}

// Run processes workflow events until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	if eventType != enums.OutboxEventWorkflowStepAdvanced.String() {
		// Completion, restart and coupon events carry no email.
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal envelope", err)
		return processResult{ack: true}
	}

	var event payloads.WorkflowStepAdvancedEvent
	if err := json.Unmarshal(envelope.Data, &event); err != nil {
		c.logg.Error(logCtx, "failed to unmarshal step event", err)
		return processResult{ack: true}
	}
	if event.Recipient == "" {
		c.logg.Warn(logCtx, "step event has no recipient; skipping")
		return processResult{ack: true}
	}

	logCtx = c.logg.WithWorkflowID(logCtx, event.WorkflowID.String())
	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"completed_step": event.CompletedStep,
		"recipient":      event.Recipient,
	})

	tpl := TemplateForStep(event.CompletedStep)
	subject, body := tpl.Render(event.Variables)

	row, err := c.repo.FindByWorkflowStep(ctx, event.WorkflowID, event.CompletedStep)
	switch {
	case err == nil:
		if row.Status == enums.WorkflowEmailStatusSent {
			c.logg.Info(logCtx, "step email already sent; skipping")
			return processResult{ack: true}
		}
		// A previous attempt recorded the row but never delivered; retry.
	case db.IsNotFound(err):
		row = &models.WorkflowEmail{
			WorkflowID: event.WorkflowID,
			Step:       event.CompletedStep,
			Recipient:  event.Recipient,
			Subject:    subject,
			Status:     enums.WorkflowEmailStatusPending,
		}
		if createErr := c.repo.Create(ctx, row); createErr != nil {
			if db.IsUniqueViolation(createErr) {
				// Concurrent delivery claimed this step first.
				c.logg.Info(logCtx, "step email claimed by another worker; skipping")
				return processResult{ack: true}
			}
			c.logg.Error(logCtx, "failed to record step email", createErr)
			return processResult{nack: true}
		}
	default:
		c.logg.Error(logCtx, "failed to load step email", err)
		return processResult{nack: true}
	}

	if err := c.sender.Send(ctx, row.Recipient, subject, body); err != nil {
		c.logg.Error(logCtx, "failed to send step email", err)
		if markErr := c.repo.MarkFailed(ctx, row.ID, err); markErr != nil {
			c.logg.Error(logCtx, "failed to mark email failed", markErr)
		}
		return processResult{nack: true}
	}

	if err := c.repo.MarkSent(ctx, row.ID, time.Now()); err != nil {
		c.logg.Error(logCtx, "failed to mark email sent", fmt.Errorf("mark sent: %w", err))
		// The mail went out; redelivery would dedup on the SENT row anyway.
	}
	c.logg.Info(logCtx, "step email delivered")
	return processResult{ack: true}
}
