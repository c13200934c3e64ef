package outbox

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository so claimed-row locks and status updates share
// one transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Insert(tx *gorm.DB, event models.OutboxEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Create(&event).Error
}

// FetchDue claims up to limit pending/failed rows whose next attempt is due.
// SKIP LOCKED keeps concurrent publishers from double-claiming.
func (r *Repository) FetchDue(limit int, now time.Time) ([]models.OutboxEvent, error) {
	var rows []models.OutboxEvent
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status IN ?", []enums.OutboxEventStatus{
			enums.OutboxEventStatusPending,
			enums.OutboxEventStatusFailed,
		}).
		Where("next_attempt_at <= ?", now).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) MarkPublished(id uuid.UUID) error {
	now := time.Now()
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.OutboxEventStatusPublished,
			"published_at": now,
		}).Error
}

func (r *Repository) MarkFailed(id uuid.UUID, attemptErr error, nextAttemptAt time.Time) error {
	return r.db.Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          enums.OutboxEventStatusFailed,
			"last_error":      attemptErr.Error(),
			"attempts":        gorm.Expr("attempts + 1"),
			"next_attempt_at": nextAttemptAt,
		}).Error
}

// MarkTerminal freezes a poison row and copies it into the dead letter table.
func (r *Repository) MarkTerminal(event models.OutboxEvent, reason enums.OutboxDLQErrorReason, lastErr error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OutboxEvent{}).
			Where("id = ?", event.ID).
			Update("status", enums.OutboxEventStatusTerminal).Error; err != nil {
			return err
		}
		var errText *string
		if lastErr != nil {
			msg := lastErr.Error()
			errText = &msg
		}
		dlq := models.OutboxDLQEvent{
			SourceEventID: event.ID,
			EventType:     event.EventType,
			AggregateType: event.AggregateType,
			AggregateID:   event.AggregateID,
			Payload:       event.Payload,
			ErrorReason:   reason,
			LastError:     errText,
			Attempts:      event.Attempts,
		}
		return tx.Create(&dlq).Error
	})
}

// PurgePublishedBefore deletes published rows older than the cutoff and
// returns how many were removed.
func (r *Repository) PurgePublishedBefore(cutoff time.Time) (int64, error) {
	res := r.db.
		Where("status = ?", enums.OutboxEventStatusPublished).
		Where("published_at < ?", cutoff).
		Delete(&models.OutboxEvent{})
	return res.RowsAffected, res.Error
}
