package emails

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/miguelantunes/partnerflow-backend/pkg/db/models"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
)

func setupEmailsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS workflow_emails (
  id TEXT PRIMARY KEY,
  workflow_id TEXT NOT NULL,
  step INTEGER NOT NULL,
  recipient TEXT NOT NULL,
  subject TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  error TEXT,
  sent_at DATETIME,
  created_at DATETIME,
  UNIQUE (workflow_id, step)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newEmailRow(workflowID uuid.UUID, step int) *models.WorkflowEmail {
	return &models.WorkflowEmail{
		WorkflowID: workflowID,
		Step:       step,
		Recipient:  "jamie@example.com",
		Subject:    "Next step in your partnership",
		Status:     enums.WorkflowEmailStatusPending,
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupEmailsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	workflowID := uuid.New()
	row := newEmailRow(workflowID, 2)
	require.NoError(t, repo.Create(ctx, row))
	require.NotEqual(t, uuid.Nil, row.ID)

	found, err := repo.FindByWorkflowStep(ctx, workflowID, 2)
	require.NoError(t, err)
	assert.Equal(t, row.ID, found.ID)
	assert.Equal(t, enums.WorkflowEmailStatusPending, found.Status)

	_, err = repo.FindByWorkflowStep(ctx, workflowID, 3)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryRejectsDuplicateWorkflowStep(t *testing.T) {
	db := setupEmailsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	workflowID := uuid.New()
	require.NoError(t, repo.Create(ctx, newEmailRow(workflowID, 1)))

	err := repo.Create(ctx, newEmailRow(workflowID, 1))
	assert.Error(t, err, "second row for the same workflow step must hit the unique index")

	require.NoError(t, repo.Create(ctx, newEmailRow(workflowID, 2)))
}

func TestRepositoryMarkSentClearsError(t *testing.T) {
	db := setupEmailsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	workflowID := uuid.New()
	row := newEmailRow(workflowID, 4)
	require.NoError(t, repo.Create(ctx, row))
	require.NoError(t, repo.MarkFailed(ctx, row.ID, errors.New("smtp timeout")))

	failed, err := repo.FindByWorkflowStep(ctx, workflowID, 4)
	require.NoError(t, err)
	require.Equal(t, enums.WorkflowEmailStatusFailed, failed.Status)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "smtp timeout", *failed.Error)

	sentAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkSent(ctx, row.ID, sentAt))

	sent, err := repo.FindByWorkflowStep(ctx, workflowID, 4)
	require.NoError(t, err)
	assert.Equal(t, enums.WorkflowEmailStatusSent, sent.Status)
	assert.Nil(t, sent.Error)
	require.NotNil(t, sent.SentAt)
	assert.WithinDuration(t, sentAt, *sent.SentAt, time.Second)
}
