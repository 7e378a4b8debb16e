package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRepo(t *testing.T) *JobRepository {
	t.Helper()
	repo, err := NewJobRepository(filepath.Join(t.TempDir(), "ocr_output", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestCreateAndFindJob(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	job := entity.NewJob("/videos/talk.mp4", 5, "paddle", false)
	require.NoError(t, repo.Create(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)

	assert.Equal(t, job.ID, found.ID)
	assert.Equal(t, "/videos/talk.mp4", found.VideoPath)
	assert.Equal(t, "paddle", found.Engine)
	assert.Equal(t, 5.0, found.Interval)
	assert.Equal(t, entity.JobStatusCreated, found.Status)
	assert.Empty(t, found.ErrorMessage)
	assert.Nil(t, found.CompletedAt)
	assert.Equal(t, job.CreatedAt.UnixMilli(), found.CreatedAt.UnixMilli())
}

func TestUpdateJobLifecycle(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	job := entity.NewJob("/videos/talk.mp4", 5, "easyocr", false)
	require.NoError(t, repo.Create(ctx, job))

	job.MarkExtracting()
	require.NoError(t, repo.Update(ctx, job))
	job.MarkAggregating(12, 60.0)
	require.NoError(t, repo.Update(ctx, job))
	job.MarkSucceeded(42)
	require.NoError(t, repo.Update(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.JobStatusSucceeded, found.Status)
	assert.Equal(t, 12, found.FrameCount)
	assert.Equal(t, 42, found.UniqueStrings)
	assert.Equal(t, 60.0, found.VideoDuration)
	require.NotNil(t, found.CompletedAt)
	assert.Equal(t, job.CompletedAt.UnixMilli(), found.CompletedAt.UnixMilli())
}

func TestUpdateFailedJobKeepsError(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	job := entity.NewJob("/videos/corrupt.mp4", 5, "paddle", false)
	require.NoError(t, repo.Create(ctx, job))

	job.MarkFailed("extract_frames: moov atom not found")
	require.NoError(t, repo.Update(ctx, job))

	found, err := repo.FindByID(ctx, job.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.JobStatusFailed, found.Status)
	assert.Equal(t, "extract_frames: moov atom not found", found.ErrorMessage)
	assert.Nil(t, found.CompletedAt)
}

func TestFindUnknownJob(t *testing.T) {
	repo := openRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
