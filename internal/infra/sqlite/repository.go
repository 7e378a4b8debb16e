package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/evany413/OCR-compare/internal/domain/entity"
	"github.com/google/uuid"
)

type JobRepository struct {
	db *sql.DB
}

// NewJobRepository opens the history database at path, creating the parent
// directory, file, and schema as needed.
func NewJobRepository(path string) (*JobRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// SQLite allows one writer at a time; a single pooled connection keeps
	// concurrent workers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS processing_jobs (
  id TEXT PRIMARY KEY,
  video_path TEXT NOT NULL,
  engine TEXT NOT NULL,
  interval REAL NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  frame_count INTEGER NOT NULL DEFAULT 0,
  unique_strings INTEGER NOT NULL DEFAULT 0,
  video_duration REAL NOT NULL DEFAULT 0,
  error_message TEXT,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  completed_at INTEGER
);
`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &JobRepository{db: db}, nil
}

func (r *JobRepository) Close() error { return r.db.Close() }

func (r *JobRepository) Create(ctx context.Context, job *entity.Job) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO processing_jobs (
			id, video_path, engine, interval, status, frame_count, unique_strings,
			video_duration, error_message, created_at, updated_at, completed_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		job.ID.String(), job.VideoPath, job.Engine, job.Interval, string(job.Status),
		job.FrameCount, job.UniqueStrings, job.VideoDuration, job.ErrorMessage,
		job.CreatedAt.UnixMilli(), job.UpdatedAt.UnixMilli(), completedMilli(job),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) Update(ctx context.Context, job *entity.Job) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE processing_jobs SET
			status=?, frame_count=?, unique_strings=?, video_duration=?,
			error_message=?, updated_at=?, completed_at=?
		WHERE id=?`,
		string(job.Status), job.FrameCount, job.UniqueStrings, job.VideoDuration,
		job.ErrorMessage, job.UpdatedAt.UnixMilli(), completedMilli(job),
		job.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, video_path, engine, interval, status, frame_count, unique_strings,
			video_duration, error_message, created_at, updated_at, completed_at
		FROM processing_jobs WHERE id=?`,
		id.String(),
	)

	var (
		idStr, videoPath, engine, status string
		interval, videoDuration          float64
		frameCount, uniqueStrings        int
		errorMessage                     sql.NullString
		createdMs, updatedMs             int64
		completedMs                      sql.NullInt64
	)
	if err := row.Scan(&idStr, &videoPath, &engine, &interval, &status, &frameCount,
		&uniqueStrings, &videoDuration, &errorMessage, &createdMs, &updatedMs, &completedMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("find job by id: %w", err)
	}

	parsed, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse job id: %w", err)
	}
	job := &entity.Job{
		ID:            parsed,
		VideoPath:     videoPath,
		Engine:        engine,
		Interval:      interval,
		Status:        entity.JobStatus(status),
		FrameCount:    frameCount,
		UniqueStrings: uniqueStrings,
		VideoDuration: videoDuration,
		CreatedAt:     time.UnixMilli(createdMs).UTC(),
		UpdatedAt:     time.UnixMilli(updatedMs).UTC(),
	}
	if errorMessage.Valid {
		job.ErrorMessage = errorMessage.String
	}
	if completedMs.Valid {
		t := time.UnixMilli(completedMs.Int64).UTC()
		job.CompletedAt = &t
	}
	return job, nil
}

func completedMilli(job *entity.Job) any {
	if job.CompletedAt == nil {
		return nil
	}
	return job.CompletedAt.UnixMilli()
}
