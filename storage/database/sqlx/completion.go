package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/progress"
)

type completionRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*completionRepository)(nil) // interface compliance check

func NewCompletionRepository(db *sqlx.DB) *completionRepository {
	return &completionRepository{db: db}
}

type completionRow struct {
	UserID      string    `db:"user_id"`
	LessonID    string    `db:"lesson_id"`
	Completed   bool      `db:"completed"`
	CompletedAt time.Time `db:"completed_at"`
}

// Upsert relies on the (user_id, lesson_id) primary key: the same pair never
// yields two rows, later writes overwrite.
func (repo *completionRepository) Upsert(ctx context.Context, rec progress.CompletionRecord) error {
	if _, err := repo.db.ExecContext(ctx,
		`INSERT INTO completion (user_id, lesson_id, completed, completed_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, lesson_id)
		 DO UPDATE SET completed = EXCLUDED.completed, completed_at = EXCLUDED.completed_at`,
		rec.UserID, rec.LessonID, rec.Completed, rec.CompletedAt.UTC()); err != nil {
		return core.NewStorageError("upserting completion", err)
	}
	return nil
}

func (repo *completionRepository) ListForUser(ctx context.Context, userID string) ([]progress.CompletionRecord, error) {
	var rows []completionRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT user_id, lesson_id, completed, completed_at
		   FROM completion WHERE user_id = $1`, userID); err != nil {
		return nil, core.NewStorageError("querying completions", err)
	}

	recs := make([]progress.CompletionRecord, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, progress.CompletionRecord{
			UserID:      row.UserID,
			LessonID:    row.LessonID,
			Completed:   row.Completed,
			CompletedAt: row.CompletedAt,
		})
	}
	return recs, nil
}
