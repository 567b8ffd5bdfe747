package progress

import (
	"context"
	"time"

	"github.com/cartolearn/backend/core/user"
)

type (
	Repository interface {
		// Upsert writes a completion fact; last write wins per (user, lesson) key.
		Upsert(ctx context.Context, rec CompletionRecord) error
		ListForUser(ctx context.Context, userID string) ([]CompletionRecord, error)
	}

	// Tracker records lesson completion facts as users watch lessons.
	Tracker struct {
		repo   Repository
		usrSvc *user.Service
	}
)

func NewTracker(repo Repository, usrSvc *user.Service) *Tracker {
	return &Tracker{repo: repo, usrSvc: usrSvc}
}

// Upsert is idempotent: re-marking an already-completed lesson simply
// refreshes the record.
func (t *Tracker) Upsert(ctx context.Context, userID, lessonID string, completed bool, completedAt time.Time) error {
	if _, err := t.usrSvc.GetByID(ctx, userID); err != nil {
		return err
	}
	return t.repo.Upsert(ctx, CompletionRecord{
		UserID:      userID,
		LessonID:    lessonID,
		Completed:   completed,
		CompletedAt: completedAt.UTC(),
	})
}

// Complete marks a lesson as completed now.
func (t *Tracker) Complete(ctx context.Context, userID, lessonID string) error {
	return t.Upsert(ctx, userID, lessonID, true, time.Now())
}

func (t *Tracker) ListForUser(ctx context.Context, userID string) ([]CompletionRecord, error) {
	if _, err := t.usrSvc.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return t.repo.ListForUser(ctx, userID)
}
