package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/cartolearn/backend/core/progress"
	"github.com/cartolearn/backend/core/user"
	"github.com/cartolearn/backend/services/email"
	"github.com/cartolearn/backend/storage/database/dummy"
	"github.com/cartolearn/backend/tests"
)

func setupTracker(t *testing.T) (*progress.Tracker, progress.Repository, user.User) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, emailsvc.NewConsoleServiceMock())
	usr := testutil.CreateUser(t, usrRepo, "Learner", "learner", "learner@test.cd", "pwd", "", false, true)

	repo := dummydb.NewCompletionRepository(db)
	return progress.NewTracker(repo, usrSvc), repo, usr
}

func TestTrackerUpsertIsIdempotent(t *testing.T) {
	tracker, _, usr := setupTracker(t)
	ctx := context.Background()

	if err := tracker.Complete(ctx, usr.ID, "lesson-1"); err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}
	// marking the same lesson again refreshes, never duplicates
	if err := tracker.Complete(ctx, usr.ID, "lesson-1"); err != nil {
		t.Fatalf("Complete() failed: %v", err)
	}

	recs, err := tracker.ListForUser(ctx, usr.ID)
	if err != nil {
		t.Fatalf("ListForUser() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if !recs[0].Completed {
		t.Error("expected a completed record")
	}
}

func TestTrackerUpsertLastWriteWins(t *testing.T) {
	tracker, _, usr := setupTracker(t)
	ctx := context.Background()

	early := time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)
	late := time.Date(2026, time.February, 20, 18, 30, 0, 0, time.UTC)

	if err := tracker.Upsert(ctx, usr.ID, "lesson-1", true, early); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}
	if err := tracker.Upsert(ctx, usr.ID, "lesson-1", false, late); err != nil {
		t.Fatalf("Upsert() failed: %v", err)
	}

	recs, err := tracker.ListForUser(ctx, usr.ID)
	if err != nil {
		t.Fatalf("ListForUser() failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Completed {
		t.Error("the later write must win")
	}
	if !recs[0].CompletedAt.Equal(late) {
		t.Errorf("CompletedAt = %v, want %v", recs[0].CompletedAt, late)
	}
}

func TestTrackerUnknownUser(t *testing.T) {
	tracker, _, _ := setupTracker(t)

	err := tracker.Complete(context.Background(), "nope", "lesson-1")
	if errors.Cause(err) != user.ErrNotFound {
		t.Errorf("Complete() error = %v, want %v", err, user.ErrNotFound)
	}
}
