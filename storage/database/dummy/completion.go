package dummydb

import (
	"context"

	"github.com/cartolearn/backend/core/progress"
)

type completionRepository struct {
	db *completionTable
}

var _ progress.Repository = (*completionRepository)(nil) // interface compliance check

func NewCompletionRepository(db *DB) *completionRepository {
	return &completionRepository{db: db.completion}
}

func (repo *completionRepository) Upsert(ctx context.Context, rec progress.CompletionRecord) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	// last write wins per (user, lesson) key
	repo.db.table[completionKey{rec.UserID, rec.LessonID}] = rec
	return nil
}

func (repo *completionRepository) ListForUser(ctx context.Context, userID string) ([]progress.CompletionRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var recs []progress.CompletionRecord
	for key, rec := range repo.db.table {
		if key.userID == userID {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}
