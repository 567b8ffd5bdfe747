package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/cartolearn/backend/core/entitlement"
)

type entitlementRepository struct {
	db *entitlementTable
}

var _ entitlement.Repository = (*entitlementRepository)(nil) // interface compliance check

func NewEntitlementRepository(db *DB) *entitlementRepository {
	return &entitlementRepository{db: db.entitlement}
}

func (repo *entitlementRepository) ListActive(ctx context.Context, orgID string) ([]entitlement.Entitlement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var active []entitlement.Entitlement
	for _, ent := range repo.db.table[orgID] {
		if ent.IsActive {
			active = append(active, ent)
		}
	}
	return active, nil
}

// ReplaceAll is trivially atomic here: the whole swap happens under one lock.
func (repo *entitlementRepository) ReplaceAll(ctx context.Context, orgID string, rows []entitlement.Entitlement) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	replacement := make([]entitlement.Entitlement, 0, len(rows))
	for _, ent := range rows {
		ent.ID = uuid.New().String()
		ent.OrgID = orgID
		replacement = append(replacement, ent)
	}
	repo.db.table[orgID] = replacement
	return nil
}
