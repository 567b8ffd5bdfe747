package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/cartolearn/backend/core/org"
)

type orgRepository struct {
	db *orgTable
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *DB) *orgRepository {
	return &orgRepository{db: db.org}
}

func (repo *orgRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...org.Organization) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, o := range repo.db.table {
		if o.Name != name {
			continue
		}
		excl := false
		for _, e := range excluded {
			if e.ID == o.ID {
				excl = true
				break
			}
		}
		if !excl {
			return org.ErrNameExists
		}
	}
	return nil
}

func (repo *orgRepository) CreateOrganization(ctx context.Context, o org.Organization) (org.Organization, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	o.ID = uuid.New().String()
	repo.db.table[o.ID] = &o
	return o, nil
}

func (repo *orgRepository) QueryAllOrganizations(ctx context.Context) ([]org.Organization, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	orgs := make([]org.Organization, 0, len(repo.db.table))
	for _, o := range repo.db.table {
		orgs = append(orgs, *o)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, nil
}

func (repo *orgRepository) GetOrganizationByID(ctx context.Context, id string) (org.Organization, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if o, ok := repo.db.table[id]; ok {
		return *o, nil
	}
	return org.Organization{}, org.ErrNotFound
}

func (repo *orgRepository) UpdateOrganization(ctx context.Context, o org.Organization, isActive *bool) (org.Organization, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[o.ID]
	if !ok {
		return org.Organization{}, org.ErrNotFound
	}
	if o.Name != "" {
		orig.Name = o.Name
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = o.UpdatedAt
	return *orig, nil
}

func (repo *orgRepository) DeleteOrganizationsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
