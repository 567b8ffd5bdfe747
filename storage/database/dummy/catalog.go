package dummydb

import (
	"context"

	"github.com/cartolearn/backend/core/catalog"
)

type catalogRepository struct {
	db *catalogTable
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db.catalog}
}

func (repo *catalogRepository) ListSystems(ctx context.Context) ([]catalog.System, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	systems := make([]catalog.System, len(repo.db.systems))
	copy(systems, repo.db.systems)
	return systems, nil
}

func (repo *catalogRepository) GetSystem(ctx context.Context, id string) (catalog.System, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sys := range repo.db.systems {
		if sys.ID == id {
			return sys, nil
		}
	}
	return catalog.System{}, catalog.ErrSystemNotFound
}

func (repo *catalogRepository) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sys := range repo.db.systems {
		for _, prod := range sys.Products {
			if prod.ID == id {
				return prod, nil
			}
		}
	}
	return catalog.Product{}, catalog.ErrProductNotFound
}

func (repo *catalogRepository) ListLessons(ctx context.Context, productID string) ([]catalog.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, sys := range repo.db.systems {
		for _, prod := range sys.Products {
			if prod.ID == productID {
				lessons := make([]catalog.Lesson, len(prod.Lessons))
				copy(lessons, prod.Lessons)
				return lessons, nil
			}
		}
	}
	return nil, nil
}
