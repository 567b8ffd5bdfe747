package catalog

import (
	"context"
	"errors"
	"sort"
)

var (
	// errors
	ErrSystemNotFound  = errors.New("system not found")
	ErrProductNotFound = errors.New("product not found")
)

type (
	Repository interface {
		// ListSystems returns the full catalog tree. Products whose SystemID
		// does not match any System, and Lessons whose ProductID does not
		// match any Product, are unreachable and must be left out.
		ListSystems(ctx context.Context) ([]System, error)
		GetSystem(ctx context.Context, id string) (System, error)
		GetProduct(ctx context.Context, id string) (Product, error)
		// ListLessons returns the lessons of a single product.
		ListLessons(ctx context.Context, productID string) ([]Lesson, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListSystems returns the catalog tree in display order at every level.
func (svc *Service) ListSystems(ctx context.Context) ([]System, error) {
	systems, err := svc.repo.ListSystems(ctx)
	if err != nil {
		return nil, err
	}
	sortSystems(systems)
	return systems, nil
}

func (svc *Service) GetSystem(ctx context.Context, id string) (System, error) {
	return svc.repo.GetSystem(ctx, id)
}

func (svc *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	return svc.repo.GetProduct(ctx, id)
}

func (svc *Service) ListLessons(ctx context.Context, productID string) ([]Lesson, error) {
	lessons, err := svc.repo.ListLessons(ctx, productID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
	return lessons, nil
}

// ProductsUnder returns the products owned by the given system, in display order.
func (svc *Service) ProductsUnder(ctx context.Context, systemID string) ([]Product, error) {
	sys, err := svc.repo.GetSystem(ctx, systemID)
	if err != nil {
		return nil, err
	}
	prods := make([]Product, len(sys.Products))
	copy(prods, sys.Products)
	sort.SliceStable(prods, func(i, j int) bool { return prods[i].Order < prods[j].Order })
	return prods, nil
}

func sortSystems(systems []System) {
	sort.SliceStable(systems, func(i, j int) bool { return systems[i].Order < systems[j].Order })
	for i := range systems {
		prods := systems[i].Products
		sort.SliceStable(prods, func(a, b int) bool { return prods[a].Order < prods[b].Order })
		for j := range prods {
			lsns := prods[j].Lessons
			sort.SliceStable(lsns, func(a, b int) bool { return lsns[a].Order < lsns[b].Order })
		}
	}
}
