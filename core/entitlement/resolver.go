package entitlement

import (
	"context"

	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/org"
)

type (
	Repository interface {
		// ListActive returns the active entitlement rows of one organization.
		ListActive(ctx context.Context, orgID string) ([]Entitlement, error)
		// ReplaceAll atomically deletes the organization's active rows and
		// inserts the given set in a single transaction. On failure the
		// previous rows must remain exactly as they were.
		ReplaceAll(ctx context.Context, orgID string, rows []Entitlement) error
	}

	// Resolver computes the effective accessible-product set of an organization.
	Resolver struct {
		repo   Repository
		orgSvc *org.Service
		catSvc *catalog.Service
	}
)

func NewResolver(repo Repository, orgSvc *org.Service, catSvc *catalog.Service) *Resolver {
	return &Resolver{repo: repo, orgSvc: orgSvc, catSvc: catSvc}
}

// Resolve returns the organization's accessible set: NoGrantsDefault when no
// active rows exist, otherwise the union of all products under every granted
// system plus every directly granted product. Rows naming a system or product
// no longer in the catalog are skipped, never errors.
func (r *Resolver) Resolve(ctx context.Context, orgID string) (AccessibleSet, error) {
	if _, err := r.orgSvc.GetByID(ctx, orgID); err != nil {
		return AccessibleSet{}, err
	}

	rows, err := r.repo.ListActive(ctx, orgID)
	if err != nil {
		return AccessibleSet{}, err
	}
	if len(rows) == 0 {
		return NoGrantsDefault, nil
	}

	systems, err := r.catSvc.ListSystems(ctx)
	if err != nil {
		return AccessibleSet{}, err
	}
	productsBySystem := make(map[string][]string, len(systems))
	knownProducts := make(map[string]struct{})
	for _, sys := range systems {
		ids := make([]string, 0, len(sys.Products))
		for _, p := range sys.Products {
			ids = append(ids, p.ID)
			knownProducts[p.ID] = struct{}{}
		}
		productsBySystem[sys.ID] = ids
	}

	set := make(map[string]struct{})
	for _, row := range rows {
		switch row.Kind {
		case KindSystem:
			for _, pid := range productsBySystem[row.TargetID] {
				set[pid] = struct{}{}
			}
		case KindProduct:
			if _, ok := knownProducts[row.TargetID]; ok {
				set[row.TargetID] = struct{}{}
			}
		}
		// rows of unknown kind are ignored like dangling ones
	}
	return AccessibleSet{ProductIDs: set}, nil
}
