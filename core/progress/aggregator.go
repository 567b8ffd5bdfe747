package progress

import (
	"context"
	"fmt"

	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/entitlement"
	"github.com/cartolearn/backend/core/user"
)

// Aggregator builds per-product and overall completion percentages for one
// user, restricted to what their organization is entitled to see.
type Aggregator struct {
	resolver *entitlement.Resolver
	catSvc   *catalog.Service
	repo     Repository
	usrSvc   *user.Service
}

func NewAggregator(resolver *entitlement.Resolver, catSvc *catalog.Service, repo Repository, usrSvc *user.Service) *Aggregator {
	return &Aggregator{resolver: resolver, catSvc: catSvc, repo: repo, usrSvc: usrSvc}
}

// ComputeProgress reports the user's completion counts per accessible product,
// in catalog display order, plus the overall summary.
//
// The overall percentage is computed from the summed lesson counts, not from
// averaging per-product percentages: with products of unequal sizes the
// average skews (1/1 + 0/9 is 10% overall, not 50%).
//
// A product whose lesson lookup fails is degraded to a zeroed entry and noted
// in Report.Warnings instead of aborting the whole report.
func (ag *Aggregator) ComputeProgress(ctx context.Context, orgID, userID string) (Report, error) {
	if _, err := ag.usrSvc.GetByID(ctx, userID); err != nil {
		return Report{}, err
	}

	accessible, err := ag.resolver.Resolve(ctx, orgID)
	if err != nil {
		return Report{}, err
	}

	systems, err := ag.catSvc.ListSystems(ctx)
	if err != nil {
		return Report{}, err
	}

	recs, err := ag.repo.ListForUser(ctx, userID)
	if err != nil {
		return Report{}, err
	}
	completedLessons := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		if rec.Completed {
			completedLessons[rec.LessonID] = struct{}{}
		}
	}

	report := Report{PerProduct: make([]ProductProgress, 0)}
	for _, sys := range systems {
		for _, prod := range sys.Products {
			if !accessible.Contains(prod.ID) {
				continue
			}
			entry := ProductProgress{ProductID: prod.ID, ProductName: prod.Name}

			lessons, err := ag.catSvc.ListLessons(ctx, prod.ID)
			if err != nil {
				// non-fatal: zero the entry and keep going
				report.Warnings = append(report.Warnings, fmt.Sprintf("product %s: %v", prod.ID, err))
				report.PerProduct = append(report.PerProduct, entry)
				continue
			}

			entry.Total = len(lessons)
			for _, lsn := range lessons {
				if _, ok := completedLessons[lsn.ID]; ok {
					entry.Completed++
				}
			}
			entry.Percentage = Percentage(entry.Completed, entry.Total)

			report.PerProduct = append(report.PerProduct, entry)
			report.Overall.Total += entry.Total
			report.Overall.Completed += entry.Completed
		}
	}
	report.Overall.Percentage = Percentage(report.Overall.Completed, report.Overall.Total)
	return report, nil
}
