package entitlement

import (
	"context"

	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/org"
)

// in-memory fakes shared by the resolver and editor tests

type fakeOrgRepo struct {
	orgs map[string]org.Organization
}

var _ org.Repository = (*fakeOrgRepo)(nil)

func newFakeOrgRepo(ids ...string) *fakeOrgRepo {
	repo := &fakeOrgRepo{orgs: make(map[string]org.Organization, len(ids))}
	for _, id := range ids {
		repo.orgs[id] = org.Organization{ID: id, Name: "Org " + id, IsActive: true}
	}
	return repo
}

func (r *fakeOrgRepo) CheckNameUniqueness(ctx context.Context, name string, excluded ...org.Organization) error {
	return nil
}

func (r *fakeOrgRepo) CreateOrganization(ctx context.Context, o org.Organization) (org.Organization, error) {
	r.orgs[o.ID] = o
	return o, nil
}

func (r *fakeOrgRepo) QueryAllOrganizations(ctx context.Context) ([]org.Organization, error) {
	orgs := make([]org.Organization, 0, len(r.orgs))
	for _, o := range r.orgs {
		orgs = append(orgs, o)
	}
	return orgs, nil
}

func (r *fakeOrgRepo) GetOrganizationByID(ctx context.Context, id string) (org.Organization, error) {
	if o, ok := r.orgs[id]; ok {
		return o, nil
	}
	return org.Organization{}, org.ErrNotFound
}

func (r *fakeOrgRepo) UpdateOrganization(ctx context.Context, o org.Organization, isActive *bool) (org.Organization, error) {
	r.orgs[o.ID] = o
	return o, nil
}

func (r *fakeOrgRepo) DeleteOrganizationsByID(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		delete(r.orgs, id)
	}
	return nil
}

type fakeCatalogRepo struct {
	systems []catalog.System
}

var _ catalog.Repository = (*fakeCatalogRepo)(nil)

func (r *fakeCatalogRepo) ListSystems(ctx context.Context) ([]catalog.System, error) {
	return r.systems, nil
}

func (r *fakeCatalogRepo) GetSystem(ctx context.Context, id string) (catalog.System, error) {
	for _, sys := range r.systems {
		if sys.ID == id {
			return sys, nil
		}
	}
	return catalog.System{}, catalog.ErrSystemNotFound
}

func (r *fakeCatalogRepo) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	for _, sys := range r.systems {
		for _, prod := range sys.Products {
			if prod.ID == id {
				return prod, nil
			}
		}
	}
	return catalog.Product{}, catalog.ErrProductNotFound
}

func (r *fakeCatalogRepo) ListLessons(ctx context.Context, productID string) ([]catalog.Lesson, error) {
	for _, sys := range r.systems {
		for _, prod := range sys.Products {
			if prod.ID == productID {
				return prod.Lessons, nil
			}
		}
	}
	return nil, nil
}

type fakeEntRepo struct {
	rows       map[string][]Entitlement // orgID -> rows
	replaceErr error
}

var _ Repository = (*fakeEntRepo)(nil)

func newFakeEntRepo() *fakeEntRepo {
	return &fakeEntRepo{rows: make(map[string][]Entitlement)}
}

func (r *fakeEntRepo) ListActive(ctx context.Context, orgID string) ([]Entitlement, error) {
	var active []Entitlement
	for _, row := range r.rows[orgID] {
		if row.IsActive {
			active = append(active, row)
		}
	}
	return active, nil
}

func (r *fakeEntRepo) ReplaceAll(ctx context.Context, orgID string, rows []Entitlement) error {
	if r.replaceErr != nil {
		return r.replaceErr // previous rows untouched
	}
	r.rows[orgID] = rows
	return nil
}

// twoSystemCatalog returns:
//
//	s1: p1, p2
//	s2: p3
func twoSystemCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{systems: []catalog.System{
		{ID: "s1", Name: "System One", Order: 1, Products: []catalog.Product{
			{ID: "p1", SystemID: "s1", Name: "Product One", Order: 1},
			{ID: "p2", SystemID: "s1", Name: "Product Two", Order: 2},
		}},
		{ID: "s2", Name: "System Two", Order: 2, Products: []catalog.Product{
			{ID: "p3", SystemID: "s2", Name: "Product Three", Order: 1},
		}},
	}}
}
