package org

import (
	"context"
	"errors"
	"time"

	"github.com/cartolearn/backend/core"
)

var (
	// errors
	ErrNotFound   = errors.New("organization not found")
	ErrNameExists = errors.New("an organization with this name already exists")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excluded ...Organization) error
		CreateOrganization(ctx context.Context, o Organization) (Organization, error)
		QueryAllOrganizations(ctx context.Context) ([]Organization, error)
		GetOrganizationByID(ctx context.Context, id string) (Organization, error)
		UpdateOrganization(ctx context.Context, o Organization, isActive *bool) (Organization, error)
		DeleteOrganizationsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkNameUniqueness(name string, excluded ...Organization) error {
	if err := svc.repo.CheckNameUniqueness(context.Background(), name, excluded...); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, no NewOrganization) (Organization, error) {
	now := time.Now().UTC()
	o := Organization{
		Name:      no.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateOrganization(ctx, o)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Organization, error) {
	return svc.repo.QueryAllOrganizations(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Organization, error) {
	return svc.repo.GetOrganizationByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uo UpdateOrganization) (Organization, error) {
	o := Organization{
		ID:        id,
		Name:      uo.Name,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateOrganization(ctx, o, uo.IsActive)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteOrganizationsByID(ctx, ids...)
}
