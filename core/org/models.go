package org

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cartolearn/backend/core"
)

// Organization is a tenant ("cartório"): it owns users and content entitlements.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewOrganization contains information needed to create a new Organization.
type NewOrganization struct {
	Name string `json:"name" validate:"required"`
}

func (no *NewOrganization) Validate(validate *validator.Validate, svc *Service) error {
	no.Name = core.CleanString(no.Name)

	if err := validate.Struct(no); err != nil {
		return err
	}
	return svc.checkNameUniqueness(no.Name)
}

// UpdateOrganization defines what information may be provided to modify an existing Organization.
type UpdateOrganization struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

func (uo *UpdateOrganization) Validate(validate *validator.Validate, orig Organization, svc *Service) error {
	name := core.CleanString(uo.Name)
	if name != "" {
		uo.Name = name
	} else {
		uo.Name = orig.Name
	}

	if err := validate.Struct(uo); err != nil {
		return err
	}
	if uo.Name != orig.Name {
		return svc.checkNameUniqueness(uo.Name)
	}
	return nil
}
