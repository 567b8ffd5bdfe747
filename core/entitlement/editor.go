package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/org"
)

var (
	// errors
	errInvalidSelection = errors.New("invalid selection")
	errUnknownKind      = "unknown grant kind"
	errEmptyTarget      = "target id is required"
	errUnknownSystem    = "system does not exist"
	errUnknownProduct   = "product does not exist"
)

// Editor reconciles a pending selection during interactive editing and
// persists it wholesale. Saves are destructive replace-alls: the previous
// grant set is discarded, not patched.
type Editor struct {
	repo   Repository
	orgSvc *org.Service
	catSvc *catalog.Service
}

func NewEditor(repo Repository, orgSvc *org.Service, catSvc *catalog.Service) *Editor {
	return &Editor{repo: repo, orgSvc: orgSvc, catSvc: catSvc}
}

// CurrentSelection rebuilds the selection matching the organization's
// persisted grants, as the starting point of an editing session.
func (ed *Editor) CurrentSelection(ctx context.Context, orgID string) (*Selection, error) {
	if _, err := ed.orgSvc.GetByID(ctx, orgID); err != nil {
		return nil, err
	}
	rows, err := ed.repo.ListActive(ctx, orgID)
	if err != nil {
		return nil, err
	}
	return SelectionOf(rows), nil
}

// ToggleSystem flips a whole-system key, dropping the per-product keys it subsumes.
func (ed *Editor) ToggleSystem(ctx context.Context, sel *Selection, systemID string) error {
	prods, err := ed.catSvc.ProductsUnder(ctx, systemID)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(prods))
	for _, p := range prods {
		ids = append(ids, p.ID)
	}
	sel.ToggleSystem(systemID, ids)
	return nil
}

// ToggleProduct flips a single-product key, dropping the owning system's key if present.
func (ed *Editor) ToggleProduct(ctx context.Context, sel *Selection, productID string) error {
	prod, err := ed.catSvc.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	sel.ToggleProduct(prod.ID, prod.SystemID)
	return nil
}

// Save validates the whole selection and persists it atomically.
//
// Validation is fail-fast: any malformed or unresolvable key fails the entire
// save with a ValidationError listing every bad entry, and nothing is
// persisted. An empty selection is a deliberate revert to the full-access
// default (see NoGrantsDefault), not an error.
func (ed *Editor) Save(ctx context.Context, orgID string, sel *Selection) error {
	if _, err := ed.orgSvc.GetByID(ctx, orgID); err != nil {
		return err
	}

	keys := sel.Keys()
	fldErrs, err := ed.validate(ctx, keys)
	if err != nil {
		return err
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(errInvalidSelection, fldErrs...)
	}

	now := time.Now().UTC()
	rows := make([]Entitlement, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, Entitlement{
			OrgID:     orgID,
			Kind:      k.Kind,
			TargetID:  k.TargetID,
			IsActive:  true,
			GrantedAt: now,
		})
	}
	return ed.repo.ReplaceAll(ctx, orgID, rows)
}

func (ed *Editor) validate(ctx context.Context, keys []SelectionKey) ([]core.FieldError, error) {
	var fldErrs []core.FieldError
	for i, k := range keys {
		field := fmt.Sprintf("selection[%d]", i)
		if !k.Kind.Valid() {
			fldErrs = append(fldErrs, core.FieldError{Field: field, Error: errUnknownKind})
			continue
		}
		if k.TargetID == "" {
			fldErrs = append(fldErrs, core.FieldError{Field: field, Error: errEmptyTarget})
			continue
		}
		switch k.Kind {
		case KindSystem:
			if _, err := ed.catSvc.GetSystem(ctx, k.TargetID); err != nil {
				if errors.Cause(err) != catalog.ErrSystemNotFound {
					return nil, err
				}
				fldErrs = append(fldErrs, core.FieldError{Field: field, Error: errUnknownSystem})
			}
		case KindProduct:
			if _, err := ed.catSvc.GetProduct(ctx, k.TargetID); err != nil {
				if errors.Cause(err) != catalog.ErrProductNotFound {
					return nil, err
				}
				fldErrs = append(fldErrs, core.FieldError{Field: field, Error: errUnknownProduct})
			}
		}
	}
	return fldErrs, nil
}
