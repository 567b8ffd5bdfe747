package entitlement

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/cartolearn/backend/core"
	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/org"
)

func newTestEditor(entRepo Repository) *Editor {
	orgSvc := org.NewService(newFakeOrgRepo("o1"))
	catSvc := catalog.NewService(twoSystemCatalog())
	return NewEditor(entRepo, orgSvc, catSvc)
}

func TestEditorCurrentSelection(t *testing.T) {
	repo := newFakeEntRepo()
	repo.rows["o1"] = []Entitlement{
		activeRow("o1", KindSystem, "s1"),
		activeRow("o1", KindProduct, "p3"),
	}
	ed := newTestEditor(repo)

	sel, err := ed.CurrentSelection(context.Background(), "o1")
	if err != nil {
		t.Fatalf("CurrentSelection() failed: %v", err)
	}
	if sel.Len() != 2 || !sel.Has(SystemKey("s1")) || !sel.Has(ProductKey("p3")) {
		t.Errorf("unexpected selection: %v", sel.Keys())
	}

	if _, err := ed.CurrentSelection(context.Background(), "nope"); errors.Cause(err) != org.ErrNotFound {
		t.Errorf("CurrentSelection() error = %v, want %v", err, org.ErrNotFound)
	}
}

func TestEditorToggles(t *testing.T) {
	ed := newTestEditor(newFakeEntRepo())
	ctx := context.Background()

	sel := NewSelection(ProductKey("p1"))

	// toggling the owning system swallows p1
	if err := ed.ToggleSystem(ctx, sel, "s1"); err != nil {
		t.Fatalf("ToggleSystem() failed: %v", err)
	}
	if !sel.Has(SystemKey("s1")) || sel.Has(ProductKey("p1")) {
		t.Errorf("unexpected selection after system toggle: %v", sel.Keys())
	}

	// toggling a product under the system de-aggregates it
	if err := ed.ToggleProduct(ctx, sel, "p2"); err != nil {
		t.Fatalf("ToggleProduct() failed: %v", err)
	}
	if sel.Has(SystemKey("s1")) || !sel.Has(ProductKey("p2")) {
		t.Errorf("unexpected selection after product toggle: %v", sel.Keys())
	}

	// unknown targets surface catalog sentinels
	if err := ed.ToggleSystem(ctx, sel, "nope"); errors.Cause(err) != catalog.ErrSystemNotFound {
		t.Errorf("ToggleSystem() error = %v, want %v", err, catalog.ErrSystemNotFound)
	}
	if err := ed.ToggleProduct(ctx, sel, "nope"); errors.Cause(err) != catalog.ErrProductNotFound {
		t.Errorf("ToggleProduct() error = %v, want %v", err, catalog.ErrProductNotFound)
	}
}

func TestEditorSaveRoundTrip(t *testing.T) {
	repo := newFakeEntRepo()
	repo.rows["o1"] = []Entitlement{activeRow("o1", KindSystem, "s2")}
	ed := newTestEditor(repo)
	ctx := context.Background()

	sel := NewSelection(SystemKey("s1"), ProductKey("p3"))
	if err := ed.Save(ctx, "o1", sel); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	// saved rows replace the previous set wholesale
	saved := repo.rows["o1"]
	if len(saved) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(saved))
	}
	for _, row := range saved {
		if row.OrgID != "o1" || !row.IsActive || row.GrantedAt.IsZero() {
			t.Errorf("malformed saved row: %+v", row)
		}
	}

	got, err := ed.CurrentSelection(ctx, "o1")
	if err != nil {
		t.Fatalf("CurrentSelection() failed: %v", err)
	}
	if got.Len() != 2 || !got.Has(SystemKey("s1")) || !got.Has(ProductKey("p3")) {
		t.Errorf("round trip mismatch: %v", got.Keys())
	}
}

func TestEditorSaveEmptySelectionRevertsToDefault(t *testing.T) {
	repo := newFakeEntRepo()
	repo.rows["o1"] = []Entitlement{activeRow("o1", KindSystem, "s1")}
	ed := newTestEditor(repo)
	ctx := context.Background()

	if err := ed.Save(ctx, "o1", NewSelection()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if len(repo.rows["o1"]) != 0 {
		t.Errorf("expected 0 rows, got %d", len(repo.rows["o1"]))
	}

	// and the resolver now reports full access
	r := NewResolver(repo, org.NewService(newFakeOrgRepo("o1")), catalog.NewService(twoSystemCatalog()))
	set, err := r.Resolve(ctx, "o1")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if !set.All {
		t.Error("an emptied grant set must revert to full access")
	}
}

func TestEditorSaveValidation(t *testing.T) {
	tests := []struct {
		name string
		sel  *Selection
		want string // expected field error message
	}{
		{name: "unknown system", sel: NewSelection(SystemKey("nope")), want: errUnknownSystem},
		{name: "unknown product", sel: NewSelection(ProductKey("nope")), want: errUnknownProduct},
		{name: "unknown kind", sel: NewSelection(SelectionKey{Kind: "lol", TargetID: "p1"}), want: errUnknownKind},
		{name: "empty target", sel: NewSelection(SelectionKey{Kind: KindSystem}), want: errEmptyTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEntRepo()
			repo.rows["o1"] = []Entitlement{activeRow("o1", KindSystem, "s1")}
			ed := newTestEditor(repo)

			err := ed.Save(context.Background(), "o1", tt.sel)
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			if !ok {
				t.Fatalf("Save() error = %v, want a ValidationError", err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0].Error != tt.want {
				t.Errorf("unexpected field errors: %+v", vErr.Fields)
			}

			// nothing persisted on a failed save
			if len(repo.rows["o1"]) != 1 || repo.rows["o1"][0].TargetID != "s1" {
				t.Error("failed save must leave the previous rows untouched")
			}
		})
	}
}

func TestEditorSaveMixedValidInvalidFailsWhole(t *testing.T) {
	repo := newFakeEntRepo()
	ed := newTestEditor(repo)

	sel := NewSelection(SystemKey("s1"), ProductKey("nope"))
	err := ed.Save(context.Background(), "o1", sel)
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Fatalf("Save() error = %v, want a ValidationError", err)
	}
	if len(repo.rows["o1"]) != 0 {
		t.Error("a partially invalid selection must persist nothing")
	}
}

func TestEditorSaveReplaceFailureKeepsOldRows(t *testing.T) {
	repo := newFakeEntRepo()
	repo.rows["o1"] = []Entitlement{activeRow("o1", KindSystem, "s1")}
	repo.replaceErr = core.NewStorageError("replacing entitlements", errors.New("boom"))
	ed := newTestEditor(repo)

	err := ed.Save(context.Background(), "o1", NewSelection(ProductKey("p1")))
	if !core.IsStorageError(err) {
		t.Fatalf("Save() error = %v, want a StorageError", err)
	}
	if len(repo.rows["o1"]) != 1 || repo.rows["o1"][0].TargetID != "s1" {
		t.Error("a failed replace must leave the previous rows untouched")
	}
}
