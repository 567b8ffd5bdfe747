package entitlement

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/cartolearn/backend/core/catalog"
	"github.com/cartolearn/backend/core/org"
)

func newTestResolver(entRepo Repository) *Resolver {
	orgSvc := org.NewService(newFakeOrgRepo("o1"))
	catSvc := catalog.NewService(twoSystemCatalog())
	return NewResolver(entRepo, orgSvc, catSvc)
}

func activeRow(orgID string, kind Kind, targetID string) Entitlement {
	return Entitlement{OrgID: orgID, Kind: kind, TargetID: targetID, IsActive: true, GrantedAt: time.Now().UTC()}
}

func TestResolveNoGrantsDefaultsToAll(t *testing.T) {
	r := newTestResolver(newFakeEntRepo())

	set, err := r.Resolve(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if !set.All {
		t.Error("zero active rows must resolve to full access")
	}
}

func TestResolveSystemGrantExpandsToProducts(t *testing.T) {
	repo := newFakeEntRepo()
	repo.rows["o1"] = []Entitlement{activeRow("o1", KindSystem, "s1")}
	r := newTestResolver(repo)

	set, err := r.Resolve(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if set.All {
		t.Fatal("expected a restricted set")
	}
	if set.Len() != 2 || !set.Contains("p1") || !set.Contains("p2") {
		t.Errorf("expected {p1, p2}, got %v", set.ProductIDs)
	}
	if set.Contains("p3") {
		t.Error("p3 belongs to an ungranted system")
	}
}

func TestResolveUnionOfSystemAndProductGrants(t *testing.T) {
	repo := newFakeEntRepo()
	repo.rows["o1"] = []Entitlement{
		activeRow("o1", KindSystem, "s1"),
		activeRow("o1", KindProduct, "p3"),
	}
	r := newTestResolver(repo)

	set, err := r.Resolve(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if set.Len() != 3 {
		t.Errorf("expected 3 products, got %d", set.Len())
	}
	for _, pid := range []string{"p1", "p2", "p3"} {
		if !set.Contains(pid) {
			t.Errorf("expected %s in the set", pid)
		}
	}
}

func TestResolveSkipsDanglingGrants(t *testing.T) {
	repo := newFakeEntRepo()
	repo.rows["o1"] = []Entitlement{
		activeRow("o1", KindSystem, "gone-system"),
		activeRow("o1", KindProduct, "gone-product"),
		activeRow("o1", KindProduct, "p1"),
	}
	r := newTestResolver(repo)

	set, err := r.Resolve(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	// dangling refs are skipped, not errors; and the presence of rows means
	// the no-grants default does not apply
	if set.All {
		t.Fatal("expected a restricted set")
	}
	if set.Len() != 1 || !set.Contains("p1") {
		t.Errorf("expected {p1}, got %v", set.ProductIDs)
	}
}

func TestResolveInactiveRowsIgnored(t *testing.T) {
	repo := newFakeEntRepo()
	row := activeRow("o1", KindSystem, "s1")
	row.IsActive = false
	repo.rows["o1"] = []Entitlement{row}
	r := newTestResolver(repo)

	set, err := r.Resolve(context.Background(), "o1")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if !set.All {
		t.Error("only active rows count; none active means full access")
	}
}

func TestResolveOrgNotFound(t *testing.T) {
	r := newTestResolver(newFakeEntRepo())

	_, err := r.Resolve(context.Background(), "nope")
	if errors.Cause(err) != org.ErrNotFound {
		t.Errorf("Resolve() error = %v, want %v", err, org.ErrNotFound)
	}
}
