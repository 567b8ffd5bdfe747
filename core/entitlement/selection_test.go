package entitlement

import (
	"testing"
	"time"
)

func TestSelectionToggleSystem(t *testing.T) {
	prods := []string{"p1", "p2"}

	sel := NewSelection()

	// toggle on
	sel.ToggleSystem("s1", prods)
	if !sel.Has(SystemKey("s1")) {
		t.Error("expected system key after toggle on")
	}

	// toggle off
	sel.ToggleSystem("s1", prods)
	if sel.Has(SystemKey("s1")) {
		t.Error("expected no system key after toggle off")
	}
	if !sel.IsEmpty() {
		t.Errorf("expected empty selection, got %d keys", sel.Len())
	}
}

func TestSelectionToggleSystemSubsumesProducts(t *testing.T) {
	prods := []string{"p1", "p2"}

	sel := NewSelection(ProductKey("p1"), ProductKey("p2"), ProductKey("other"))
	sel.ToggleSystem("s1", prods)

	if !sel.Has(SystemKey("s1")) {
		t.Error("expected system key")
	}
	if sel.Has(ProductKey("p1")) || sel.Has(ProductKey("p2")) {
		t.Error("system toggle must drop the product keys it subsumes")
	}
	if !sel.Has(ProductKey("other")) {
		t.Error("products of other systems must survive")
	}
}

func TestSelectionToggleProductDeaggregatesSystem(t *testing.T) {
	sel := NewSelection(SystemKey("s1"))

	sel.ToggleProduct("p1", "s1")
	if sel.Has(SystemKey("s1")) {
		t.Error("product toggle must drop the owning system key")
	}
	if !sel.Has(ProductKey("p1")) {
		t.Error("expected product key")
	}

	// toggle off
	sel.ToggleProduct("p1", "s1")
	if sel.Has(ProductKey("p1")) {
		t.Error("expected no product key after toggle off")
	}
}

func TestSelectionKeysStableOrder(t *testing.T) {
	sel := NewSelection(ProductKey("pz"), SystemKey("sb"), ProductKey("pa"), SystemKey("sa"))

	keys := sel.Keys()
	want := []SelectionKey{SystemKey("sa"), SystemKey("sb"), ProductKey("pa"), ProductKey("pz")}
	if len(keys) != len(want) {
		t.Fatalf("Keys() len = %d, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %v, want %v", i, keys[i], want[i])
		}
	}
}

func TestSelectionOf(t *testing.T) {
	now := time.Now().UTC()
	rows := []Entitlement{
		{OrgID: "o1", Kind: KindSystem, TargetID: "s1", IsActive: true, GrantedAt: now},
		{OrgID: "o1", Kind: KindProduct, TargetID: "p9", IsActive: true, GrantedAt: now},
	}

	sel := SelectionOf(rows)
	if sel.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", sel.Len())
	}
	if !sel.Has(SystemKey("s1")) || !sel.Has(ProductKey("p9")) {
		t.Error("selection must mirror the persisted rows")
	}
}

func TestAccessibleSetContains(t *testing.T) {
	if !NoGrantsDefault.Contains("anything") {
		t.Error("the no-grants default must contain every product")
	}

	set := AccessibleSet{ProductIDs: map[string]struct{}{"p1": {}}}
	if !set.Contains("p1") {
		t.Error("expected p1")
	}
	if set.Contains("p2") {
		t.Error("did not expect p2")
	}
}
