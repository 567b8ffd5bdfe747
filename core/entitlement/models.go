package entitlement

import (
	"sort"
	"time"
)

// Kind tags the target of an entitlement or selection key: a whole System or
// a single Product. It replaces the legacy "sistema-<id>"/"produto-<id>"
// string encoding with an explicit variant.
type Kind string

const (
	KindSystem  Kind = "system"
	KindProduct Kind = "product"
)

func (k Kind) Valid() bool { return k == KindSystem || k == KindProduct }

// Entitlement grants one organization access to an entire System or to a
// single Product. Exactly one of the two targets is named, never both.
type Entitlement struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Kind      Kind      `json:"kind"`
	TargetID  string    `json:"target_id"`
	IsActive  bool      `json:"is_active"`
	GrantedAt time.Time `json:"granted_at"` // UTC
}

// SelectionKey is one tagged entry of a pending selection.
type SelectionKey struct {
	Kind     Kind   `json:"kind"`
	TargetID string `json:"target_id"`
}

func SystemKey(systemID string) SelectionKey {
	return SelectionKey{Kind: KindSystem, TargetID: systemID}
}

func ProductKey(productID string) SelectionKey {
	return SelectionKey{Kind: KindProduct, TargetID: productID}
}

// Selection is the in-progress grant set an admin edits before committing it.
// It is local, single-session state with no persistence until Editor.Save.
//
// Invariant: a selection never simultaneously holds a System key and a
// Product key for a product under that same system. The Toggle methods
// maintain it; Editor.Save relies on it.
type Selection struct {
	keys map[SelectionKey]struct{}
}

func NewSelection(keys ...SelectionKey) *Selection {
	s := &Selection{keys: make(map[SelectionKey]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

// SelectionOf rebuilds the selection matching a persisted grant set.
func SelectionOf(rows []Entitlement) *Selection {
	s := NewSelection()
	for _, row := range rows {
		s.keys[SelectionKey{Kind: row.Kind, TargetID: row.TargetID}] = struct{}{}
	}
	return s
}

func (s *Selection) Has(k SelectionKey) bool {
	_, ok := s.keys[k]
	return ok
}

func (s *Selection) Len() int { return len(s.keys) }

func (s *Selection) IsEmpty() bool { return len(s.keys) == 0 }

// Keys returns the selection in a stable order (systems first, then by target id).
func (s *Selection) Keys() []SelectionKey {
	keys := make([]SelectionKey, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Kind != keys[j].Kind {
			return keys[i].Kind == KindSystem
		}
		return keys[i].TargetID < keys[j].TargetID
	})
	return keys
}

// ToggleSystem adds or removes a whole-system key. Adding it drops every
// product key belonging to that system: a system grant subsumes them.
func (s *Selection) ToggleSystem(systemID string, systemProductIDs []string) {
	key := SystemKey(systemID)
	if s.Has(key) {
		delete(s.keys, key)
		return
	}
	for _, pid := range systemProductIDs {
		delete(s.keys, ProductKey(pid))
	}
	s.keys[key] = struct{}{}
}

// ToggleProduct adds or removes a single-product key. Adding it drops the
// owning system's key if present, de-aggregating the whole-system grant back
// to per-product granularity.
func (s *Selection) ToggleProduct(productID, systemID string) {
	key := ProductKey(productID)
	if s.Has(key) {
		delete(s.keys, key)
		return
	}
	delete(s.keys, SystemKey(systemID))
	s.keys[key] = struct{}{}
}

// AccessibleSet is the resolved set of product ids an organization may view,
// or the All sentinel covering the entire catalog.
type AccessibleSet struct {
	All        bool
	ProductIDs map[string]struct{}
}

// NoGrantsDefault is the access policy applied to an organization with zero
// active entitlement rows: full access to the entire catalog. Absence of
// grants is "all access", not "no access" — do not "fix" this.
var NoGrantsDefault = AccessibleSet{All: true}

func (as AccessibleSet) Contains(productID string) bool {
	if as.All {
		return true
	}
	_, ok := as.ProductIDs[productID]
	return ok
}

func (as AccessibleSet) Len() int { return len(as.ProductIDs) }
