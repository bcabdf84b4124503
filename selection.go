package catalog

import (
	"sync"

	"github.com/goliatone/go-catalog/pkg/signal"
)

// Reconcile pairs every variant in all, in order, with whether included
// references it. Variants in included that are absent from all are dropped.
func Reconcile(all, included []*Variant) []VariantSelection {
	set := make(map[*Variant]struct{}, len(included))
	for _, v := range included {
		set[v] = struct{}{}
	}
	out := make([]VariantSelection, len(all))
	for i, v := range all {
		_, ok := set[v]
		out[i] = VariantSelection{Variant: v, Selected: ok}
	}
	return out
}

// SelectedVariants returns the selected variants in selection order.
func SelectedVariants(selections []VariantSelection) []*Variant {
	out := make([]*Variant, 0, len(selections))
	for _, sel := range selections {
		if sel.Selected {
			out = append(out, sel.Variant)
		}
	}
	return out
}

// SelectionOption configures a SelectionSet.
type SelectionOption func(*SelectionSet)

// PreserveDraft keeps unsaved toggles for variants that survive a change to
// the catalog's variant list. Without it every change recomputes selections
// from the committed list.
func PreserveDraft() SelectionOption {
	return func(s *SelectionSet) {
		s.preserve = true
	}
}

// SelectionSet is the live selection view of a product draft. It recomputes
// whenever the catalog's variant list changes and must be closed to release
// its store subscription.
type SelectionSet struct {
	mu       sync.Mutex
	store    *Store
	base     []*Variant
	items    []VariantSelection
	preserve bool

	changed *signal.Signal[[]VariantSelection]
	sub     *signal.Subscription
}

// NewSelectionSet derives selections for included against store's variants.
func NewSelectionSet(store *Store, included []*Variant, opts ...SelectionOption) *SelectionSet {
	s := &SelectionSet{
		store:   store,
		base:    append([]*Variant(nil), included...),
		changed: signal.New[[]VariantSelection](),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.items = Reconcile(s.all(), s.base)
	if store != nil {
		s.sub = store.SubscribeVariants(func(Change) { s.reconcile() })
	}
	return s
}

// Items returns a copy of the current selections.
func (s *SelectionSet) Items() []VariantSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]VariantSelection(nil), s.items...)
}

// Set marks v as selected or not. It reports false when v is not listed.
func (s *SelectionSet) Set(v *Variant, selected bool) bool {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].Variant == v {
			s.items[i].Selected = selected
			found = true
			break
		}
	}
	snapshot := append([]VariantSelection(nil), s.items...)
	s.mu.Unlock()
	if found {
		s.changed.Emit(snapshot)
	}
	return found
}

// Selected returns the selected variants in catalog order.
func (s *SelectionSet) Selected() []*Variant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SelectedVariants(s.items)
}

// Subscribe registers fn for selection changes, both user toggles and
// reconciliations.
func (s *SelectionSet) Subscribe(fn signal.Listener[[]VariantSelection]) *signal.Subscription {
	return s.changed.Subscribe(fn)
}

// Close releases the store subscription. Items stay readable.
func (s *SelectionSet) Close() {
	s.sub.Close()
}

func (s *SelectionSet) all() []*Variant {
	if s.store == nil {
		return nil
	}
	return s.store.Variants()
}

func (s *SelectionSet) reconcile() {
	all := s.all()
	s.mu.Lock()
	next := Reconcile(all, s.base)
	if s.preserve {
		prev := make(map[*Variant]bool, len(s.items))
		for _, item := range s.items {
			prev[item.Variant] = item.Selected
		}
		for i := range next {
			if selected, ok := prev[next[i].Variant]; ok {
				next[i].Selected = selected
			}
		}
	}
	s.items = next
	snapshot := append([]VariantSelection(nil), next...)
	s.mu.Unlock()
	s.changed.Emit(snapshot)
}
