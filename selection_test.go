package catalog

import (
	"testing"
)

func TestReconcilePreservesCatalogOrder(t *testing.T) {
	a := NewVariant("A", SizeS, White)
	b := NewVariant("B", SizeM, White)
	c := NewVariant("C", SizeL, White)
	ghost := NewVariant("Ghost", SizeXL, White)

	cases := []struct {
		name     string
		all      []*Variant
		included []*Variant
		want     []bool
	}{
		{name: "empty catalog", all: nil, included: []*Variant{a}, want: []bool{}},
		{name: "none selected", all: []*Variant{a, b, c}, included: nil, want: []bool{false, false, false}},
		{name: "included order ignored", all: []*Variant{a, b, c}, included: []*Variant{c, a}, want: []bool{true, false, true}},
		{name: "orphans dropped", all: []*Variant{b}, included: []*Variant{ghost, b}, want: []bool{true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reconcile(tc.all, tc.included)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d selections, got %d", len(tc.want), len(got))
			}
			for i := range got {
				if got[i].Variant != tc.all[i] {
					t.Fatalf("entry %d does not match catalog order", i)
				}
				if got[i].Selected != tc.want[i] {
					t.Fatalf("entry %d: expected selected=%v", i, tc.want[i])
				}
			}
		})
	}
}

func TestSelectedVariants(t *testing.T) {
	a := NewVariant("A", SizeS, White)
	b := NewVariant("B", SizeM, White)
	got := SelectedVariants([]VariantSelection{{Variant: a}, {Variant: b, Selected: true}})
	if len(got) != 1 || got[0] != b {
		t.Fatalf("unexpected selected variants: %v", got)
	}
}

func TestSelectionSetRecomputesOnVariantChanges(t *testing.T) {
	s := NewStore()
	red := mustAddVariant(t, s, "Red-M", SizeM, RGB(255, 0, 0))
	blue := mustAddVariant(t, s, "Blue-S", SizeS, RGB(0, 0, 255))
	product := mustAddProduct(t, s, "Shirt", red)

	set := NewSelectionSet(s, product.Variants)
	defer set.Close()
	notified := 0
	set.Subscribe(func([]VariantSelection) { notified++ })

	if !set.Set(blue, true) {
		t.Fatalf("expected blue to be selectable")
	}
	if got := set.Selected(); len(got) != 2 {
		t.Fatalf("expected draft toggle applied, got %v", got)
	}

	green := mustAddVariant(t, s, "Green-L", SizeL, RGB(0, 255, 0))

	items := set.Items()
	if len(items) != 3 || items[2].Variant != green {
		t.Fatalf("expected new variant appended in catalog order, got %+v", items)
	}
	if items[0].Selected != true || items[1].Selected != false || items[2].Selected != false {
		t.Fatalf("expected recompute from committed list, got %+v", items)
	}
	if notified != 2 {
		t.Fatalf("expected toggle and reconcile notifications, got %d", notified)
	}

	if err := s.RemoveVariant(red); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := set.Selected(); len(got) != 0 {
		t.Fatalf("removed variant must not stay selected, got %v", got)
	}
}

func TestSelectionSetPreserveDraft(t *testing.T) {
	s := NewStore()
	red := mustAddVariant(t, s, "Red-M", SizeM, RGB(255, 0, 0))
	blue := mustAddVariant(t, s, "Blue-S", SizeS, RGB(0, 0, 255))
	product := mustAddProduct(t, s, "Shirt", red)

	set := NewSelectionSet(s, product.Variants, PreserveDraft())
	defer set.Close()
	set.Set(red, false)
	set.Set(blue, true)

	mustAddVariant(t, s, "Green-L", SizeL, RGB(0, 255, 0))

	items := set.Items()
	if items[0].Selected || !items[1].Selected || items[2].Selected {
		t.Fatalf("expected draft toggles kept and new variant unselected, got %+v", items)
	}
}

func TestSelectionSetCloseReleasesSubscription(t *testing.T) {
	s := NewStore()
	mustAddVariant(t, s, "Red-M", SizeM, White)
	set := NewSelectionSet(s, nil)
	set.Close()
	mustAddVariant(t, s, "Blue-S", SizeS, White)
	if len(set.Items()) != 1 {
		t.Fatalf("closed set must stop reconciling, got %d items", len(set.Items()))
	}
	if set.Set(NewVariant("Ghost", SizeM, White), true) {
		t.Fatalf("unknown variant must not be selectable")
	}
}
