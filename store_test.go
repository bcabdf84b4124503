package catalog

import (
	"errors"
	"testing"

	"github.com/goliatone/go-catalog/pkg/activity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func mustAddVariant(t *testing.T, s *Store, name string, size Size, color Color) *Variant {
	t.Helper()
	v := NewVariant(name, size, color)
	if err := s.AddVariant(v); err != nil {
		t.Fatalf("add variant %q: %v", name, err)
	}
	return v
}

func mustAddProduct(t *testing.T, s *Store, name string, variants ...*Variant) *Product {
	t.Helper()
	p := NewProduct(name, decimal.RequireFromString("19.99"), name+" description", true, variants...)
	if err := s.AddProduct(p); err != nil {
		t.Fatalf("add product %q: %v", name, err)
	}
	return p
}

type changeLog struct {
	entries []Change
}

func (l *changeLog) record(c Change) {
	l.entries = append(l.entries, c)
}

func TestAddNotifiesCollections(t *testing.T) {
	s := NewStore()
	products := &changeLog{}
	variants := &changeLog{}
	s.SubscribeProducts(products.record)
	s.SubscribeVariants(variants.record)

	v := mustAddVariant(t, s, "Red-M", SizeM, RGB(255, 0, 0))
	p := mustAddProduct(t, s, "Shirt", v)

	if len(variants.entries) != 1 || variants.entries[0].Op != OpAdded || variants.entries[0].Variant != v {
		t.Fatalf("unexpected variant changes: %+v", variants.entries)
	}
	if len(products.entries) != 1 || products.entries[0].Op != OpAdded || products.entries[0].Product != p {
		t.Fatalf("unexpected product changes: %+v", products.entries)
	}
	if got := s.Products(); len(got) != 1 || got[0] != p {
		t.Fatalf("expected product in catalog, got %v", got)
	}
	if found, ok := s.Product(p.ID); !ok || found != p {
		t.Fatalf("expected lookup by id to return the same reference")
	}
	if found, ok := s.Variant(v.ID); !ok || found != v {
		t.Fatalf("expected variant lookup by id to return the same reference")
	}
	if _, ok := s.Product(uuid.New()); ok {
		t.Fatalf("unexpected lookup hit for unknown id")
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	s := NewStore()
	if err := s.AddProduct(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for nil product, got %v", err)
	}
	if err := s.AddVariant(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for nil variant, got %v", err)
	}
	if err := s.AddVariant(NewVariant("Bad", Size(42), White)); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected invalid size, got %v", err)
	}

	orphan := NewVariant("Orphan", SizeS, White)
	if err := s.AddProduct(NewProduct("Hat", decimal.Zero, "desc", true, orphan)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected unknown variant to be rejected, got %v", err)
	}
	if len(s.Products()) != 0 {
		t.Fatalf("rejected product must not be stored")
	}

	v := mustAddVariant(t, s, "Blue-S", SizeS, RGB(0, 0, 255))
	if err := s.AddVariant(v); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected duplicate variant to be rejected, got %v", err)
	}
	p := mustAddProduct(t, s, "Cap", v, v)
	if len(p.Variants) != 1 {
		t.Fatalf("expected duplicate references collapsed, got %d", len(p.Variants))
	}
	if err := s.AddProduct(p); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected duplicate product to be rejected, got %v", err)
	}
}

func TestEditProductPreservesIdentity(t *testing.T) {
	s := NewStore()
	red := mustAddVariant(t, s, "Red-M", SizeM, RGB(255, 0, 0))
	blue := mustAddVariant(t, s, "Blue-L", SizeL, RGB(0, 0, 255))
	p := mustAddProduct(t, s, "Shirt", red)
	held := p
	products := &changeLog{}
	s.SubscribeProducts(products.record)

	err := s.EditProduct(p, "Polo", "Cotton polo", decimal.RequireFromString("24.50"), false, []*Variant{blue})
	if err != nil {
		t.Fatalf("edit product: %v", err)
	}

	if held != s.Products()[0] {
		t.Fatalf("expected edit to keep the same reference")
	}
	if held.Name != "Polo" || held.Description != "Cotton polo" || held.IsListed {
		t.Fatalf("fields not overwritten: %+v", held)
	}
	if !held.Price.Equal(decimal.RequireFromString("24.50")) {
		t.Fatalf("price not overwritten: %s", held.Price)
	}
	if len(held.Variants) != 1 || held.Variants[0] != blue {
		t.Fatalf("variants not overwritten: %v", held.Variants)
	}
	if len(products.entries) != 1 || products.entries[0].Op != OpEdited || products.entries[0].Product != p {
		t.Fatalf("expected one edited notification, got %+v", products.entries)
	}
}

func TestEditRejectsEntitiesOutsideCatalog(t *testing.T) {
	s := NewStore()
	stray := NewProduct("Stray", decimal.Zero, "desc", true)
	if err := s.EditProduct(stray, "x", "y", decimal.Zero, true, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if stray.Name != "Stray" {
		t.Fatalf("rejected edit must not mutate the product")
	}
	if err := s.EditVariant(NewVariant("Stray", SizeM, White), "x", SizeM, White); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	p := mustAddProduct(t, s, "Shirt")
	if err := s.EditProduct(p, "Shirt", "d", decimal.Zero, true, []*Variant{NewVariant("Ghost", SizeM, White)}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected unknown variant reference to be rejected, got %v", err)
	}
}

func TestEditVariantInPlace(t *testing.T) {
	s := NewStore()
	v := mustAddVariant(t, s, "Red-M", SizeM, RGB(255, 0, 0))
	p := mustAddProduct(t, s, "Shirt", v)
	variants := &changeLog{}
	s.SubscribeVariants(variants.record)

	if err := s.EditVariant(v, "Green-XL", SizeXL, RGB(0, 255, 0)); err != nil {
		t.Fatalf("edit variant: %v", err)
	}
	if p.Variants[0].Name != "Green-XL" || p.Variants[0].Size != SizeXL || p.Variants[0].Color != RGB(0, 255, 0) {
		t.Fatalf("product should observe edited variant, got %+v", p.Variants[0])
	}
	if len(variants.entries) != 1 || variants.entries[0].Op != OpEdited {
		t.Fatalf("expected edited notification, got %+v", variants.entries)
	}
	if err := s.EditVariant(v, "Bad", Size(-1), White); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("expected invalid size, got %v", err)
	}
}

func TestRemoveProduct(t *testing.T) {
	s := NewStore()
	a := mustAddProduct(t, s, "A")
	b := mustAddProduct(t, s, "B")
	c := mustAddProduct(t, s, "C")
	products := &changeLog{}
	s.SubscribeProducts(products.record)

	if err := s.RemoveProduct(b); err != nil {
		t.Fatalf("remove product: %v", err)
	}
	got := s.Products()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Fatalf("unexpected remaining products: %v", got)
	}
	if len(products.entries) != 1 || products.entries[0].Op != OpRemoved || products.entries[0].Product != b {
		t.Fatalf("expected removed notification, got %+v", products.entries)
	}
	if err := s.RemoveProduct(b); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected second removal to fail, got %v", err)
	}
}

func TestRemoveVariantCascadesBeforeNotifying(t *testing.T) {
	s := NewStore()
	red := mustAddVariant(t, s, "Red-M", SizeM, RGB(255, 0, 0))
	blue := mustAddVariant(t, s, "Blue-S", SizeS, RGB(0, 0, 255))
	shirt := mustAddProduct(t, s, "Shirt", red, blue)
	hat := mustAddProduct(t, s, "Hat", red)
	plain := mustAddProduct(t, s, "Plain", blue)
	heldList := shirt.Variants

	var order []string
	s.SubscribeProducts(func(c Change) {
		order = append(order, "products:"+c.Op.String())
		if hat.References(red) {
			t.Fatalf("products must be detached before products-changed fires")
		}
		if len(c.Affected) != 2 || c.Affected[0] != shirt.ID || c.Affected[1] != hat.ID {
			t.Fatalf("unexpected affected products: %v", c.Affected)
		}
	})
	s.SubscribeVariants(func(c Change) {
		order = append(order, "variants:"+c.Op.String())
		if s.HasVariant(red) {
			t.Fatalf("variant must be gone before variants-changed fires")
		}
	})

	if err := s.RemoveVariant(red); err != nil {
		t.Fatalf("remove variant: %v", err)
	}

	if len(order) != 2 || order[0] != "products:detached" || order[1] != "variants:removed" {
		t.Fatalf("unexpected notification order: %v", order)
	}
	for _, p := range s.Products() {
		if p.References(red) {
			t.Fatalf("product %q still references removed variant", p.Name)
		}
	}
	if len(shirt.Variants) != 1 || shirt.Variants[0] != blue {
		t.Fatalf("unexpected shirt variants: %v", shirt.Variants)
	}
	if len(plain.Variants) != 1 {
		t.Fatalf("unrelated product should keep its variants")
	}
	if len(heldList) != 2 || heldList[0] != red {
		t.Fatalf("lists handed out before removal must stay stable, got %v", heldList)
	}
	if err := s.RemoveVariant(red); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected second removal to fail, got %v", err)
	}
}

func TestUnsubscribedListenerStopsReceiving(t *testing.T) {
	s := NewStore()
	calls := 0
	sub := s.SubscribeVariants(func(Change) { calls++ })
	mustAddVariant(t, s, "One", SizeM, White)
	sub.Close()
	mustAddVariant(t, s, "Two", SizeM, White)
	if calls != 1 {
		t.Fatalf("expected one notification, got %d", calls)
	}
}

func TestStoreEmitsActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	emitter := activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true})
	s := NewStore(WithActivity(emitter))

	v := mustAddVariant(t, s, "Red-M", SizeM, RGB(255, 0, 0))
	p := mustAddProduct(t, s, "Shirt", v)
	if err := s.EditProduct(p, "Shirt", "d", decimal.Zero, true, nil); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := s.EditVariant(v, "Red-L", SizeL, v.Color); err != nil {
		t.Fatalf("edit variant: %v", err)
	}
	if err := s.RemoveVariant(v); err != nil {
		t.Fatalf("remove variant: %v", err)
	}
	if err := s.RemoveProduct(p); err != nil {
		t.Fatalf("remove product: %v", err)
	}

	want := []string{
		activity.VerbVariantCreated,
		activity.VerbProductCreated,
		activity.VerbProductUpdated,
		activity.VerbVariantUpdated,
		activity.VerbVariantDeleted,
		activity.VerbProductDeleted,
	}
	got := capture.Verbs()
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if capture.Events[1].ObjectID != p.ID.String() {
		t.Fatalf("expected product id as object id, got %q", capture.Events[1].ObjectID)
	}
	if capture.Events[0].Channel != activity.DefaultChannel {
		t.Fatalf("expected default channel, got %q", capture.Events[0].Channel)
	}
}

func TestStoreToleratesFailingActivityHook(t *testing.T) {
	hook := &activity.CaptureHook{Err: errors.New("sink down")}
	s := NewStore(WithActivity(activity.NewEmitter(activity.Hooks{hook}, activity.Config{Enabled: true})))
	if err := s.AddVariant(NewVariant("Red-M", SizeM, White)); err != nil {
		t.Fatalf("hook failure must not fail the mutation: %v", err)
	}
	if len(s.Variants()) != 1 {
		t.Fatalf("expected variant stored")
	}
}

func TestEndToEndScenario(t *testing.T) {
	s := NewStore()

	red := NewVariant("Red-M", SizeM, RGB(255, 0, 0))
	if err := s.AddVariant(red); err != nil {
		t.Fatalf("add variant: %v", err)
	}
	shirt := NewProduct("Shirt", decimal.RequireFromString("19.99"), "A shirt", true, red)
	if err := s.AddProduct(shirt); err != nil {
		t.Fatalf("add product: %v", err)
	}

	if err := s.EditProduct(shirt, shirt.Name, shirt.Description, shirt.Price, shirt.IsListed, nil); err != nil {
		t.Fatalf("edit product: %v", err)
	}
	if len(shirt.Variants) != 0 {
		t.Fatalf("expected no variants after unselecting, got %v", shirt.Variants)
	}

	if err := s.RemoveVariant(red); err != nil {
		t.Fatalf("remove variant: %v", err)
	}
	if len(s.Variants()) != 0 {
		t.Fatalf("expected empty variant collection")
	}
	for _, p := range s.Products() {
		if p.References(red) {
			t.Fatalf("product %q references removed variant", p.Name)
		}
	}
}
