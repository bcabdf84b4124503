package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-catalog/pkg/activity"
	"github.com/goliatone/go-catalog/pkg/signal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store owns the ordered product and variant collections. All mutations go
// through it so change notification has a single source. Listeners run after
// the mutation completes and may read the store.
type Store struct {
	mu       sync.RWMutex
	products []*Product
	variants []*Variant

	productsChanged *signal.Signal[Change]
	variantsChanged *signal.Signal[Change]

	logger  *slog.Logger
	emitter *activity.Emitter
}

// NewStore constructs an empty catalog.
func NewStore(opts ...Option) *Store {
	cfg := applyOptions(opts)
	return &Store{
		productsChanged: signal.New[Change](),
		variantsChanged: signal.New[Change](),
		logger:          cfg.logger,
		emitter:         cfg.emitter,
	}
}

// Products returns the live products in catalog order. The slice is a copy;
// the entities are shared.
func (s *Store) Products() []*Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Product(nil), s.products...)
}

// Variants returns the live variants in catalog order.
func (s *Store) Variants() []*Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Variant(nil), s.variants...)
}

// Product looks a product up by id.
func (s *Store) Product(id uuid.UUID) (*Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Variant looks a variant up by id.
func (s *Store) Variant(id uuid.UUID) (*Variant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.variants {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

// HasProduct reports whether p is live in the catalog.
func (s *Store) HasProduct(p *Product) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productIndex(p) >= 0
}

// HasVariant reports whether v is live in the catalog.
func (s *Store) HasVariant(v *Variant) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.variantIndex(v) >= 0
}

// SubscribeProducts registers fn for products-changed notifications.
func (s *Store) SubscribeProducts(fn signal.Listener[Change]) *signal.Subscription {
	return s.productsChanged.Subscribe(fn)
}

// SubscribeVariants registers fn for variants-changed notifications.
func (s *Store) SubscribeVariants(fn signal.Listener[Change]) *signal.Subscription {
	return s.variantsChanged.Subscribe(fn)
}

// AddProduct appends p. Its variants must already be in the catalog;
// duplicate references are collapsed.
func (s *Store) AddProduct(p *Product) error {
	if p == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidArgument)
	}
	s.mu.Lock()
	if s.productIndex(p) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: product %s already in catalog", ErrInvalidArgument, p.ID)
	}
	variants, err := s.liveVariants(p.Variants)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Variants = variants
	s.products = append(s.products, p)
	s.mu.Unlock()

	s.logger.Debug("catalog: product added", "product_id", p.ID, "name", p.Name, "variants", len(variants))
	s.productsChanged.Emit(Change{Collection: ProductsCollection, Op: OpAdded, Product: p})
	s.emitProduct(activity.VerbProductCreated, p, nil)
	return nil
}

// AddVariant appends v.
func (s *Store) AddVariant(v *Variant) error {
	if v == nil {
		return fmt.Errorf("%w: variant is nil", ErrInvalidArgument)
	}
	if !v.Size.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSize, v.Size)
	}
	s.mu.Lock()
	if s.variantIndex(v) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: variant %s already in catalog", ErrInvalidArgument, v.ID)
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	s.variants = append(s.variants, v)
	s.mu.Unlock()

	s.logger.Debug("catalog: variant added", "variant_id", v.ID, "name", v.Name, "size", v.Size.String())
	s.variantsChanged.Emit(Change{Collection: VariantsCollection, Op: OpAdded, Variant: v})
	s.emitVariant(activity.VerbVariantCreated, v, nil)
	return nil
}

// EditProduct overwrites every field of p in place, keeping its identity.
func (s *Store) EditProduct(p *Product, name, description string, price decimal.Decimal, isListed bool, variants []*Variant) error {
	if p == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidArgument)
	}
	s.mu.Lock()
	if s.productIndex(p) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: product %s is not in the catalog", ErrInvalidArgument, p.ID)
	}
	live, err := s.liveVariants(variants)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	p.Name, p.Description, p.Price, p.IsListed, p.Variants = name, description, price, isListed, live
	s.mu.Unlock()

	s.logger.Debug("catalog: product edited", "product_id", p.ID, "name", name, "variants", len(live))
	s.productsChanged.Emit(Change{Collection: ProductsCollection, Op: OpEdited, Product: p})
	s.emitProduct(activity.VerbProductUpdated, p, nil)
	return nil
}

// EditVariant overwrites every field of v in place, keeping its identity.
func (s *Store) EditVariant(v *Variant, name string, size Size, color Color) error {
	if v == nil {
		return fmt.Errorf("%w: variant is nil", ErrInvalidArgument)
	}
	if !size.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSize, size)
	}
	s.mu.Lock()
	if s.variantIndex(v) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: variant %s is not in the catalog", ErrInvalidArgument, v.ID)
	}
	v.Name, v.Size, v.Color = name, size, color
	s.mu.Unlock()

	s.logger.Debug("catalog: variant edited", "variant_id", v.ID, "name", name, "size", size.String())
	s.variantsChanged.Emit(Change{Collection: VariantsCollection, Op: OpEdited, Variant: v})
	s.emitVariant(activity.VerbVariantUpdated, v, nil)
	return nil
}

// RemoveProduct deletes p from the catalog.
func (s *Store) RemoveProduct(p *Product) error {
	if p == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidArgument)
	}
	s.mu.Lock()
	idx := s.productIndex(p)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: product %s is not in the catalog", ErrInvalidArgument, p.ID)
	}
	s.products = append(s.products[:idx:idx], s.products[idx+1:]...)
	s.mu.Unlock()

	s.logger.Debug("catalog: product removed", "product_id", p.ID, "name", p.Name)
	s.productsChanged.Emit(Change{Collection: ProductsCollection, Op: OpRemoved, Product: p})
	s.emitProduct(activity.VerbProductDeleted, p, nil)
	return nil
}

// RemoveVariant deletes v from the catalog and from every product's variant
// list. Products-changed fires before variants-changed.
func (s *Store) RemoveVariant(v *Variant) error {
	if v == nil {
		return fmt.Errorf("%w: variant is nil", ErrInvalidArgument)
	}
	s.mu.Lock()
	idx := s.variantIndex(v)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: variant %s is not in the catalog", ErrInvalidArgument, v.ID)
	}
	s.variants = append(s.variants[:idx:idx], s.variants[idx+1:]...)

	var affected []uuid.UUID
	for _, p := range s.products {
		if !p.References(v) {
			continue
		}
		// A fresh slice keeps previously handed out variant lists stable.
		kept := make([]*Variant, 0, len(p.Variants)-1)
		for _, candidate := range p.Variants {
			if candidate != v {
				kept = append(kept, candidate)
			}
		}
		p.Variants = kept
		affected = append(affected, p.ID)
	}
	s.mu.Unlock()

	s.logger.Debug("catalog: variant removed", "variant_id", v.ID, "name", v.Name, "detached_from", len(affected))
	s.productsChanged.Emit(Change{Collection: ProductsCollection, Op: OpDetached, Variant: v, Affected: affected})
	s.variantsChanged.Emit(Change{Collection: VariantsCollection, Op: OpRemoved, Variant: v})
	s.emitVariant(activity.VerbVariantDeleted, v, affected)
	return nil
}

func (s *Store) productIndex(p *Product) int {
	for i, candidate := range s.products {
		if candidate == p {
			return i
		}
	}
	return -1
}

func (s *Store) variantIndex(v *Variant) int {
	for i, candidate := range s.variants {
		if candidate == v {
			return i
		}
	}
	return -1
}

// liveVariants dedups variants and checks each one is in the catalog. Callers
// hold s.mu.
func (s *Store) liveVariants(variants []*Variant) ([]*Variant, error) {
	out := dedupVariants(variants)
	for _, v := range out {
		if s.variantIndex(v) < 0 {
			return nil, fmt.Errorf("%w: variant %s is not in the catalog", ErrInvalidArgument, v.ID)
		}
	}
	return out, nil
}

func (s *Store) emitProduct(verb string, p *Product, affected []uuid.UUID) {
	s.emit(activity.BuildProductEvent(verb, activity.EntityEventInput{
		ID:       p.ID.String(),
		Name:     p.Name,
		Affected: uuidStrings(affected),
	}))
}

func (s *Store) emitVariant(verb string, v *Variant, affected []uuid.UUID) {
	s.emit(activity.BuildVariantEvent(verb, activity.EntityEventInput{
		ID:       v.ID.String(),
		Name:     v.Name,
		Affected: uuidStrings(affected),
	}))
}

func (s *Store) emit(event activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	if err := s.emitter.Emit(context.Background(), event); err != nil {
		s.logger.Warn("catalog: activity hook failed", "verb", event.Verb, "object_id", event.ObjectID, "error", err)
	}
}

func uuidStrings(ids []uuid.UUID) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
