package pages

import (
	"sync"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/form"
	"github.com/goliatone/go-catalog/navigator"
	"github.com/goliatone/go-catalog/pkg/signal"
	"github.com/shopspring/decimal"
)

// ProductDetailPage is the product form used for both creation and editing.
// Field edits stay in the draft until Save.
type ProductDetailPage struct {
	app       *App
	product   *catalog.Product
	validator *form.Validator
	selection *catalog.SelectionSet

	mu          sync.Mutex
	name        string
	description string
	price       decimal.Decimal
	listed      bool
	dirty       bool
	revision    int

	changed *signal.Signal[[]catalog.VariantSelection]
	group   signal.Group
}

func newProductDetailPage(a *App, product *catalog.Product, name, description string, price decimal.Decimal, listed bool, variants []*catalog.Variant) (*ProductDetailPage, error) {
	validator, err := a.newValidator(form.ProductRules())
	if err != nil {
		return nil, err
	}
	p := &ProductDetailPage{
		app:         a,
		product:     product,
		validator:   validator,
		name:        name,
		description: description,
		price:       price,
		listed:      listed,
		changed:     signal.New[[]catalog.VariantSelection](),
	}
	p.selection = catalog.NewSelectionSet(a.store, variants, a.selectionOptions()...)
	p.group.Add(p.selection.Subscribe(p.onSelectionChange))
	return p, nil
}

func (p *ProductDetailPage) onSelectionChange(items []catalog.VariantSelection) {
	p.mu.Lock()
	p.revision++
	p.mu.Unlock()
	p.changed.Emit(items)
}

// State reports editing-product for creation forms and dirty drafts.
func (p *ProductDetailPage) State() navigator.State {
	if p.IsNew() || p.Dirty() {
		return navigator.EditingProduct
	}
	return navigator.ViewingProduct
}

// Dispose drops the catalog subscription held by the selection set.
func (p *ProductDetailPage) Dispose() {
	p.group.Close()
	p.selection.Close()
}

// IsNew reports whether the form creates a product.
func (p *ProductDetailPage) IsNew() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.product == nil
}

// Product returns the edited product, or the created one after Save.
func (p *ProductDetailPage) Product() *catalog.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.product
}

func (p *ProductDetailPage) Header() string {
	if p.IsNew() {
		return "Product Creation Form"
	}
	return "Product Edit Form"
}

// PageDescription is the sentence under the header.
func (p *ProductDetailPage) PageDescription() string {
	if p.IsNew() {
		return "You're currently creating a new product. Click save to create the product."
	}
	return "You're currently editing an existing product. Click save to save changes."
}

// Dirty reports whether the draft changed since the page opened.
func (p *ProductDetailPage) Dirty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dirty
}

// Revision counts selection recomputations and toggles.
func (p *ProductDetailPage) Revision() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revision
}

// Draft returns the unsaved field values.
func (p *ProductDetailPage) Draft() (name, description string, price decimal.Decimal, listed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name, p.description, p.price, p.listed
}

// SetName updates the draft name and returns its validation errors.
func (p *ProductDetailPage) SetName(name string) ([]form.ValidationError, error) {
	p.mu.Lock()
	p.name, p.dirty = name, true
	p.mu.Unlock()
	return p.validator.Validate(form.FieldName, name)
}

func (p *ProductDetailPage) SetDescription(description string) ([]form.ValidationError, error) {
	p.mu.Lock()
	p.description, p.dirty = description, true
	p.mu.Unlock()
	return p.validator.Validate(form.FieldDescription, description)
}

func (p *ProductDetailPage) SetPrice(price decimal.Decimal) ([]form.ValidationError, error) {
	p.mu.Lock()
	p.price, p.dirty = price, true
	p.mu.Unlock()
	return p.validator.Validate(form.FieldPrice, price.String())
}

func (p *ProductDetailPage) SetListed(listed bool) {
	p.mu.Lock()
	p.listed, p.dirty = listed, true
	p.mu.Unlock()
}

// Errors returns the current errors for field.
func (p *ProductDetailPage) Errors(field string) []form.ValidationError {
	return p.validator.Errors(field)
}

// CanSave is the save button gate.
func (p *ProductDetailPage) CanSave() bool {
	return p.validator.CanSave()
}

// SubscribeGate registers fn for changes to CanSave.
func (p *ProductDetailPage) SubscribeGate(fn signal.Listener[bool]) *signal.Subscription {
	return p.validator.SubscribeGate(fn)
}

// Selections returns every catalog variant paired with its draft selection.
func (p *ProductDetailPage) Selections() []catalog.VariantSelection {
	return p.selection.Items()
}

// Subscribe registers fn for selection list changes.
func (p *ProductDetailPage) Subscribe(fn signal.Listener[[]catalog.VariantSelection]) *signal.Subscription {
	return p.changed.Subscribe(fn)
}

// SetSelected toggles v in the draft. It reports false when v is not listed.
func (p *ProductDetailPage) SetSelected(v *catalog.Variant, selected bool) bool {
	if !p.selection.Set(v, selected) {
		return false
	}
	p.mu.Lock()
	p.dirty = true
	p.mu.Unlock()
	return true
}

// NewVariants returns the variants the draft would save.
func (p *ProductDetailPage) NewVariants() []*catalog.Variant {
	return p.selection.Selected()
}

// Save validates every field, commits the draft and returns to the previous
// page. A closed gate yields form.ErrSaveBlocked and keeps the page open; a
// page covered by another one fails with ErrNotCurrent and commits nothing.
func (p *ProductDetailPage) Save() error {
	if err := p.app.ensureCurrent(p); err != nil {
		return err
	}
	name, description, price, listed := p.Draft()
	if err := p.validateAll(name, description, price); err != nil {
		return err
	}
	if !p.validator.CanSave() {
		return form.ErrSaveBlocked
	}

	variants := p.NewVariants()
	store := p.app.store
	if p.IsNew() {
		product := catalog.NewProduct(name, price, description, listed, variants...)
		p.app.logger.Info("pages: adding product", "name", name, "variants", variantIDs(variants))
		if err := store.AddProduct(product); err != nil {
			return err
		}
		p.mu.Lock()
		p.product = product
		p.mu.Unlock()
	} else {
		p.app.logger.Info("pages: editing product", "product_id", p.product.ID, "variants", variantIDs(variants))
		if err := store.EditProduct(p.product, name, description, price, listed, variants); err != nil {
			return err
		}
	}
	return p.app.back(p)
}

func (p *ProductDetailPage) validateAll(name, description string, price decimal.Decimal) error {
	if _, err := p.validator.Validate(form.FieldName, name); err != nil {
		return err
	}
	if _, err := p.validator.Validate(form.FieldDescription, description); err != nil {
		return err
	}
	_, err := p.validator.Validate(form.FieldPrice, price.String())
	return err
}

// Back discards the draft.
func (p *ProductDetailPage) Back() error {
	return p.app.back(p)
}

// PromptAddVariant opens a variant creation form above this one.
func (p *ProductDetailPage) PromptAddVariant() (*VariantDetailPage, error) {
	return p.app.PromptAddVariant()
}

func (p *ProductDetailPage) ViewVariant(v *catalog.Variant) (*VariantDetailPage, error) {
	return p.app.ViewVariant(v)
}

// RemoveVariant deletes v from the catalog immediately; the selection list
// reconciles.
func (p *ProductDetailPage) RemoveVariant(v *catalog.Variant) error {
	return p.app.store.RemoveVariant(v)
}
