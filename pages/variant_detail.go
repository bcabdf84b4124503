package pages

import (
	"sync"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/form"
	"github.com/goliatone/go-catalog/navigator"
	"github.com/goliatone/go-catalog/pkg/signal"
)

// VariantDetailPage is the variant form used for both creation and editing.
type VariantDetailPage struct {
	app       *App
	variant   *catalog.Variant
	validator *form.Validator

	mu       sync.Mutex
	name     string
	sizeText string
	size     catalog.Size
	color    catalog.Color
	dirty    bool
}

func newVariantDetailPage(a *App, variant *catalog.Variant, name string, size catalog.Size, color catalog.Color) (*VariantDetailPage, error) {
	validator, err := a.newValidator(form.VariantRules())
	if err != nil {
		return nil, err
	}
	return &VariantDetailPage{
		app:       a,
		variant:   variant,
		validator: validator,
		name:      name,
		sizeText:  size.String(),
		size:      size,
		color:     color,
	}, nil
}

func (v *VariantDetailPage) State() navigator.State {
	if v.IsNew() || v.Dirty() {
		return navigator.EditingVariant
	}
	return navigator.ViewingVariant
}

func (v *VariantDetailPage) Dispose() {}

func (v *VariantDetailPage) IsNew() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.variant == nil
}

// Variant returns the edited variant, or the created one after Save.
func (v *VariantDetailPage) Variant() *catalog.Variant {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.variant
}

func (v *VariantDetailPage) Header() string {
	if v.IsNew() {
		return "Variant Creation Form"
	}
	return "Variant Edit Form"
}

// PageDescription is the sentence under the header.
func (v *VariantDetailPage) PageDescription() string {
	if v.IsNew() {
		return "You're currently creating a new product variant. Click save to create the product variant."
	}
	return "You're currently editing an existing product variant. Click save to save changes."
}

func (v *VariantDetailPage) Dirty() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dirty
}

func (v *VariantDetailPage) Name() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.name
}

// SizeText is the free-text size field as typed.
func (v *VariantDetailPage) SizeText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sizeText
}

// Size is the last parseable size entered.
func (v *VariantDetailPage) Size() catalog.Size {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.size
}

func (v *VariantDetailPage) Color() catalog.Color {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.color
}

func (v *VariantDetailPage) SetName(name string) ([]form.ValidationError, error) {
	v.mu.Lock()
	v.name, v.dirty = name, true
	v.mu.Unlock()
	return v.validator.Validate(form.FieldName, name)
}

// SetSizeText records text and, when it names a size, updates Size.
func (v *VariantDetailPage) SetSizeText(text string) ([]form.ValidationError, error) {
	v.mu.Lock()
	v.sizeText, v.dirty = text, true
	if size, err := catalog.ParseSize(text); err == nil {
		v.size = size
	}
	v.mu.Unlock()
	return v.validator.Validate(form.FieldSizeText, text)
}

func (v *VariantDetailPage) SetR(r uint8) { v.setColor(func(c *catalog.Color) { c.R = r }) }
func (v *VariantDetailPage) SetG(g uint8) { v.setColor(func(c *catalog.Color) { c.G = g }) }
func (v *VariantDetailPage) SetB(b uint8) { v.setColor(func(c *catalog.Color) { c.B = b }) }

func (v *VariantDetailPage) setColor(update func(*catalog.Color)) {
	v.mu.Lock()
	update(&v.color)
	v.dirty = true
	v.mu.Unlock()
}

func (v *VariantDetailPage) Errors(field string) []form.ValidationError {
	return v.validator.Errors(field)
}

func (v *VariantDetailPage) CanSave() bool {
	return v.validator.CanSave()
}

func (v *VariantDetailPage) SubscribeGate(fn signal.Listener[bool]) *signal.Subscription {
	return v.validator.SubscribeGate(fn)
}

// Save validates the name and size text, commits the draft and returns to
// the previous page. Nothing is committed while another page covers it.
func (v *VariantDetailPage) Save() error {
	if err := v.app.ensureCurrent(v); err != nil {
		return err
	}
	v.mu.Lock()
	name, sizeText, size, color := v.name, v.sizeText, v.size, v.color
	v.mu.Unlock()

	if _, err := v.validator.Validate(form.FieldName, name); err != nil {
		return err
	}
	if _, err := v.validator.Validate(form.FieldSizeText, sizeText); err != nil {
		return err
	}
	if !v.validator.CanSave() {
		return form.ErrSaveBlocked
	}

	store := v.app.store
	if v.IsNew() {
		variant := catalog.NewVariant(name, size, color)
		v.app.logger.Info("pages: adding variant", "name", name, "size", size.String(), "color", color.Hex())
		if err := store.AddVariant(variant); err != nil {
			return err
		}
		v.mu.Lock()
		v.variant = variant
		v.mu.Unlock()
	} else {
		v.app.logger.Info("pages: editing variant", "variant_id", v.variant.ID, "size", size.String(), "color", color.Hex())
		if err := store.EditVariant(v.variant, name, size, color); err != nil {
			return err
		}
	}
	return v.app.back(v)
}

// Back discards the draft.
func (v *VariantDetailPage) Back() error {
	return v.app.back(v)
}
