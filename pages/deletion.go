package pages

import (
	"fmt"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/navigator"
)

// DeletionPage asks for confirmation before removing a product.
type DeletionPage struct {
	app     *App
	product *catalog.Product
}

// State is always navigator.ConfirmingDeletion.
func (d *DeletionPage) State() navigator.State {
	return navigator.ConfirmingDeletion
}

// Dispose is a no-op; the page holds no subscriptions.
func (d *DeletionPage) Dispose() {}

// Product is the product pending removal.
func (d *DeletionPage) Product() *catalog.Product {
	return d.product
}

// Name is the product's name as shown in the prompt.
func (d *DeletionPage) Name() string {
	return d.product.Name
}

// Variants returns a copy of the product's variants.
func (d *DeletionPage) Variants() []*catalog.Variant {
	return append([]*catalog.Variant(nil), d.product.Variants...)
}

// HasVariants reports whether the prompt should list variants.
func (d *DeletionPage) HasVariants() bool {
	return d.product.HasVariants()
}

// Header is the confirmation question.
func (d *DeletionPage) Header() string {
	return fmt.Sprintf("Are you sure you want to delete '%s'?", d.product.Name)
}

// Confirm removes the product and returns to the previous page.
func (d *DeletionPage) Confirm() error {
	if err := d.app.ensureCurrent(d); err != nil {
		return err
	}
	if err := d.app.store.RemoveProduct(d.product); err != nil {
		return err
	}
	return d.app.back(d)
}

// Cancel returns to the previous page without removing anything.
func (d *DeletionPage) Cancel() error {
	return d.app.back(d)
}
