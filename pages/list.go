package pages

import (
	"sync"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/navigator"
	"github.com/goliatone/go-catalog/pkg/signal"
)

// ListPage is the root page listing products and variants. It re-renders on
// every change to either collection.
type ListPage struct {
	app *App

	mu       sync.Mutex
	revision int

	changed *signal.Signal[catalog.Change]
	group   signal.Group
}

func newListPage(a *App) *ListPage {
	l := &ListPage{app: a, changed: signal.New[catalog.Change]()}
	l.group.Add(
		a.store.SubscribeProducts(l.onChange),
		a.store.SubscribeVariants(l.onChange),
	)
	return l
}

func (l *ListPage) onChange(change catalog.Change) {
	l.mu.Lock()
	l.revision++
	l.mu.Unlock()
	l.changed.Emit(change)
}

func (l *ListPage) State() navigator.State {
	return navigator.ViewingList
}

// Dispose releases both store subscriptions.
func (l *ListPage) Dispose() {
	l.group.Close()
}

// Revision counts the store changes the page has seen.
func (l *ListPage) Revision() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}

// Subscribe registers fn to re-render on catalog changes.
func (l *ListPage) Subscribe(fn signal.Listener[catalog.Change]) *signal.Subscription {
	return l.changed.Subscribe(fn)
}

// Products returns the committed products in insertion order.
func (l *ListPage) Products() []*catalog.Product {
	return l.app.store.Products()
}

// Variants returns the committed variants in insertion order.
func (l *ListPage) Variants() []*catalog.Variant {
	return l.app.store.Variants()
}

// ViewProduct opens the edit form for p.
func (l *ListPage) ViewProduct(p *catalog.Product) (*ProductDetailPage, error) {
	return l.app.ViewProduct(p)
}

// ViewVariant opens the edit form for v.
func (l *ListPage) ViewVariant(v *catalog.Variant) (*VariantDetailPage, error) {
	return l.app.ViewVariant(v)
}

// PromptAddProduct opens an empty product form seeded with the defaults.
func (l *ListPage) PromptAddProduct() (*ProductDetailPage, error) {
	return l.app.PromptAddProduct()
}

// PromptAddVariant opens an empty variant form seeded with the defaults.
func (l *ListPage) PromptAddVariant() (*VariantDetailPage, error) {
	return l.app.PromptAddVariant()
}

// PromptRemoveProduct asks for confirmation before removing p.
func (l *ListPage) PromptRemoveProduct(p *catalog.Product) (*DeletionPage, error) {
	return l.app.PromptRemoveProduct(p)
}

// RemoveProduct deletes p without confirmation.
func (l *ListPage) RemoveProduct(p *catalog.Product) error {
	return l.app.store.RemoveProduct(p)
}

// RemoveVariant deletes v and detaches it from every product.
func (l *ListPage) RemoveVariant(v *catalog.Variant) error {
	return l.app.store.RemoveVariant(v)
}
