// Package pages wires the catalog store, selection sets, validators and the
// page navigator into the controllers a UI shell renders. The shell shows
// whatever App.Current returns and forwards user commands to it.
package pages

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/form"
	"github.com/goliatone/go-catalog/navigator"
	"github.com/goliatone/go-catalog/pkg/signal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotCurrent indicates a page command that navigates back was issued by a
// page that is not on top of the stack.
var ErrNotCurrent = errors.New("pages: page is not current")

// Defaults seeds creation forms.
type Defaults struct {
	ProductPrice  decimal.Decimal
	ProductListed bool
	VariantSize   catalog.Size
	VariantColor  catalog.Color
}

// DefaultDefaults returns the stock creation values: price 20.99, listed, size
// M, white.
func DefaultDefaults() Defaults {
	return Defaults{
		ProductPrice:  decimal.RequireFromString("20.99"),
		ProductListed: true,
		VariantSize:   catalog.SizeM,
		VariantColor:  catalog.White,
	}
}

// Option configures an App.
type Option func(*App)

// WithDefaults overrides the creation defaults.
func WithDefaults(defaults Defaults) Option {
	return func(a *App) {
		a.defaults = defaults
	}
}

// WithLogger sets the logger shared by the app and its navigator.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithFormOptions forwards options to every page validator, for example
// form.WithEngine(form.EngineCEL).
func WithFormOptions(opts ...form.Option) Option {
	return func(a *App) {
		a.formOpts = append(a.formOpts, opts...)
	}
}

// WithPreserveSelections keeps unsaved variant toggles across catalog
// changes on open product forms.
func WithPreserveSelections(preserve bool) Option {
	return func(a *App) {
		a.preserve = preserve
	}
}

// App owns the navigator and the root list page.
type App struct {
	store    *catalog.Store
	nav      *navigator.Navigator
	list     *ListPage
	defaults Defaults
	logger   *slog.Logger
	formOpts []form.Option
	preserve bool
}

// New builds the app around store with the list page as root. Rule sets are
// compiled once up front so a bad engine choice fails here.
func New(store *catalog.Store, opts ...Option) (*App, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is nil", catalog.ErrInvalidArgument)
	}
	a := &App{
		store:    store,
		defaults: DefaultDefaults(),
		logger:   slog.New(slog.DiscardHandler),
		formOpts: []form.Option{form.WithProgramCache(form.NewMemoryCache())},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.formOpts = append(a.formOpts, form.WithEvaluatorLogger(form.SlogEvaluatorLogger(a.logger)))
	if _, err := a.newValidator(form.ProductRules()); err != nil {
		return nil, err
	}
	if _, err := a.newValidator(form.VariantRules()); err != nil {
		return nil, err
	}

	a.list = newListPage(a)
	nav, err := navigator.New(a.list, navigator.WithLogger(a.logger))
	if err != nil {
		a.list.Dispose()
		return nil, err
	}
	a.nav = nav
	return a, nil
}

// Store returns the catalog the app edits.
func (a *App) Store() *catalog.Store {
	return a.store
}

// List returns the root page.
func (a *App) List() *ListPage {
	return a.list
}

// Navigator exposes the page stack.
func (a *App) Navigator() *navigator.Navigator {
	return a.nav
}

// Current returns the page to render, or nil once closed.
func (a *App) Current() navigator.Page {
	page, err := a.nav.Current()
	if err != nil {
		return nil
	}
	return page
}

// Subscribe registers fn for page stack transitions.
func (a *App) Subscribe(fn signal.Listener[navigator.Transition]) *signal.Subscription {
	return a.nav.Subscribe(fn)
}

// Back pops the current page.
func (a *App) Back() error {
	_, err := a.nav.Pop()
	return err
}

// ViewProduct opens the edit form for an existing product.
func (a *App) ViewProduct(p *catalog.Product) (*ProductDetailPage, error) {
	if p == nil || !a.store.HasProduct(p) {
		return nil, fmt.Errorf("%w: product is not in the catalog", catalog.ErrInvalidArgument)
	}
	a.logger.Info("pages: viewing product", "product_id", p.ID, "name", p.Name)
	page, err := newProductDetailPage(a, p, p.Name, p.Description, p.Price, p.IsListed, p.Variants)
	if err != nil {
		return nil, err
	}
	return page, a.push(page)
}

// PromptAddProduct opens a creation form seeded with the defaults.
func (a *App) PromptAddProduct() (*ProductDetailPage, error) {
	a.logger.Info("pages: prompting add product")
	page, err := newProductDetailPage(a, nil, "", "", a.defaults.ProductPrice, a.defaults.ProductListed, nil)
	if err != nil {
		return nil, err
	}
	return page, a.push(page)
}

// ViewVariant opens the edit form for an existing variant.
func (a *App) ViewVariant(v *catalog.Variant) (*VariantDetailPage, error) {
	if v == nil || !a.store.HasVariant(v) {
		return nil, fmt.Errorf("%w: variant is not in the catalog", catalog.ErrInvalidArgument)
	}
	a.logger.Info("pages: viewing variant", "variant_id", v.ID, "name", v.Name)
	page, err := newVariantDetailPage(a, v, v.Name, v.Size, v.Color)
	if err != nil {
		return nil, err
	}
	return page, a.push(page)
}

// PromptAddVariant opens a variant creation form seeded with the defaults.
func (a *App) PromptAddVariant() (*VariantDetailPage, error) {
	a.logger.Info("pages: prompting add variant")
	page, err := newVariantDetailPage(a, nil, "", a.defaults.VariantSize, a.defaults.VariantColor)
	if err != nil {
		return nil, err
	}
	return page, a.push(page)
}

// PromptRemoveProduct opens the deletion confirmation for p.
func (a *App) PromptRemoveProduct(p *catalog.Product) (*DeletionPage, error) {
	if p == nil || !a.store.HasProduct(p) {
		return nil, fmt.Errorf("%w: product is not in the catalog", catalog.ErrInvalidArgument)
	}
	a.logger.Info("pages: prompting remove product", "product_id", p.ID, "name", p.Name)
	page := &DeletionPage{app: a, product: p}
	return page, a.push(page)
}

// Close disposes every open page.
func (a *App) Close() {
	a.nav.Close()
}

func (a *App) push(page navigator.Page) error {
	if err := a.nav.Push(page); err != nil {
		page.Dispose()
		return err
	}
	return nil
}

// ensureCurrent fails with ErrNotCurrent unless page is on top. Commands that
// commit and then navigate back call it before touching the store.
func (a *App) ensureCurrent(page navigator.Page) error {
	current, err := a.nav.Current()
	if err != nil {
		return err
	}
	if current != page {
		return ErrNotCurrent
	}
	return nil
}

// back pops page if it is the one on top.
func (a *App) back(page navigator.Page) error {
	if err := a.ensureCurrent(page); err != nil {
		return err
	}
	_, err := a.nav.Pop()
	return err
}

func (a *App) newValidator(rules form.RuleSet) (*form.Validator, error) {
	return form.NewValidator(rules, a.formOpts...)
}

func (a *App) selectionOptions() []catalog.SelectionOption {
	if a.preserve {
		return []catalog.SelectionOption{catalog.PreserveDraft()}
	}
	return nil
}

func variantIDs(variants []*catalog.Variant) []uuid.UUID {
	ids := make([]uuid.UUID, len(variants))
	for i, v := range variants {
		ids[i] = v.ID
	}
	return ids
}
