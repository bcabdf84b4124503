// Package catalog keeps an in-memory, observable catalog of products and their
// variants. Entities are shared by reference: edits mutate them in place so any
// open editor holding the same pointer observes the new values, and removing a
// variant detaches it from every product that referenced it.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Size enumerates the variant sizes.
type Size int

const (
	SizeXS Size = iota
	SizeS
	SizeM
	SizeL
	SizeXL
	SizeXXL
)

var sizeNames = [...]string{"XS", "S", "M", "L", "XL", "XXL"}

func (s Size) String() string {
	if s < SizeXS || s > SizeXXL {
		return "Size(" + strconv.Itoa(int(s)) + ")"
	}
	return sizeNames[s]
}

// Valid reports whether s is one of the declared sizes.
func (s Size) Valid() bool {
	return s >= SizeXS && s <= SizeXXL
}

// SizeNames returns the declared size names in enum order.
func SizeNames() []string {
	return append([]string(nil), sizeNames[:]...)
}

// ParseSize matches text case-insensitively against the size names.
func ParseSize(text string) (Size, error) {
	for i, name := range sizeNames {
		if strings.EqualFold(strings.TrimSpace(text), name) {
			return Size(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSize, text)
}

// Color is an opaque RGB triple.
type Color struct {
	R, G, B uint8
}

// White is the default colour for new variants.
var White = Color{R: 255, G: 255, B: 255}

// RGB builds a Color from its channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex renders the colour as #RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// ParseHexColor accepts #RRGGBB or RRGGBB.
func ParseHexColor(text string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(text), "#")
	if len(raw) != 6 {
		return Color{}, fmt.Errorf("%w: color %q", ErrUnsupportedConversion, text)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: color %q", ErrUnsupportedConversion, text)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Variant is a size/colour option that products can reference.
type Variant struct {
	ID    uuid.UUID
	Name  string
	Size  Size
	Color Color
}

// NewVariant builds a variant with a fresh id. It is not part of any catalog
// until added to a Store.
func NewVariant(name string, size Size, color Color) *Variant {
	return &Variant{ID: uuid.New(), Name: name, Size: size, Color: color}
}

func (v *Variant) String() string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%q %s %s", v.Name, v.Size, v.Color)
}

// Product is a catalog entry. Variants holds references into the catalog's
// variant collection.
type Product struct {
	ID          uuid.UUID
	Name        string
	Price       decimal.Decimal
	Description string
	IsListed    bool
	Variants    []*Variant
}

// NewProduct builds a product with a fresh id and a private copy of variants.
func NewProduct(name string, price decimal.Decimal, description string, listed bool, variants ...*Variant) *Product {
	return &Product{
		ID:          uuid.New(),
		Name:        name,
		Price:       price,
		Description: description,
		IsListed:    listed,
		Variants:    dedupVariants(variants),
	}
}

// HasVariants reports whether the product references any variant.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// HasMoreThanOneVariant reports whether a "+N more" badge applies.
func (p *Product) HasMoreThanOneVariant() bool {
	return len(p.Variants) > 1
}

// VariantPlusMore is the number of variants beyond the first.
func (p *Product) VariantPlusMore() int {
	if len(p.Variants) == 0 {
		return 0
	}
	return len(p.Variants) - 1
}

// References reports whether v is in the product's variant list.
func (p *Product) References(v *Variant) bool {
	for _, candidate := range p.Variants {
		if candidate == v {
			return true
		}
	}
	return false
}

// VariantSelection pairs a catalog variant with whether the product being
// edited includes it.
type VariantSelection struct {
	Variant  *Variant
	Selected bool
}

func dedupVariants(variants []*Variant) []*Variant {
	out := make([]*Variant, 0, len(variants))
	seen := make(map[*Variant]struct{}, len(variants))
	for _, v := range variants {
		if v == nil {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
