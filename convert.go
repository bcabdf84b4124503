package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductFromValues builds an unsaved product from form values ordered as
// name, price, listed, description. Price may be a decimal.Decimal or a
// decimal string.
func ProductFromValues(values ...any) (*Product, error) {
	if len(values) < 4 {
		return nil, fmt.Errorf("%w: product needs 4 values, got %d", ErrUnsupportedConversion, len(values))
	}
	name, ok := values[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: product name is %T", ErrUnsupportedConversion, values[0])
	}
	price, err := toDecimal(values[1])
	if err != nil {
		return nil, err
	}
	listed, ok := values[2].(bool)
	if !ok {
		return nil, fmt.Errorf("%w: product listed flag is %T", ErrUnsupportedConversion, values[2])
	}
	description, ok := values[3].(string)
	if !ok {
		return nil, fmt.Errorf("%w: product description is %T", ErrUnsupportedConversion, values[3])
	}
	return NewProduct(name, price, description, listed), nil
}

// VariantFromValues builds an unsaved variant from its name. Size and colour
// start as M and white.
func VariantFromValues(values ...any) (*Variant, error) {
	if len(values) < 1 {
		return nil, fmt.Errorf("%w: variant needs a name", ErrUnsupportedConversion)
	}
	name, ok := values[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: variant name is %T", ErrUnsupportedConversion, values[0])
	}
	return NewVariant(name, SizeM, White), nil
}

func toDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("%w: price %q: %v", ErrUnsupportedConversion, v, err)
		}
		return d, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: price is %T", ErrUnsupportedConversion, value)
	}
}
