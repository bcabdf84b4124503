package form

// Field names validated by the catalog editors.
const (
	FieldName        = "Name"
	FieldDescription = "Description"
	FieldPrice       = "Price"
	FieldSizeText    = "SizeText"
)

// ErrorKind classifies a validation failure.
type ErrorKind string

const (
	KindEmptyName          ErrorKind = "EmptyName"
	KindNameLength         ErrorKind = "NameLength"
	KindEmptyDescription   ErrorKind = "EmptyDescription"
	KindDescriptionTooLong ErrorKind = "DescriptionTooLong"
	KindNegativePrice      ErrorKind = "NegativePrice"
	KindInvalidSize        ErrorKind = "InvalidSize"
)

// Name length bounds, inclusive, and the description limit.
const (
	MinNameLength        = 3
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
)

// Rule is one check on a field. The expression for the active engine must
// evaluate to true for the value to pass.
type Rule struct {
	Kind        ErrorKind
	Message     string
	Expressions map[Engine]string
	Args        map[string]any
}

// RuleSet maps field names to their rules in evaluation order. The first
// failing rule of a field yields its error.
type RuleSet map[string][]Rule

func nameRules() []Rule {
	return []Rule{
		{
			Kind:    KindEmptyName,
			Message: "Name cannot be empty",
			Expressions: map[Engine]string{
				EngineExpr: `!blank(value)`,
				EngineCEL:  `!call("blank", [value])`,
				EngineJS:   `String(value).trim() !== ""`,
			},
		},
		{
			Kind:    KindNameLength,
			Message: "Name must consist of at least 3 symbols and cannot be more than 200 symbols",
			Expressions: map[Engine]string{
				EngineExpr: `len(value) >= minLen && len(value) <= maxLen`,
				EngineCEL:  `size(value) >= minLen && size(value) <= maxLen`,
				EngineJS:   `value.length >= minLen && value.length <= maxLen`,
			},
			Args: map[string]any{"minLen": MinNameLength, "maxLen": MaxNameLength},
		},
	}
}

// ProductRules checks the product editor's name, description and price.
func ProductRules() RuleSet {
	return RuleSet{
		FieldName: nameRules(),
		FieldDescription: {
			{
				Kind:    KindEmptyDescription,
				Message: "Description cannot be empty",
				Expressions: map[Engine]string{
					EngineExpr: `!blank(value)`,
					EngineCEL:  `!call("blank", [value])`,
					EngineJS:   `String(value).trim() !== ""`,
				},
			},
			{
				Kind:    KindDescriptionTooLong,
				Message: "Description cannot be more than 2000 symbols",
				Expressions: map[Engine]string{
					EngineExpr: `len(value) <= maxLen`,
					EngineCEL:  `size(value) <= maxLen`,
					EngineJS:   `value.length <= maxLen`,
				},
				Args: map[string]any{"maxLen": MaxDescriptionLength},
			},
		},
		FieldPrice: {
			{
				Kind:    KindNegativePrice,
				Message: "Price cannot be negative",
				Expressions: map[Engine]string{
					EngineExpr: `nonNegative(value)`,
					EngineCEL:  `call("nonNegative", [value])`,
					EngineJS:   `nonNegative(value)`,
				},
			},
		},
	}
}

// VariantRules checks the variant editor's name and size text.
func VariantRules() RuleSet {
	return RuleSet{
		FieldName: nameRules(),
		FieldSizeText: {
			{
				Kind:    KindInvalidSize,
				Message: "Invalid size name",
				Expressions: map[Engine]string{
					EngineExpr: `isSize(value)`,
					EngineCEL:  `call("isSize", [value])`,
					EngineJS:   `isSize(value)`,
				},
			},
		},
	}
}
