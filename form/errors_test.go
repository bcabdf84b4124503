package form

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestWrapEvaluationErrorCreatesMetadata(t *testing.T) {
	base := errors.New("boom")
	err := wrapEvaluationError(EngineExpr, "len(value) > 2", FieldName, base)

	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != EngineExpr || evalErr.Expr != "len(value) > 2" || evalErr.Field != FieldName {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base error")
	}
}

func TestWrapEvaluationErrorAugmentsExisting(t *testing.T) {
	base := errors.New("compile failure")
	existing := &EvaluationError{Engine: EngineExpr, Err: base}

	err := wrapEvaluationError(EngineCEL, "rule", FieldPrice, existing)
	if !errors.Is(err, base) {
		t.Fatalf("expected base error to unwrap")
	}
	if existing.Engine != EngineExpr {
		t.Fatalf("existing engine should not be overwritten, got %q", existing.Engine)
	}
	if existing.Expr != "rule" || existing.Field != FieldPrice {
		t.Fatalf("missing metadata should be filled, got %+v", existing)
	}
}

func TestValidationErrorText(t *testing.T) {
	err := ValidationError{Field: FieldName, Kind: KindEmptyName, Message: "Name cannot be empty"}
	if err.Error() != "Name: Name cannot be empty" {
		t.Fatalf("unexpected text %q", err.Error())
	}
}

func TestFunctionRegistryRejectsCaseDuplicates(t *testing.T) {
	r := DefaultFunctions()
	if err := r.Register("ISSIZE", func(...any) (any, error) { return true, nil }); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	got, err := r.Call("issize", "L")
	if err != nil || got != true {
		t.Fatalf("expected case-insensitive call, got %v %v", got, err)
	}
	if _, err := r.Call("blank", 1); err == nil {
		t.Fatalf("expected type error for non-string argument")
	}
}

func TestNonNegativeKeepsSignOfTinyValues(t *testing.T) {
	r := DefaultFunctions()
	cases := []struct {
		name string
		arg  any
		want bool
	}{
		{"tiny negative decimal", decimal.New(-1, -400), false},
		{"tiny negative text", "-1E-400", false},
		{"zero decimal", decimal.Zero, true},
		{"negative float", -0.01, false},
		{"zero int", 0, true},
		{"positive int64", int64(3), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Call("nonNegative", tc.arg)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
	if _, err := r.Call("nonNegative", "twelve"); err == nil {
		t.Fatalf("expected parse error for non-numeric text")
	}
	if _, err := r.Call("nonNegative", true); err == nil {
		t.Fatalf("expected type error for bool argument")
	}
}
