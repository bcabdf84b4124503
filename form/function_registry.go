package form

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-catalog"
)

// Function is a helper callable from rule expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores rule helpers keyed by name. Names keep their case so
// expressions can call them as written; registration rejects names that only
// differ by case.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// DefaultFunctions returns a registry holding the catalog helpers every
// validator exposes:
//
//	isSize(text) bool        text names a size, case-insensitively
//	blank(text) bool         text is empty after trimming
//	nonNegative(num) bool    num is zero or above, compared exactly
func DefaultFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("isSize", func(args ...any) (any, error) {
		text, err := stringArg("isSize", args)
		if err != nil {
			return nil, err
		}
		_, err = catalog.ParseSize(text)
		return err == nil, nil
	})
	_ = r.Register("blank", func(args ...any) (any, error) {
		text, err := stringArg("blank", args)
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(text) == "", nil
	})
	_ = r.Register("nonNegative", func(args ...any) (any, error) {
		d, err := decimalArg("nonNegative", args)
		if err != nil {
			return nil, err
		}
		return !d.IsNegative(), nil
	})
	return r
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("form: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("form: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	for existing := range r.functions {
		if strings.EqualFold(existing, name) {
			return fmt.Errorf("form: function %q already registered", name)
		}
	}
	r.functions[name] = fn
	return nil
}

// Merge copies functions from other that r does not already hold.
func (r *FunctionRegistry) Merge(other *FunctionRegistry) {
	if r == nil || other == nil {
		return
	}
	for _, name := range other.Names() {
		other.mu.RLock()
		fn := other.functions[name]
		other.mu.RUnlock()
		_ = r.Register(name, fn)
	}
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("form: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[name]
	if fn == nil {
		for existing, candidate := range r.functions {
			if strings.EqualFold(existing, name) {
				fn = candidate
				break
			}
		}
	}
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("form: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stringArg(name string, args []any) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("form: %s expects 1 argument, got %d", name, len(args))
	}
	text, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("form: %s expects a string, got %T", name, args[0])
	}
	return text, nil
}

// decimalArg reads a single numeric argument without going through float64,
// so tiny magnitudes keep their sign. Strings are parsed as decimals.
func decimalArg(name string, args []any) (decimal.Decimal, error) {
	if len(args) != 1 {
		return decimal.Decimal{}, fmt.Errorf("form: %s expects 1 argument, got %d", name, len(args))
	}
	switch v := args[0].(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("form: %s: %w", name, err)
		}
		return d, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, fmt.Errorf("form: %s expects a finite number, got %v", name, v)
		}
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("form: %s expects a number, got %T", name, args[0])
	}
}
