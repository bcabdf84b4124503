package form

import "fmt"

// Engine names an expression language used to write rules.
type Engine string

const (
	EngineExpr Engine = "expr"
	EngineCEL  Engine = "cel"
	EngineJS   Engine = "js"
)

// ParseEngine maps configuration text to an Engine.
func ParseEngine(text string) (Engine, error) {
	switch Engine(text) {
	case EngineExpr, "":
		return EngineExpr, nil
	case EngineCEL:
		return EngineCEL, nil
	case EngineJS:
		return EngineJS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEngine, text)
	}
}

// RuleContext carries the inputs a rule expression sees. Expressions bind
// `value` and `field`, plus every entry of Args at top level.
type RuleContext struct {
	Field string
	Value any
	Args  map[string]any
}

func (ctx RuleContext) bindings() map[string]any {
	env := make(map[string]any, len(ctx.Args)+2)
	for key, value := range ctx.Args {
		env[key] = value
	}
	env["value"] = ctx.Value
	env["field"] = ctx.Field
	return env
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Engine() Engine
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// ProgramCache stores compiled expression programs keyed by engine and
// expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

func cacheKey(engine Engine, expression string) string {
	return string(engine) + ":" + expression
}
