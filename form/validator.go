// Package form validates editor fields against expression rules and exposes a
// save gate that opens only while every validated field is error-free.
//
// Rules are written once per engine. expr-lang/expr runs by default, cel-go is
// selectable with WithEngine(EngineCEL), and goja backs EngineJS when the
// module is built with the js_eval tag.
package form

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-catalog/pkg/signal"
)

// Option configures a Validator.
type Option func(*validatorConfig)

type validatorConfig struct {
	engine    Engine
	evaluator Evaluator
	cache     ProgramCache
	functions *FunctionRegistry
	logger    EvaluatorLogger
}

// WithEngine selects the rule engine. Defaults to EngineExpr.
func WithEngine(engine Engine) Option {
	return func(cfg *validatorConfig) {
		cfg.engine = engine
	}
}

// WithEvaluator supplies a ready evaluator. Its engine picks the rule
// expressions and overrides WithEngine.
func WithEvaluator(evaluator Evaluator) Option {
	return func(cfg *validatorConfig) {
		cfg.evaluator = evaluator
	}
}

// WithProgramCache shares compiled programs across validators.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *validatorConfig) {
		cfg.cache = cache
	}
}

// WithFunctionRegistry adds helpers on top of DefaultFunctions.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *validatorConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithEvaluatorLogger records every rule evaluation.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *validatorConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

type compiledRule struct {
	rule       Rule
	expression string
	program    CompiledRule
}

// Validator tracks the latest errors per field. Fields start untouched and
// error-free; a field's errors change only when that field is validated
// again.
type Validator struct {
	mu      sync.Mutex
	engine  Engine
	logger  EvaluatorLogger
	rules   map[string][]compiledRule
	results map[string][]ValidationError
	canSave bool
	gate    *signal.Signal[bool]
}

// NewValidator compiles rules for the configured engine.
func NewValidator(rules RuleSet, opts ...Option) (*Validator, error) {
	cfg := validatorConfig{engine: EngineExpr, logger: noopEvaluatorLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	evaluator, err := resolveEvaluator(cfg)
	if err != nil {
		return nil, err
	}
	engine := evaluator.Engine()

	v := &Validator{
		engine:  engine,
		logger:  cfg.logger,
		rules:   make(map[string][]compiledRule, len(rules)),
		results: make(map[string][]ValidationError, len(rules)),
		canSave: true,
		gate:    signal.New[bool](),
	}
	for field, fieldRules := range rules {
		for _, rule := range fieldRules {
			expression, ok := rule.Expressions[engine]
			if !ok || expression == "" {
				return nil, fmt.Errorf("%w: field %s rule %s engine %s", ErrMissingExpression, field, rule.Kind, engine)
			}
			program, err := evaluator.Compile(expression)
			if err != nil {
				return nil, wrapEvaluationError(engine, expression, field, err)
			}
			v.rules[field] = append(v.rules[field], compiledRule{rule: rule, expression: expression, program: program})
		}
	}
	return v, nil
}

func resolveEvaluator(cfg validatorConfig) (Evaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	functions := DefaultFunctions()
	functions.Merge(cfg.functions)
	cache := cfg.cache
	if cache == nil {
		cache = NewMemoryCache()
	}

	switch cfg.engine {
	case EngineExpr, "":
		return NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(functions)), nil
	case EngineCEL:
		return NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(functions)), nil
	case EngineJS:
		evaluator := NewJSEvaluator(JSWithProgramCache(cache), JSWithFunctionRegistry(functions))
		if evaluator == nil {
			return nil, fmt.Errorf("%w: %s requires the js_eval build tag", ErrEngineUnavailable, EngineJS)
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.engine)
	}
}

// Engine reports the engine the rules were compiled for.
func (v *Validator) Engine() Engine {
	return v.engine
}

// Validate runs field's rules against value and records the outcome. A field
// with no rules always passes. The returned error reports a broken rule; in
// that case the field's previous errors are kept.
func (v *Validator) Validate(field string, value any) ([]ValidationError, error) {
	v.mu.Lock()
	rules := v.rules[field]
	v.mu.Unlock()

	var errs []ValidationError
	for _, compiled := range rules {
		passed, err := v.run(field, value, compiled)
		if err != nil {
			return nil, err
		}
		if !passed {
			errs = append(errs, ValidationError{
				Field:   field,
				Kind:    compiled.rule.Kind,
				Message: compiled.rule.Message,
			})
			break
		}
	}

	v.mu.Lock()
	if len(errs) == 0 {
		delete(v.results, field)
	} else {
		v.results[field] = errs
	}
	canSave := len(v.results) == 0
	changed := canSave != v.canSave
	v.canSave = canSave
	v.mu.Unlock()

	if changed {
		v.gate.Emit(canSave)
	}
	return append([]ValidationError(nil), errs...), nil
}

func (v *Validator) run(field string, value any, compiled compiledRule) (bool, error) {
	start := time.Now()
	result, err := compiled.program.Evaluate(RuleContext{Field: field, Value: value, Args: compiled.rule.Args})
	event := EvaluatorLogEvent{
		Engine:   v.engine,
		Field:    field,
		Expr:     compiled.expression,
		Duration: time.Since(start),
		Err:      err,
	}
	if err != nil {
		v.logger.LogEvaluation(event)
		return false, wrapEvaluationError(v.engine, compiled.expression, field, err)
	}
	passed, ok := result.(bool)
	if !ok {
		err = wrapEvaluationError(v.engine, compiled.expression, field, fmt.Errorf("%w: got %T", ErrNonBoolResult, result))
		event.Err = err
		v.logger.LogEvaluation(event)
		return false, err
	}
	event.Passed = passed
	v.logger.LogEvaluation(event)
	return passed, nil
}

// Errors returns the recorded errors for field.
func (v *Validator) Errors(field string) []ValidationError {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]ValidationError(nil), v.results[field]...)
}

// HasErrors reports whether any field currently has errors.
func (v *Validator) HasErrors() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.results) > 0
}

// CanSave is the save gate: true when no field has errors.
func (v *Validator) CanSave() bool {
	return !v.HasErrors()
}

// SubscribeGate registers fn for changes to CanSave.
func (v *Validator) SubscribeGate(fn signal.Listener[bool]) *signal.Subscription {
	return v.gate.Subscribe(fn)
}

// Fields lists the fields that have rules, sorted.
func (v *Validator) Fields() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	fields := make([]string, 0, len(v.rules))
	for field := range v.rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
