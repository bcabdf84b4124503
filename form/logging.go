package form

import (
	"log/slog"
	"time"
)

// EvaluatorLogEvent describes one rule evaluation.
type EvaluatorLogEvent struct {
	Engine   Engine
	Field    string
	Expr     string
	Duration time.Duration
	Passed   bool
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// SlogEvaluatorLogger writes evaluations at debug and failures at error.
func SlogEvaluatorLogger(logger *slog.Logger) EvaluatorLogger {
	if logger == nil {
		return noopEvaluatorLogger{}
	}
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		attrs := []any{
			"engine", string(event.Engine),
			"field", event.Field,
			"expr", event.Expr,
			"duration", event.Duration,
		}
		if event.Err != nil {
			logger.Error("form: rule evaluation failed", append(attrs, "error", event.Err)...)
			return
		}
		logger.Debug("form: rule evaluated", append(attrs, "passed", event.Passed)...)
	})
}
