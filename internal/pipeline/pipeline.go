package pipeline

import (
	"context"
	"log/slog"
)

// Run is the state a pipeline threads through its steps.
// AddressRun and DigRun are the two implementations.
type Run interface {
	// Subject names what the run is about, for logging.
	Subject() string

	// MarkPerformed records that a step completed.
	MarkPerformed(step string)

	// Fail records a step error.
	Fail(err error)
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, each receiving the run state
// accumulated by the previous steps.
type Step[R Run] interface {
	// Do executes the step. Non-critical problems should be reported to
	// the console and return nil; a returned error stops the pipeline
	// unless WithContinueOnError is set.
	Do(ctx context.Context, run R) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Finisher is implemented by steps that must still run after the
// pipeline context is cancelled, so that partial results are rendered
// and saved. Finishers receive a context that is never cancelled.
type Finisher interface {
	Finishes() bool
}

// Pipeline orchestrates the execution of multiple steps in order.
type Pipeline[R Run] struct {
	// steps contains the ordered list of steps to execute.
	steps []Step[R]

	settings
}

// settings is shared by all pipelines regardless of run type.
type settings struct {
	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*settings)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. The error is still recorded on the run.
func WithContinueOnError(continueOnError bool) Option {
	return func(s *settings) {
		s.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New[R Run](opts ...Option) *Pipeline[R] {
	p := &Pipeline[R]{
		steps: make([]Step[R], 0),
	}
	for _, opt := range opts {
		opt(&p.settings)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline[R]) AddStep(step Step[R]) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline[R]) AddSteps(steps ...Step[R]) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
//
// Cancellation is checked before each step. Once ctx is done only
// Finisher steps still run, and Execute returns the context error after
// they complete. Otherwise it returns the first step error, or nil when
// WithContinueOnError is set.
func (p *Pipeline[R]) Execute(ctx context.Context, run R) error {
	var cancelled error
	for _, step := range p.steps {
		stepCtx := ctx
		if cancelled == nil {
			cancelled = ctx.Err()
			if cancelled != nil {
				p.logger.Warn("pipeline cancelled",
					"step", step.Name(),
					"subject", run.Subject(),
					"reason", cancelled,
				)
			}
		}
		if cancelled != nil {
			if !finishes(step) {
				continue
			}
			stepCtx = context.WithoutCancel(ctx)
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"subject", run.Subject(),
		)

		if err := step.Do(stepCtx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"subject", run.Subject(),
				"error", err,
			)
			run.Fail(err)
			if !p.continueOnError {
				return err
			}
			continue
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"subject", run.Subject(),
		)
		run.MarkPerformed(step.Name())
	}
	return cancelled
}

func finishes(step any) bool {
	f, ok := step.(Finisher)
	return ok && f.Finishes()
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline[R]) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline[R]) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
