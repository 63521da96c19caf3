package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/txdig/internal/crawler"
	"github.com/nao1215/txdig/internal/report"
	"github.com/nao1215/txdig/internal/resolver"
)

// Console receives user-facing progress lines.
// report.Console implements it.
type Console interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Successf(format string, args ...any)
}

// nopConsole discards progress lines.
type nopConsole struct{}

func (nopConsole) Infof(string, ...any)    {}
func (nopConsole) Warnf(string, ...any)    {}
func (nopConsole) Errorf(string, ...any)   {}
func (nopConsole) Successf(string, ...any) {}

// stepBase carries the collaborators every step shares.
type stepBase struct {
	console Console
	logger  *slog.Logger
}

func newStepBase(opts []StepOption) stepBase {
	b := stepBase{
		console: nopConsole{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// StepOption configures any step.
type StepOption func(*stepBase)

// WithConsole sets the progress sink of a step.
func WithConsole(c Console) StepOption {
	return func(b *stepBase) {
		if c != nil {
			b.console = c
		}
	}
}

// WithStepLogger sets the structured logger of a step.
func WithStepLogger(logger *slog.Logger) StepOption {
	return func(b *stepBase) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// finisher marks render and save steps; see Finisher.
type finisher struct{}

// Finishes implements Finisher.
func (finisher) Finishes() bool { return true }

// ResolveAddressStep queries every address provider and stores the
// snapshot and the listed transaction hashes on the run.
type ResolveAddressStep struct {
	stepBase
	resolver *resolver.AddressResolver
}

// NewResolveAddressStep creates the address lookup step.
func NewResolveAddressStep(r *resolver.AddressResolver, opts ...StepOption) *ResolveAddressStep {
	return &ResolveAddressStep{stepBase: newStepBase(opts), resolver: r}
}

// Name returns the step name.
func (s *ResolveAddressStep) Name() string {
	return "resolve_address"
}

// Do executes the step.
func (s *ResolveAddressStep) Do(ctx context.Context, run *AddressRun) error {
	s.console.Successf("Fetching data for address: %s", run.Address)
	run.Report.AddressInfo = s.resolver.Resolve(ctx, run.Address)
	run.Hashes = resolver.TransactionHashes(run.Report.AddressInfo)
	return nil
}

// ResolveTransactionsStep fetches details for every hash found by
// ResolveAddressStep. It does nothing when no hashes were listed.
type ResolveTransactionsStep struct {
	stepBase
	resolver *resolver.TransactionResolver
}

// NewResolveTransactionsStep creates the batch detail step.
func NewResolveTransactionsStep(r *resolver.TransactionResolver, opts ...StepOption) *ResolveTransactionsStep {
	return &ResolveTransactionsStep{stepBase: newStepBase(opts), resolver: r}
}

// Name returns the step name.
func (s *ResolveTransactionsStep) Name() string {
	return "resolve_transactions"
}

// Do executes the step.
func (s *ResolveTransactionsStep) Do(ctx context.Context, run *AddressRun) error {
	if len(run.Hashes) == 0 {
		return nil
	}
	s.console.Successf("Found %d transactions. Fetching detailed info...", len(run.Hashes))
	run.Report.TransactionDetails = s.resolver.ResolveAll(ctx, run.Hashes)
	return nil
}

// RenderAddressStep writes the combined document to a report writer.
type RenderAddressStep struct {
	stepBase
	finisher
	writer report.Writer
}

// NewRenderAddressStep creates the address rendering step.
func NewRenderAddressStep(w report.Writer, opts ...StepOption) *RenderAddressStep {
	return &RenderAddressStep{stepBase: newStepBase(opts), writer: w}
}

// Name returns the step name.
func (s *RenderAddressStep) Name() string {
	return "render_address"
}

// Do executes the step.
func (s *RenderAddressStep) Do(_ context.Context, run *AddressRun) error {
	if _, err := s.writer.WriteAddress(run.Report); err != nil {
		return fmt.Errorf("failed to render address report: %w", err)
	}
	return nil
}

// SaveAddressStep writes the combined document to {dir}/{address}.log.
// A failed write is reported and does not fail the run.
type SaveAddressStep struct {
	stepBase
	finisher
	dir string
}

// NewSaveAddressStep creates the address dump step.
func NewSaveAddressStep(dir string, opts ...StepOption) *SaveAddressStep {
	return &SaveAddressStep{stepBase: newStepBase(opts), dir: dir}
}

// Name returns the step name.
func (s *SaveAddressStep) Name() string {
	return "save_address"
}

// Do executes the step.
func (s *SaveAddressStep) Do(_ context.Context, run *AddressRun) error {
	path, err := report.SaveAddressReport(s.dir, run.Report)
	if err != nil {
		s.logger.Warn("save failed", "address", run.Address, "error", err)
		s.console.Errorf("Failed to save file: %v", err)
		return nil
	}
	run.SavedPath = path
	s.console.Successf("Data saved to %s", path)
	return nil
}

// DigStep walks the input graph of the run's seed transaction.
//
// An interrupted walk is not an error: the partial result is kept so
// the finishing steps can still render and save it.
type DigStep struct {
	stepBase
	digger *crawler.Digger
}

// NewDigStep creates the traversal step.
func NewDigStep(d *crawler.Digger, opts ...StepOption) *DigStep {
	return &DigStep{stepBase: newStepBase(opts), digger: d}
}

// Name returns the step name.
func (s *DigStep) Name() string {
	return "dig"
}

// Do executes the step.
func (s *DigStep) Do(ctx context.Context, run *DigRun) error {
	s.console.Successf("Starting tx digging mode on network '%s' for txid %s up to level %d",
		run.Network, run.Seed, s.digger.MaxDepth())

	result, err := s.digger.Dig(ctx, run.Tracker, run.Seed, run.Network)
	run.Result = result
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.console.Warnf("Interrupted, reporting partial results (%d transactions visited)", len(result.Visits))
		return nil
	default:
		return fmt.Errorf("dig from %s failed: %w", run.Seed, err)
	}
}

// RenderDigStep writes the traversal summary to a report writer.
type RenderDigStep struct {
	stepBase
	finisher
	writer report.Writer
}

// NewRenderDigStep creates the dig rendering step.
func NewRenderDigStep(w report.Writer, opts ...StepOption) *RenderDigStep {
	return &RenderDigStep{stepBase: newStepBase(opts), writer: w}
}

// Name returns the step name.
func (s *RenderDigStep) Name() string {
	return "render_dig"
}

// Do executes the step.
func (s *RenderDigStep) Do(_ context.Context, run *DigRun) error {
	if run.Result == nil {
		return ErrNoResult
	}
	if _, err := s.writer.WriteDig(run.Result); err != nil {
		return fmt.Errorf("failed to render dig summary: %w", err)
	}
	return nil
}

// SaveDigStep writes the tracker snapshot to {dir}/trxids.log.
// A failed write is reported and does not fail the run.
type SaveDigStep struct {
	stepBase
	finisher
	dir string
}

// NewSaveDigStep creates the snapshot dump step.
func NewSaveDigStep(dir string, opts ...StepOption) *SaveDigStep {
	return &SaveDigStep{stepBase: newStepBase(opts), dir: dir}
}

// Name returns the step name.
func (s *SaveDigStep) Name() string {
	return "save_dig"
}

// Do executes the step.
func (s *SaveDigStep) Do(_ context.Context, run *DigRun) error {
	path, err := report.SaveSnapshot(s.dir, run.Tracker.Snapshot())
	if err != nil {
		s.logger.Warn("save failed", "seed", run.Seed, "error", err)
		s.console.Errorf("Failed to save transaction results: %v", err)
		return nil
	}
	run.SavedPath = path
	s.console.Successf("Transaction results saved to %s", path)
	return nil
}
