package pipeline

import (
	"github.com/nao1215/txdig/internal/crawler"
	"github.com/nao1215/txdig/internal/report"
	"github.com/nao1215/txdig/internal/resolver"
)

// AddressConfig holds the collaborators of an address mode pipeline.
type AddressConfig struct {
	Addresses    *resolver.AddressResolver
	Transactions *resolver.TransactionResolver
	Writer       report.Writer

	// Save enables the dump step, writing into OutputDir.
	Save      bool
	OutputDir string
}

// AddressPipeline assembles resolve, render and optionally save steps
// for address mode.
func AddressPipeline(cfg AddressConfig, pipelineOpts []Option, stepOpts ...StepOption) *Pipeline[*AddressRun] {
	p := New[*AddressRun](pipelineOpts...)
	p.AddSteps(
		NewResolveAddressStep(cfg.Addresses, stepOpts...),
		NewResolveTransactionsStep(cfg.Transactions, stepOpts...),
		NewRenderAddressStep(cfg.Writer, stepOpts...),
	)
	if cfg.Save {
		p.AddStep(NewSaveAddressStep(cfg.OutputDir, stepOpts...))
	}
	return p
}

// DigConfig holds the collaborators of a dig mode pipeline.
type DigConfig struct {
	Digger *crawler.Digger
	Writer report.Writer

	Save      bool
	OutputDir string
}

// DigPipeline assembles dig, render and optionally save steps for dig mode.
func DigPipeline(cfg DigConfig, pipelineOpts []Option, stepOpts ...StepOption) *Pipeline[*DigRun] {
	p := New[*DigRun](pipelineOpts...)
	p.AddSteps(
		NewDigStep(cfg.Digger, stepOpts...),
		NewRenderDigStep(cfg.Writer, stepOpts...),
	)
	if cfg.Save {
		p.AddStep(NewSaveDigStep(cfg.OutputDir, stepOpts...))
	}
	return p
}
