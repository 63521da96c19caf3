package pipeline

import (
	"github.com/nao1215/txdig/internal/model"
	"github.com/nao1215/txdig/internal/tracker"
)

// trace records step bookkeeping common to all runs.
type trace struct {
	// Performed lists the steps that completed, in order.
	Performed []string

	// Err is the last step error, if any.
	Err error
}

// MarkPerformed implements Run.
func (t *trace) MarkPerformed(step string) {
	t.Performed = append(t.Performed, step)
}

// Fail implements Run.
func (t *trace) Fail(err error) {
	t.Err = err
}

// AddressRun is the state of one address mode run.
type AddressRun struct {
	trace

	// Address is the queried address.
	Address string

	// Report is the combined document. It always holds one entry per
	// configured provider once the resolve step has run.
	Report *model.AddressReport

	// Hashes are the transaction hashes listed by the raw-address provider.
	Hashes []string

	// SavedPath is set when the report was written to disk.
	SavedPath string
}

// NewAddressRun creates the run state for address.
func NewAddressRun(address string) *AddressRun {
	return &AddressRun{
		Address: address,
		Report:  model.NewAddressReport(address),
	}
}

// Subject implements Run.
func (r *AddressRun) Subject() string {
	return r.Address
}

// DigRun is the state of one dig mode run.
type DigRun struct {
	trace

	Seed    string
	Network model.Network

	// Tracker is owned by this run and discarded with it.
	Tracker *tracker.Tracker

	// Result is set by the dig step, possibly partial.
	Result *model.DigResult

	SavedPath string
}

// NewDigRun creates the run state for a dig from seed, with a fresh tracker.
func NewDigRun(seed string, network model.Network) *DigRun {
	return &DigRun{
		Seed:    seed,
		Network: network,
		Tracker: tracker.New(),
	}
}

// Subject implements Run.
func (r *DigRun) Subject() string {
	return r.Seed
}
