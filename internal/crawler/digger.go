package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/txdig/internal/model"
	"github.com/nao1215/txdig/internal/tracker"
)

// DefaultMaxDepth is the recursion limit used when none is configured.
const DefaultMaxDepth = 3

// TransactionSource resolves one transaction. A nil transaction means the
// node cannot be expanded. *resolver.TransactionResolver implements it.
type TransactionSource interface {
	Resolve(ctx context.Context, txid string, network model.Network) (*model.Transaction, error)
}

// Reporter receives the user-facing traversal log.
// Highlight decorates an entity that was seen more than once.
type Reporter interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
	Highlight(s string) string
}

// nopReporter discards the traversal log.
type nopReporter struct{}

func (nopReporter) Infof(string, ...any)       {}
func (nopReporter) Errorf(string, ...any)      {}
func (nopReporter) Highlight(s string) string { return s }

// Digger walks the input graph of a transaction depth first.
//
// The walk uses an explicit work stack instead of recursion, so deep
// limits cannot exhaust the goroutine stack. Children are pushed in
// reverse so nodes are processed in the same pre-order a recursive walk
// would produce.
type Digger struct {
	// source fetches transactions, one at a time.
	source TransactionSource

	// maxDepth is the level at which branches stop without a fetch.
	// The seed is level 0, so maxDepth 1 fetches only the seed.
	maxDepth int

	logger   *slog.Logger
	reporter Reporter
}

// DiggerOption configures a Digger.
type DiggerOption func(*Digger)

// WithMaxDepth sets the maximum recursion level.
func WithMaxDepth(depth int) DiggerOption {
	return func(d *Digger) {
		d.maxDepth = depth
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) DiggerOption {
	return func(d *Digger) {
		d.logger = logger
	}
}

// WithReporter sets the sink for the traversal log.
func WithReporter(r Reporter) DiggerOption {
	return func(d *Digger) {
		d.reporter = r
	}
}

// NewDigger creates a Digger reading transactions from source.
func NewDigger(source TransactionSource, opts ...DiggerOption) *Digger {
	d := &Digger{
		source:   source,
		maxDepth: DefaultMaxDepth,
		logger:   slog.Default(),
		reporter: nopReporter{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxDepth returns the configured recursion limit.
func (d *Digger) MaxDepth() int {
	return d.maxDepth
}

// workItem is one pending node of the walk.
type workItem struct {
	txid  string
	level int
}

// Dig walks the inputs of seed on network, registering every input
// address and input transaction id in tr.
//
// The depth check is the first action for every node, so no transaction
// at or beyond the maximum level is ever fetched. There is no visited
// set: a transaction reached through two paths is expanded twice.
//
// Dig always returns a result. When ctx is cancelled the walk stops
// before the next node, the result is marked Interrupted and the context
// error is returned alongside it.
func (d *Digger) Dig(ctx context.Context, tr *tracker.Tracker, seed string, network model.Network) (*model.DigResult, error) {
	result := &model.DigResult{
		Network:   network,
		Seed:      seed,
		MaxLevel:  d.maxDepth,
		StartedAt: time.Now(),
		Visits:    make([]model.Visit, 0),
	}

	var err error
	stack := []workItem{{txid: seed, level: 0}}
	for len(stack) > 0 {
		if err = ctx.Err(); err != nil {
			break
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visit, next := d.visit(ctx, tr, item, network)
		if visit.State == model.NodePending {
			// The fetch was cut short by cancellation.
			err = ctx.Err()
			break
		}
		result.Visits = append(result.Visits, visit)
		result.Stats.Record(visit.State)

		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, workItem{txid: next[i], level: item.level + 1})
		}
	}

	if err != nil {
		result.Interrupted = true
		d.logger.Warn("dig interrupted",
			"seed", seed,
			"pending", len(stack),
			"reason", err,
		)
	}

	result.Elapsed = time.Since(result.StartedAt)
	result.Snapshot = tr.Snapshot()

	d.logger.Debug("dig finished",
		"seed", seed,
		"network", network,
		"visits", len(result.Visits),
		"fetches", result.Stats.Fetches(),
		"elapsed", result.Elapsed,
	)
	return result, err
}

// visit processes one node and returns the distinct input transaction
// ids to expand next, in first appearance order.
func (d *Digger) visit(ctx context.Context, tr *tracker.Tracker, item workItem, network model.Network) (model.Visit, []string) {
	visit := model.Visit{Txid: item.txid, Level: item.level, State: model.NodePending}

	if item.level >= d.maxDepth {
		visit.State = model.NodeDepthLimited
		return visit, nil
	}

	tx, err := d.source.Resolve(ctx, item.txid, network)
	if tx == nil {
		if ctx.Err() != nil {
			return visit, nil
		}
		d.logger.Debug("transaction unavailable", "txid", item.txid, "level", item.level, "error", err)
		d.reporter.Errorf("Error retrieving transaction %s. Skipping.", item.txid)
		visit.State = model.NodeFetchFailed
		return visit, nil
	}

	if !tx.HasInputs() {
		d.reporter.Errorf("Malformed transaction data for %s. Skipping.", item.txid)
		visit.State = model.NodeMalformed
		return visit, nil
	}

	visit.State = model.NodeExpanded
	visit.Inputs = len(tx.Inputs)
	visit.Outputs = len(tx.Outputs)

	d.reporter.Infof("Level %d TX %s has %d inputs and %d outputs.",
		item.level, item.txid, visit.Inputs, visit.Outputs)
	d.reporter.Infof("Inputs:")

	next := make([]string, 0, len(tx.Inputs))
	queued := make(map[string]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		address := in.Address()
		value := in.Value()
		visit.InputValue += value

		if in.Txid != "" {
			// Coinbase inputs reference no real transaction.
			if _, ok := queued[in.Txid]; !ok && !in.IsCoinbase {
				queued[in.Txid] = struct{}{}
				next = append(next, in.Txid)
			}
			if !tr.RegisterTxid(in.Txid) {
				d.reporter.Infof("Detected repeated TX id: %s", d.reporter.Highlight(in.Txid))
			}
		}

		if !tr.RegisterAddress(address) {
			d.reporter.Infof("Detected repeated address: %s", d.reporter.Highlight(address))
		}

		d.reporter.Infof("%s %d from %s",
			d.highlightRepeat(tr, model.EntityTxid, in.Txid),
			value,
			d.highlightRepeat(tr, model.EntityAddress, address),
		)
	}

	return visit, next
}

// highlightRepeat decorates entity when the tracker counted it more than once.
func (d *Digger) highlightRepeat(tr *tracker.Tracker, kind model.EntityKind, entity string) string {
	if tr.IsRepeat(kind, entity) {
		return d.reporter.Highlight(entity)
	}
	return entity
}
