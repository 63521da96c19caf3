package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/txdig/internal/model"
)

// TransactionResolver fetches single transactions from a network
// qualified provider and batches of transaction details from the detail
// provider.
type TransactionResolver struct {
	fetcher     Fetcher
	networkURLs map[model.Network]string
	detailURL   string
	delay       time.Duration
	width       int
	logger      *slog.Logger
}

// TransactionOption configures a TransactionResolver.
type TransactionOption func(*TransactionResolver)

// WithNetworkURLs overrides transaction URL templates per network.
// Networks missing from urls keep their default template.
func WithNetworkURLs(urls map[model.Network]string) TransactionOption {
	return func(r *TransactionResolver) {
		for network, url := range urls {
			if url != "" {
				r.networkURLs[network] = url
			}
		}
	}
}

// WithDetailURL sets the URL template of the batch detail provider.
func WithDetailURL(url string) TransactionOption {
	return func(r *TransactionResolver) {
		if url != "" {
			r.detailURL = url
		}
	}
}

// WithRequestDelay sets the fixed delay before every single lookup.
func WithRequestDelay(d time.Duration) TransactionOption {
	return func(r *TransactionResolver) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// WithBatchWidth sets the number of batch lookups run at once.
func WithBatchWidth(width int) TransactionOption {
	return func(r *TransactionResolver) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithTransactionLogger sets the logger.
func WithTransactionLogger(logger *slog.Logger) TransactionOption {
	return func(r *TransactionResolver) {
		r.logger = logger
	}
}

// NewTransactionResolver creates a TransactionResolver with the default
// providers, a 50ms request delay and a batch width of 8.
func NewTransactionResolver(fetcher Fetcher, opts ...TransactionOption) *TransactionResolver {
	r := &TransactionResolver{
		fetcher:     fetcher,
		networkURLs: DefaultNetworkURLs(),
		detailURL:   DefaultDetailURL,
		delay:       DefaultRequestDelay,
		width:       DefaultBatchWidth,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Networks returns the networks a provider is configured for.
func (r *TransactionResolver) Networks() []model.Network {
	var networks []model.Network
	for _, n := range model.Networks() {
		if _, ok := r.networkURLs[n]; ok {
			networks = append(networks, n)
		}
	}
	return networks
}

// URL returns the lookup URL of txid on network.
func (r *TransactionResolver) URL(txid string, network model.Network) (string, error) {
	tmpl, ok := r.networkURLs[network]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoNetworkURL, network)
	}
	return model.Endpoint{Name: network.String(), URL: tmpl}.Expand(txid), nil
}

// Resolve fetches and parses one transaction.
//
// It waits the request delay first. On any fetch or parse failure it
// returns a nil transaction and an error; callers skip the node. A
// transaction whose payload lacks an input list is returned as is, and
// HasInputs reports false for it.
func (r *TransactionResolver) Resolve(ctx context.Context, txid string, network model.Network) (*model.Transaction, error) {
	if err := sleep(ctx, r.delay); err != nil {
		return nil, err
	}

	url, err := r.URL(txid, network)
	if err != nil {
		return nil, err
	}

	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", txid, err)
	}

	var tx model.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("%w: transaction %s: %v", ErrMalformedPayload, txid, err)
	}
	if tx.Txid == "" {
		tx.Txid = txid
	}

	r.logger.Debug("transaction resolved",
		"txid", txid,
		"network", network,
		"inputs", len(tx.Inputs),
		"outputs", len(tx.Outputs),
	)
	return &tx, nil
}

// ResolveAll fetches detail documents for every txid concurrently.
// The result has one entry per distinct txid. A failed lookup yields an
// error placeholder and does not affect the others.
func (r *TransactionResolver) ResolveAll(ctx context.Context, txids []string) map[string]model.ProviderResult {
	results := make([]model.ProviderResult, len(txids))

	var g errgroup.Group
	g.SetLimit(r.width)
	for i, txid := range txids {
		g.Go(func() error {
			results[i] = r.detail(ctx, txid)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return an error

	details := make(map[string]model.ProviderResult, len(txids))
	for i, txid := range txids {
		details[txid] = results[i]
	}
	return details
}

// detail runs one batch lookup.
func (r *TransactionResolver) detail(ctx context.Context, txid string) model.ProviderResult {
	url := strings.ReplaceAll(r.detailURL, model.TxidPlaceholder, txid)
	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		r.logger.Debug("transaction detail failed", "txid", txid, "error", err)
		return model.ProviderResult{Err: "Error: No data received"}
	}

	doc, err := parseDocument(data)
	if err != nil {
		return model.ProviderResult{Err: "Error: Failed to parse transaction data: " + err.Error()}
	}
	return model.ProviderResult{Data: doc}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
