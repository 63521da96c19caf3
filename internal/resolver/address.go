package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/txdig/internal/model"
)

// Fetcher performs a single retried GET. *fetch.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// AddressResolver aggregates one address across several providers.
type AddressResolver struct {
	fetcher   Fetcher
	endpoints []model.Endpoint
	width     int
	logger    *slog.Logger
}

// AddressOption configures an AddressResolver.
type AddressOption func(*AddressResolver)

// WithEndpoints replaces the default address providers.
// An empty slice keeps the defaults.
func WithEndpoints(endpoints []model.Endpoint) AddressOption {
	return func(r *AddressResolver) {
		if len(endpoints) > 0 {
			r.endpoints = endpoints
		}
	}
}

// WithAddressWidth sets the number of providers queried at once.
func WithAddressWidth(width int) AddressOption {
	return func(r *AddressResolver) {
		if width > 0 {
			r.width = width
		}
	}
}

// WithAddressLogger sets the logger.
func WithAddressLogger(logger *slog.Logger) AddressOption {
	return func(r *AddressResolver) {
		r.logger = logger
	}
}

// NewAddressResolver creates an AddressResolver using the default providers.
func NewAddressResolver(fetcher Fetcher, opts ...AddressOption) *AddressResolver {
	r := &AddressResolver{
		fetcher:   fetcher,
		endpoints: DefaultAddressEndpoints(),
		width:     DefaultAddressWidth,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Endpoints returns the configured providers in query order.
func (r *AddressResolver) Endpoints() []model.Endpoint {
	return r.endpoints
}

// Resolve queries every provider for address concurrently.
// The snapshot always holds exactly one entry per configured provider;
// failed providers get an "Error: ..." placeholder.
func (r *AddressResolver) Resolve(ctx context.Context, address string) model.AddressSnapshot {
	results := make([]model.ProviderResult, len(r.endpoints))

	var g errgroup.Group
	g.SetLimit(r.width)
	for i, ep := range r.endpoints {
		g.Go(func() error {
			results[i] = r.query(ctx, ep, address)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // workers never return an error

	snapshot := make(model.AddressSnapshot, len(r.endpoints))
	for i, ep := range r.endpoints {
		snapshot[ep.Name] = results[i]
	}
	return snapshot
}

// query runs one provider lookup and converts failures into placeholders.
func (r *AddressResolver) query(ctx context.Context, ep model.Endpoint, address string) model.ProviderResult {
	url := ep.Expand(address)
	data, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		r.logger.Debug("address provider failed", "provider", ep.Name, "error", err)
		return model.ProviderResult{Err: fmt.Sprintf("Error: No data received from %s", ep.Name)}
	}

	doc, err := parseDocument(data)
	if err != nil {
		r.logger.Debug("address provider returned invalid JSON", "provider", ep.Name, "error", err)
		return model.ProviderResult{Err: "Error: " + err.Error()}
	}
	return model.ProviderResult{Data: doc}
}

// parseDocument validates that data holds exactly one JSON value.
func parseDocument(data []byte) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(doc), nil
}

// rawAddress is the part of the raw-address response txdig reads.
type rawAddress struct {
	Txs []struct {
		Hash string `json:"hash"`
	} `json:"txs"`
}

// TransactionHashes returns the transaction hashes listed by the
// raw-address provider, in listed order without duplicates. It returns
// nil when that provider failed or listed nothing.
func TransactionHashes(snapshot model.AddressSnapshot) []string {
	result, ok := snapshot[ProviderBlockchainRawAddr]
	if !ok || !result.OK() {
		return nil
	}

	var raw rawAddress
	if err := json.Unmarshal(result.Data, &raw); err != nil {
		return nil
	}

	var hashes []string
	seen := make(map[string]struct{}, len(raw.Txs))
	for _, tx := range raw.Txs {
		if tx.Hash == "" {
			continue
		}
		if _, dup := seen[tx.Hash]; dup {
			continue
		}
		seen[tx.Hash] = struct{}{}
		hashes = append(hashes, tx.Hash)
	}
	return hashes
}
