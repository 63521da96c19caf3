package model

import "strings"

// URL template placeholders understood by Endpoint.Expand.
const (
	// AddressPlaceholder is replaced with the queried address.
	AddressPlaceholder = "{address}"
	// TxidPlaceholder is replaced with the queried transaction id.
	TxidPlaceholder = "{txid}"
)

// Endpoint names one redundant data provider for a query type.
// Endpoints are defined at startup and never change afterwards.
type Endpoint struct {
	// Name identifies the provider. Address snapshots are keyed by it.
	Name string `json:"name" yaml:"name"`

	// URL is the request template containing {address} or {txid}.
	URL string `json:"url" yaml:"url"`
}

// Expand substitutes value into every placeholder of the URL template.
func (e Endpoint) Expand(value string) string {
	r := strings.NewReplacer(AddressPlaceholder, value, TxidPlaceholder, value)
	return r.Replace(e.URL)
}
