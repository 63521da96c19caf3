package resolver

import (
	"time"

	"github.com/nao1215/txdig/internal/model"
)

// Provider names of the default address endpoints.
const (
	// ProviderBlockchainBalance is the balance lookup provider.
	ProviderBlockchainBalance = "blockchain_balance"

	// ProviderBlockchainRawAddr is the raw address history provider.
	// Its "txs" list drives the transaction detail lookups of address mode.
	ProviderBlockchainRawAddr = "blockchain_rawaddr"

	// ProviderBlockcypher is the BlockCypher address provider.
	ProviderBlockcypher = "blockcypher"

	// ProviderBlockstream is the Blockstream Esplora address provider.
	ProviderBlockstream = "blockstream"
)

// Default resolver settings.
const (
	// DefaultAddressWidth is the pool width for address provider queries.
	DefaultAddressWidth = 4

	// DefaultBatchWidth is the pool width for batch transaction details.
	DefaultBatchWidth = 8

	// DefaultRequestDelay precedes every single transaction lookup to keep
	// bursts against the shared provider down.
	DefaultRequestDelay = 50 * time.Millisecond

	// DefaultDetailURL is the transaction detail provider used by batch lookups.
	DefaultDetailURL = "https://blockchain.info/rawtx/{txid}?format=json"
)

// DefaultAddressEndpoints returns the stock address providers.
func DefaultAddressEndpoints() []model.Endpoint {
	return []model.Endpoint{
		{Name: ProviderBlockchainBalance, URL: "https://blockchain.info/balance?active={address}"},
		{Name: ProviderBlockchainRawAddr, URL: "https://blockchain.info/rawaddr/{address}"},
		{Name: ProviderBlockcypher, URL: "https://api.blockcypher.com/v1/btc/main/addrs/{address}"},
		{Name: ProviderBlockstream, URL: "https://blockstream.info/api/address/{address}"},
	}
}

// DefaultNetworkURLs returns the stock Esplora transaction URL template
// per network.
func DefaultNetworkURLs() map[model.Network]string {
	return map[model.Network]string{
		model.NetworkBitcoin: "https://mempool.space/api/tx/{txid}",
		model.NetworkTestnet: "https://mempool.space/testnet/api/tx/{txid}",
		model.NetworkSignet:  "https://mempool.space/signet/api/tx/{txid}",
	}
}
