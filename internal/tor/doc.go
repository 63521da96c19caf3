// Package tor routes provider requests through a SOCKS5 proxy.
//
// Ledger providers see the IP address of every lookup, which links the
// queried addresses to the person running txdig. Client sends all provider
// traffic through an external Tor SOCKS port (or any SOCKS5 proxy), and
// EmbeddedTor launches a private Tor daemon with tornago when none is
// available.
//
//	client, err := tor.NewClient("127.0.0.1:9050", 30*time.Second)
//	if status := client.CheckConnection(ctx); status != tor.ProxyStatusOK {
//		return status.Error()
//	}
//	fetcher := fetch.NewClient(fetch.WithTransport(client.Transport()))
package tor
