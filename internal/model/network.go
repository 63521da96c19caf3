package model

import (
	"fmt"
	"strings"
)

// Network is a logical blockchain network that transaction lookups are
// qualified with.
type Network string

const (
	// NetworkBitcoin is Bitcoin mainnet. It is the default network.
	NetworkBitcoin Network = "bitcoin"
	// NetworkTestnet is Bitcoin testnet3.
	NetworkTestnet Network = "testnet"
	// NetworkSignet is the default Bitcoin signet.
	NetworkSignet Network = "signet"
)

// Networks returns every supported network in display order.
func Networks() []Network {
	return []Network{NetworkBitcoin, NetworkTestnet, NetworkSignet}
}

// String returns the network name.
func (n Network) String() string {
	return string(n)
}

// ParseNetwork converts a user supplied name into a Network.
// Matching is case-insensitive; "mainnet" and "main" are accepted as
// aliases of bitcoin.
func ParseNetwork(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bitcoin", "mainnet", "main":
		return NetworkBitcoin, nil
	case "testnet", "testnet3", "test":
		return NetworkTestnet, nil
	case "signet":
		return NetworkSignet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
}
