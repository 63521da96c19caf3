package model

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// NormalizeTxid trims and lowercases a transaction id and checks that it
// is a 64 character hex string.
func NormalizeTxid(txid string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(txid))
	if normalized == "" {
		return "", ErrEmptyTxid
	}
	if len(normalized) != chainhash.MaxHashStringSize {
		return "", fmt.Errorf("%w: got %d characters", ErrInvalidTxid, len(normalized))
	}
	hash, err := chainhash.NewHashFromStr(normalized)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTxid, err)
	}
	// Round trip guards against inputs NewHashFromStr silently pads.
	if hash.String() != normalized {
		return "", ErrInvalidTxid
	}
	return normalized, nil
}

// NormalizeAddress trims an address and checks that it decodes as a
// mainnet Bitcoin address. Only the encoding and checksum are checked.
func NormalizeAddress(address string) (string, error) {
	normalized := strings.TrimSpace(address)
	if normalized == "" {
		return "", ErrEmptyAddress
	}
	decoded, err := btcutil.DecodeAddress(normalized, &chaincfg.MainNetParams)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if !decoded.IsForNet(&chaincfg.MainNetParams) {
		return "", fmt.Errorf("%w: not a mainnet address", ErrInvalidAddress)
	}
	return normalized, nil
}
