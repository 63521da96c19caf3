package model

import "errors"

// Input validation errors.
var (
	// ErrEmptyTxid is returned when a transaction id is empty.
	ErrEmptyTxid = errors.New("transaction id cannot be empty")

	// ErrInvalidTxid is returned when a transaction id is not 64 hex characters.
	ErrInvalidTxid = errors.New("invalid transaction id: expected 64 hex characters")

	// ErrEmptyAddress is returned when an address is empty.
	ErrEmptyAddress = errors.New("address cannot be empty")

	// ErrInvalidAddress is returned when an address does not decode as a
	// mainnet Bitcoin address.
	ErrInvalidAddress = errors.New("invalid bitcoin address")

	// ErrUnknownNetwork is returned for a network name txdig has no endpoint for.
	ErrUnknownNetwork = errors.New("unknown network")
)
