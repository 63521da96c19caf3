package resolver

import "errors"

var (
	// ErrMalformedPayload is returned when a provider answered with a body
	// that is not the expected JSON document.
	ErrMalformedPayload = errors.New("malformed provider payload")

	// ErrNoNetworkURL is returned when no transaction provider is configured
	// for the requested network.
	ErrNoNetworkURL = errors.New("no transaction provider configured for network")
)
