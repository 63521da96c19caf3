package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoMode is returned when neither an address nor a txid is given.
	ErrNoMode = errors.New("no mode selected: provide -a <address> or [network] <txid> <level>")

	// ErrInvalidLevel is returned when the dig level is negative.
	ErrInvalidLevel = errors.New("invalid level: must be zero or positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidAttempts is returned when the retry budget is not positive.
	ErrInvalidAttempts = errors.New("invalid attempts: must be positive")

	// ErrInvalidDelay is returned when the backoff or request delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingProxy is returned when both --tor and --proxy are set.
	ErrConflictingProxy = errors.New("conflicting proxy settings: --tor and --proxy cannot be used together")

	// ErrNoOutputDir is returned when --save is used with an empty output directory.
	ErrNoOutputDir = errors.New("no output directory for --save")

	// ErrNoEndpoints is returned when address mode has no providers.
	ErrNoEndpoints = errors.New("no address providers configured")

	// ErrInvalidEndpoint is returned when a provider lacks a name or URL.
	ErrInvalidEndpoint = errors.New("invalid address provider: name and url are required")

	// ErrDuplicateEndpoint is returned when two providers share a name.
	// Address snapshots are keyed by provider name.
	ErrDuplicateEndpoint = errors.New("duplicate address provider name")

	// ErrUnknownNetwork is returned when dig mode targets a network
	// without a transaction URL.
	ErrUnknownNetwork = errors.New("unknown network")
)
