package config

import (
	"path/filepath"
	"slices"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/txdig/internal/fetch"
	"github.com/nao1215/txdig/internal/model"
	"github.com/nao1215/txdig/internal/resolver"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "txdig"

	// DefaultOutputDir is where --save writes its dumps.
	DefaultOutputDir = "utxdump"

	// DefaultTorProxyAddress is the standard Tor SOCKS5 proxy address.
	DefaultTorProxyAddress = "127.0.0.1:9050"

	// DefaultTorStartupTimeout bounds bootstrapping of the embedded daemon.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Config holds all configuration options for txdig.
// It is populated from the config file and CLI flags and passed down by
// the command layer; nothing reads it from global state.
type Config struct {
	// Address selects address mode when non-empty.
	Address string

	// Network, Txid and MaxLevel select dig mode.
	Network  model.Network
	Txid     string
	MaxLevel int

	// Save writes the result document into OutputDir.
	Save      bool
	OutputDir string

	// Timeout is the per-attempt HTTP timeout.
	Timeout time.Duration

	// Attempts and Backoff form the retry policy of every fetch.
	Attempts int
	Backoff  time.Duration

	// RequestDelay precedes every single transaction lookup in dig mode.
	RequestDelay time.Duration

	// Endpoints are the address mode providers, queried concurrently.
	Endpoints []model.Endpoint

	// NetworkURLs are the dig mode transaction URL templates.
	NetworkURLs map[model.Network]string

	// DetailURL is the batch transaction detail template of address mode.
	DetailURL string

	// UserAgents replaces the rotated identities when non-empty.
	UserAgents []string

	// JSONReport and MarkdownReport select the output format.
	// They are mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// NoColor disables colored console output.
	NoColor bool

	// ProxyAddress routes every request through a SOCKS5 proxy when set.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes through it.
	// It cannot be combined with ProxyAddress.
	UseTor            bool
	TorStartupTimeout time.Duration

	// Verbose enables debug logging; LogJSON switches the log format.
	Verbose bool
	LogJSON bool

	// ConfigFilePath is the explicit --config path, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	policy := fetch.DefaultRetryPolicy()
	return &Config{
		Network:           model.NetworkBitcoin,
		OutputDir:         DefaultOutputDir,
		Timeout:           fetch.DefaultTimeout,
		Attempts:          policy.Attempts,
		Backoff:           policy.Backoff,
		RequestDelay:      resolver.DefaultRequestDelay,
		Endpoints:         resolver.DefaultAddressEndpoints(),
		NetworkURLs:       resolver.DefaultNetworkURLs(),
		DetailURL:         resolver.DefaultDetailURL,
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// AddressMode reports whether the configuration selects address mode.
func (c *Config) AddressMode() bool {
	return c.Address != ""
}

// DigMode reports whether the configuration selects dig mode.
func (c *Config) DigMode() bool {
	return !c.AddressMode() && c.Txid != ""
}

// XDGConfigDir returns the XDG config directory for txdig.
// On Linux: ~/.config/txdig
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGDataDir returns the XDG data directory for txdig.
// On Linux: ~/.local/share/txdig
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if !c.AddressMode() && !c.DigMode() {
		return ErrNoMode
	}
	if c.DigMode() && c.MaxLevel < 0 {
		return ErrInvalidLevel
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Attempts <= 0 {
		return ErrInvalidAttempts
	}
	if c.Backoff < 0 || c.RequestDelay < 0 {
		return ErrInvalidDelay
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingProxy
	}
	if c.Save && c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.AddressMode() {
		if len(c.Endpoints) == 0 {
			return ErrNoEndpoints
		}
		names := make([]string, 0, len(c.Endpoints))
		for _, ep := range c.Endpoints {
			if ep.Name == "" || ep.URL == "" {
				return ErrInvalidEndpoint
			}
			if slices.Contains(names, ep.Name) {
				return ErrDuplicateEndpoint
			}
			names = append(names, ep.Name)
		}
	}
	if c.DigMode() {
		if _, ok := c.NetworkURLs[c.Network]; !ok {
			return ErrUnknownNetwork
		}
	}
	return nil
}
