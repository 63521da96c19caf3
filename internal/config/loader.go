package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/txdig/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".txdig"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .txdig configuration file.
// Every field is optional; unset fields keep the built-in defaults.
type File struct {
	OutputDir    string         `yaml:"output_dir,omitempty"`
	Timeout      *time.Duration `yaml:"timeout,omitempty"`
	Attempts     *int           `yaml:"attempts,omitempty"`
	Backoff      *time.Duration `yaml:"backoff,omitempty"`
	RequestDelay *time.Duration `yaml:"request_delay,omitempty"`

	// UserAgents replaces the rotated User-Agent identities.
	UserAgents []string `yaml:"user_agents,omitempty"`

	// Providers replaces the address mode provider list. Templates use
	// {address}.
	Providers []model.Endpoint `yaml:"providers,omitempty"`

	// Networks overrides transaction URL templates per network name.
	// Templates use {txid}.
	Networks map[string]string `yaml:"networks,omitempty"`

	// DetailURL overrides the batch detail template. It uses {txid}.
	DetailURL string `yaml:"detail_url,omitempty"`

	// Proxy is a SOCKS5 proxy address every request goes through.
	Proxy string `yaml:"proxy,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// Apply copies every set field of the file onto c.
func (cf *File) Apply(c *Config) error {
	if cf.OutputDir != "" {
		c.OutputDir = cf.OutputDir
	}
	if cf.Timeout != nil {
		c.Timeout = *cf.Timeout
	}
	if cf.Attempts != nil {
		c.Attempts = *cf.Attempts
	}
	if cf.Backoff != nil {
		c.Backoff = *cf.Backoff
	}
	if cf.RequestDelay != nil {
		c.RequestDelay = *cf.RequestDelay
	}
	if len(cf.UserAgents) > 0 {
		c.UserAgents = append([]string(nil), cf.UserAgents...)
	}
	if len(cf.Providers) > 0 {
		c.Endpoints = append([]model.Endpoint(nil), cf.Providers...)
	}
	if len(cf.Networks) > 0 {
		urls := make(map[model.Network]string, len(c.NetworkURLs)+len(cf.Networks))
		for n, u := range c.NetworkURLs {
			urls[n] = u
		}
		for name, u := range cf.Networks {
			n, err := model.ParseNetwork(name)
			if err != nil {
				return err
			}
			urls[n] = u
		}
		c.NetworkURLs = urls
	}
	if cf.DetailURL != "" {
		c.DetailURL = cf.DetailURL
	}
	if cf.Proxy != "" {
		c.ProxyAddress = cf.Proxy
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .txdig in the current directory
// 3. Look for .txdig in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load resolves and applies the configuration file to c.
//
// An explicit path that does not exist is an error. Without an explicit
// path a missing file is not an error and c keeps its defaults. The
// returned path is empty when no file was used.
func Load(c *Config, configPath string) (string, error) {
	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return "", nil
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		return path, err
	}
	if err := cf.Apply(c); err != nil {
		return path, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return path, nil
}
