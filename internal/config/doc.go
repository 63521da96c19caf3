// Package config holds txdig's runtime configuration and loads the
// optional .txdig YAML file.
package config
