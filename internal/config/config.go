// Package config loads the server and client runtime settings from
// environment variables via struct tags (spec §6 ADDED), the way
// titoffon's lru-cache-service binds its cache configuration.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// ServerConfig holds everything cmd/boundedcached needs to start the
// engine and the listener. Zero-value fields are filled from their `envDefault`
// tag before a pflag override is applied on top in main.go.
type ServerConfig struct {
	Address       string        `env:"BOUNDEDCACHE_ADDRESS" envDefault:"0.0.0.0:8080"`
	Capacity      uint64        `env:"BOUNDEDCACHE_CAPACITY" envDefault:"512"`
	StatsInterval time.Duration `env:"BOUNDEDCACHE_STATS_INTERVAL" envDefault:"30s"`
}

// ClientConfig holds the one setting cmd/boundedcache-cli needs to dial
// the server.
type ClientConfig struct {
	Address string `env:"BOUNDEDCACHE_ADDRESS" envDefault:"127.0.0.1:8080"`
}

// LoadServerConfig reads ServerConfig from the environment, applying
// envDefault for anything unset.
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, errors.Wrap(err, "loading server config from environment")
	}
	return cfg, nil
}

// LoadClientConfig reads ClientConfig from the environment.
func LoadClientConfig() (ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return ClientConfig{}, errors.Wrap(err, "loading client config from environment")
	}
	return cfg, nil
}
