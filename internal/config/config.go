// Package config loads the server configuration from YAML, with environment
// overrides for deployments that configure through the process environment.
package config

import (
	"fmt"
	"time"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
}

// ServerConfig holds the listen addresses. WebSocketListen and APIListen
// are optional; an empty address disables that surface.
type ServerConfig struct {
	Listen          string `yaml:"listen"`
	WebSocketListen string `yaml:"websocket_listen"`
	APIListen       string `yaml:"api_listen"`
}

// StorageConfig selects and locates the store.
type StorageConfig struct {
	// Driver is "sqlite" or "memory".
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// SessionConfig holds the session loop timing.
type SessionConfig struct {
	TickRate         int `yaml:"tick_rate"`
	DeadTimeoutSecs  int `yaml:"dead_timeout_secs"`
	PingIntervalSecs int `yaml:"ping_interval_secs"`
}

// TickInterval converts the configured tick rate to a loop interval.
func (s SessionConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// DeadTimeout returns the silence window after which a connection is dead.
func (s SessionConfig) DeadTimeout() time.Duration {
	return time.Duration(s.DeadTimeoutSecs) * time.Second
}

// PingInterval returns the gap between server pings to a silent connection.
func (s SessionConfig) PingInterval() time.Duration {
	return time.Duration(s.PingIntervalSecs) * time.Second
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("config: server.listen must be set")
	}
	switch c.Storage.Driver {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		return fmt.Errorf("config: storage.path must be set for the sqlite driver")
	}
	if c.Session.TickRate <= 0 {
		return fmt.Errorf("config: session.tick_rate must be positive")
	}
	if c.Session.DeadTimeoutSecs <= 0 || c.Session.PingIntervalSecs <= 0 {
		return fmt.Errorf("config: session timeouts must be positive")
	}
	if c.Session.PingIntervalSecs >= c.Session.DeadTimeoutSecs {
		return fmt.Errorf("config: session.ping_interval_secs must be below dead_timeout_secs")
	}
	return nil
}
