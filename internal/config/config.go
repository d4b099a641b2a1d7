// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Takhirov

// Package config assembles the library configuration from explicit values
// supplied by the application shell and from environment variables. Sources
// are merged in priority order (shell values win, then env, then defaults)
// and validated once at build time.
package config

import (
	"errors"
	"time"
)

// StructuredConfig is the merged configuration for the whole library.
type StructuredConfig struct {
	Remote  RemoteConfig  `envPrefix:"MENUKEEPER_REMOTE_"`
	Storage StorageConfig `envPrefix:"MENUKEEPER_STORAGE_"`
	Sync    SyncConfig    `envPrefix:"MENUKEEPER_SYNC_"`
	Log     LogConfig     `envPrefix:"MENUKEEPER_LOG_"`
}

// RemoteConfig holds settings for the remote origin HTTP client.
type RemoteConfig struct {
	// BaseURL is the root URL of the remote origin API.
	BaseURL string `env:"BASE_URL"`
	// RequestTimeout bounds each individual remote call so a stuck request
	// cannot stall a whole sync pass.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// StorageConfig holds local persistence settings.
type StorageConfig struct {
	// DBPath is the SQLite database file path. Empty selects an in-memory
	// database, which still exercises the durable engine.
	DBPath string `env:"DB_PATH"`
	// FallbackPath is the JSON snapshot file used by the degraded backend
	// when the durable engine cannot be opened. Empty keeps the fallback
	// purely in memory.
	FallbackPath string `env:"FALLBACK_PATH"`
}

// SyncConfig holds orchestrator and monitor timing settings.
type SyncConfig struct {
	// PollInterval is the low-frequency foreground poll that catches missed
	// connectivity transitions. Zero disables polling.
	PollInterval time.Duration `env:"POLL_INTERVAL"`
	// StatusResetDelay is how long a terminal completed/error status stays
	// visible before the monitor returns to idle.
	StatusResetDelay time.Duration `env:"STATUS_RESET_DELAY"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// FilePath, when set, redirects log output to a file inside the app's
	// data directory. Empty logs to stdout.
	FilePath string `env:"FILE_PATH"`
}

var (
	// ErrNoRemoteBaseURL is returned by validation when no remote origin URL
	// has been configured through any source.
	ErrNoRemoteBaseURL = errors.New("remote base URL is not configured")

	// ErrInvalidTimeout is returned by validation when a negative duration is
	// supplied for a timeout or interval setting.
	ErrInvalidTimeout = errors.New("timeouts and intervals must not be negative")
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		Remote: RemoteConfig{
			RequestTimeout: 15 * time.Second,
		},
		Sync: SyncConfig{
			PollInterval:     5 * time.Minute,
			StatusResetDelay: 4 * time.Second,
		},
	}
}

func (c *StructuredConfig) validate() error {
	if c.Remote.BaseURL == "" {
		return ErrNoRemoteBaseURL
	}
	if c.Remote.RequestTimeout < 0 || c.Sync.PollInterval < 0 || c.Sync.StatusResetDelay < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// GetStructuredConfig merges the shell-supplied overrides with environment
// variables and library defaults, highest priority first, and validates the
// result. overrides may be nil when everything comes from the environment.
func GetStructuredConfig(overrides *StructuredConfig) (*StructuredConfig, error) {
	b := newConfigBuilder()
	if overrides != nil {
		b = b.withOverrides(overrides)
	}

	return b.withEnv().withDefaults().build()
}
