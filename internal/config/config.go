// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads linkpost configuration with a fixed precedence:
// environment variables override the YAML config file, and the system
// keychain is consulted for the access token when neither provides one.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/tombee/linkpost/internal/secrets"
	linkposterrors "github.com/tombee/linkpost/pkg/errors"
)

// Environment variables recognized by Load.
const (
	EnvAccessToken  = "LINKEDIN_ACCESS_TOKEN"
	EnvVersionLock  = "LINKEDIN_VERSION_LOCK"
	EnvVersionStart = "LINKEDIN_VERSION_START"
	EnvLookback     = "LINKEDIN_VERSION_LOOKBACK"
)

// Config is the complete linkpost configuration.
type Config struct {
	LinkedIn LinkedInConfig `yaml:"linkedin"`
}

// LinkedInConfig configures the LinkedIn API client.
type LinkedInConfig struct {
	// AccessToken is the OAuth bearer token. Storing it in the config file
	// works but the keychain (linkpost auth set-token) is preferred.
	AccessToken string `yaml:"access_token,omitempty"`

	// VersionLock pins a single YYYYMM API version and disables probing.
	VersionLock string `yaml:"version_lock,omitempty"`

	// VersionStart overrides the probe starting month (YYYYMM).
	// Default: current calendar month.
	VersionStart string `yaml:"version_start,omitempty"`

	// Lookback is how many months below the starting month to probe.
	Lookback int `yaml:"lookback,omitempty"`

	// Visibility is the default post visibility. Default: PUBLIC.
	Visibility string `yaml:"visibility,omitempty"`
}

// Load resolves the configuration: the YAML file at path (default
// ConfigPath) first, then environment overrides, then the keychain for a
// missing access token. A missing config file is not an error; a malformed
// one is.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, &linkposterrors.ConfigError{
				Key:    "config_path",
				Reason: "cannot determine config directory",
				Cause:  err,
			}
		}
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &linkposterrors.ConfigError{
				Key:    "config_file",
				Reason: fmt.Sprintf("malformed YAML in %s", path),
				Cause:  err,
			}
		}
	case os.IsNotExist(err):
		// No file is fine; env and keychain may carry everything.
	default:
		return nil, &linkposterrors.ConfigError{
			Key:    "config_file",
			Reason: fmt.Sprintf("cannot read %s", path),
			Cause:  err,
		}
	}

	applyEnv(cfg)

	if cfg.LinkedIn.AccessToken == "" {
		if token, err := keychainToken(); err == nil {
			cfg.LinkedIn.AccessToken = token
		}
	}

	return cfg, nil
}

// keychainToken is indirected so tests can run without a system keychain.
var keychainToken = secrets.GetToken

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAccessToken); v != "" {
		cfg.LinkedIn.AccessToken = v
	}
	if v := os.Getenv(EnvVersionLock); v != "" {
		cfg.LinkedIn.VersionLock = v
	}
	if v := os.Getenv(EnvVersionStart); v != "" {
		cfg.LinkedIn.VersionStart = v
	}
	if v := os.Getenv(EnvLookback); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LinkedIn.Lookback = n
		}
	}
}

// Save writes cfg to path (default ConfigPath) with owner-only permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return &linkposterrors.ConfigError{
				Key:    "config_path",
				Reason: "cannot determine config directory",
				Cause:  err,
			}
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return linkposterrors.Wrap(err, "encoding config")
	}

	// Token material may be present; keep the file private.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return &linkposterrors.ConfigError{
			Key:    "config_file",
			Reason: fmt.Sprintf("cannot write %s", path),
			Cause:  err,
		}
	}

	return nil
}
