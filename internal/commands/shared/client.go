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

package shared

import (
	"context"
	"log/slog"

	"github.com/tombee/linkpost/internal/config"
	"github.com/tombee/linkpost/pkg/linkedin"
)

// LoadConfig loads the effective configuration, honoring --config.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, ClassifyError(err)
	}
	return cfg, nil
}

// NewClient loads configuration and constructs a LinkedIn client. The
// returned client has already resolved the member profile and negotiated an
// API version.
func NewClient(ctx context.Context, logger *slog.Logger) (*linkedin.Client, *config.Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	lock := cfg.LinkedIn.VersionLock
	if v := GetAPIVersion(); v != "" {
		lock = v
	}

	client, err := linkedin.New(ctx, linkedin.Config{
		AccessToken: cfg.LinkedIn.AccessToken,
		VersionLock: lock,
		StartMonth:  cfg.LinkedIn.VersionStart,
		Lookback:    cfg.LinkedIn.Lookback,
		Logger:      logger,
	})
	if err != nil {
		return nil, nil, ClassifyError(err)
	}

	return client, cfg, nil
}
