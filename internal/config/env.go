// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates cfg from environment variables. Nested groups resolve
// their variable names by concatenating `envPrefix` tags, so
// Providers.Generation.APIToken is read from PROVIDERS_GENERATION_API_TOKEN.
//
// Unset variables leave the corresponding field zero, which lets the
// defaults layer win during the merge.
func parseEnv(cfg *StructuredConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
