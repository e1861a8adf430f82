// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Provider credentials (identity client id, generation API token) are not
// required here: their absence only disables the corresponding operation.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenDuration <= 0 {
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}

	switch cfg.Storage.Files.Backend {
	case FilesBackendLocal:
		if cfg.Storage.Files.StaticDir == "" {
			return fmt.Errorf("%w: static dir is required for local backend", ErrInvalidStorageConfigs)
		}
	case FilesBackendS3:
		if cfg.Storage.Files.S3.Bucket == "" {
			return fmt.Errorf("%w: bucket is required for s3 backend", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown files backend %q", ErrInvalidStorageConfigs, cfg.Storage.Files.Backend)
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	}

	switch cfg.Providers.Identity.Mode {
	case IdentityModeIDToken, IdentityModeAccessToken, IdentityModeAuto:
	default:
		return fmt.Errorf("%w: unknown identity mode %q", ErrInvalidProviderConfigs, cfg.Providers.Identity.Mode)
	}

	return nil
}
