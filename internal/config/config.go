// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// Files storage backends.
const (
	FilesBackendLocal = "local"
	FilesBackendS3    = "s3"
)

// Federated credential verification modes.
const (
	// IdentityModeIDToken verifies a signed ID token locally against the
	// provider's published keys.
	IdentityModeIDToken = "id_token"

	// IdentityModeAccessToken exchanges an opaque access token at the
	// provider's user-info endpoint.
	IdentityModeAccessToken = "access_token"

	// IdentityModeAuto picks one of the above per credential: JWT-shaped
	// credentials are treated as ID tokens, anything else as access tokens.
	IdentityModeAuto = "auto"
)

// StructuredConfig is the top-level configuration container for the
// image generation server. It aggregates all sub-configurations and is
// populated by merging built-in defaults, environment variables,
// command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters and public-facing settings.
	App App `envPrefix:"APP_"`

	// Storage holds the relational database and image file store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Providers holds the settings of the external identity and image
	// generation providers.
	Providers Providers `envPrefix:"PROVIDERS_"`

	// Workers holds configuration for background workers.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// TokenSignKey is the secret used to sign and verify bearer tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a token remains valid after issuance.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// PublicBaseURL is the externally visible scheme://host[:port] prefix of
	// the server. When empty, URLs are derived from the incoming request.
	// Env: APP_PUBLIC_BASE_URL
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// TrustForwardedHeaders makes request-derived URLs honour
	// X-Forwarded-Proto and X-Forwarded-Host. Enable it only behind a reverse
	// proxy that overwrites these headers.
	// Env: APP_TRUST_FORWARDED_HEADERS
	TrustForwardedHeaders bool `env:"TRUST_FORWARDED_HEADERS"`

	// CORSAllowedOrigins lists browser origins allowed to call the API.
	// Env: APP_CORS_ALLOWED_ORIGINS (comma separated)
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	DB    DB    `envPrefix:"DB_"`
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN selects both the driver and the database:
	//   - postgres://... or postgresql://...   PostgreSQL via pgx
	//   - sqlite://path, file:path or path.db  SQLite via go-sqlite3
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Files holds settings of the generated image store.
type Files struct {
	// Backend is either "local" or "s3".
	// Env: STORAGE_FILES_BACKEND
	Backend string `env:"BACKEND"`

	// StaticDir is the root directory of the local backend. Images are
	// written to <StaticDir>/images and served under /static/.
	// Env: STORAGE_FILES_STATIC_DIR
	StaticDir string `env:"STATIC_DIR"`

	// S3 holds the object storage settings used when Backend is "s3".
	S3 S3 `envPrefix:"S3_"`
}

// S3 holds settings for an S3-compatible object store (AWS S3, MinIO).
type S3 struct {
	Endpoint  string `env:"ENDPOINT"`
	Region    string `env:"REGION"`
	Bucket    string `env:"BUCKET"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`

	// PublicURL is the prefix under which bucket objects are publicly
	// readable, e.g. "https://cdn.example.com/images-bucket".
	PublicURL string `env:"PUBLIC_URL"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration of a single inbound request.
	// Zero disables the limit.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Providers groups the external provider integrations.
type Providers struct {
	Identity   Identity   `envPrefix:"IDENTITY_"`
	Generation Generation `envPrefix:"GENERATION_"`
}

// Identity configures federated login verification.
type Identity struct {
	// ClientID is the OAuth client identifier the ID token audience must match.
	// Env: PROVIDERS_IDENTITY_CLIENT_ID
	ClientID string `env:"CLIENT_ID"`

	// Mode is one of "id_token", "access_token" or "auto".
	// Env: PROVIDERS_IDENTITY_MODE
	Mode string `env:"MODE"`

	// CertsURL returns the provider signing certificates as a JSON object
	// mapping key id to PEM encoded X.509 certificate.
	// Env: PROVIDERS_IDENTITY_CERTS_URL
	CertsURL string `env:"CERTS_URL"`

	// UserInfoURL is the endpoint that resolves an access token to a profile.
	// Env: PROVIDERS_IDENTITY_USERINFO_URL
	UserInfoURL string `env:"USERINFO_URL"`

	// Timeout bounds every call to the identity provider.
	// Env: PROVIDERS_IDENTITY_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Generation configures the image generation provider.
type Generation struct {
	// APIToken is the provider API credential.
	// Env: PROVIDERS_GENERATION_API_TOKEN
	APIToken string `env:"API_TOKEN"`

	// BaseURL is the provider API root.
	// Env: PROVIDERS_GENERATION_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// Model is the "<owner>/<name>" identifier of the generation model.
	// Env: PROVIDERS_GENERATION_MODEL
	Model string `env:"MODEL"`

	// PollInterval is the delay between prediction status checks.
	// Env: PROVIDERS_GENERATION_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// Timeout bounds a whole generation: submission, polling and download.
	// Env: PROVIDERS_GENERATION_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// OrphanSweepInterval is the period of the orphan image file sweep.
	// Zero disables the sweep.
	// Env: WORKERS_ORPHAN_SWEEP_INTERVAL
	OrphanSweepInterval time.Duration `env:"ORPHAN_SWEEP_INTERVAL"`

	// OrphanGracePeriod protects files younger than this from the sweep, so
	// that a generation still between file write and row insert is not raced.
	// Env: WORKERS_ORPHAN_GRACE_PERIOD
	OrphanGracePeriod time.Duration `env:"ORPHAN_GRACE_PERIOD"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  0. Built-in defaults
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}

// defaultConfig returns the lowest-priority configuration layer.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:        "imagegen",
			TokenDuration:      24 * time.Hour,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
		},
		Storage: Storage{
			DB: DB{DSN: "sqlite://app.db"},
			Files: Files{
				Backend:   FilesBackendLocal,
				StaticDir: "static",
			},
		},
		Server: Server{
			HTTPAddress:     ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Providers: Providers{
			Identity: Identity{
				Mode:        IdentityModeIDToken,
				CertsURL:    "https://www.googleapis.com/oauth2/v1/certs",
				UserInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
				Timeout:     10 * time.Second,
			},
			Generation: Generation{
				BaseURL:      "https://api.replicate.com",
				Model:        "black-forest-labs/flux-schnell",
				PollInterval: time.Second,
				Timeout:      120 * time.Second,
			},
		},
		Workers: Workers{
			OrphanGracePeriod: time.Hour,
		},
	}
}
