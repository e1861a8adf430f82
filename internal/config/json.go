// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON files. Durations
// are written as Go duration strings ("24h") or as nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		TokenDuration      Duration `json:"token_duration"`
		PublicBaseURL         string   `json:"public_base_url"`
		TrustForwardedHeaders bool     `json:"trust_forwarded_headers"`
		CORSAllowedOrigins    []string `json:"cors_allowed_origins"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			Backend   string `json:"backend"`
			StaticDir string `json:"static_dir"`
			S3        struct {
				Endpoint  string `json:"endpoint"`
				Region    string `json:"region"`
				Bucket    string `json:"bucket"`
				AccessKey string `json:"access_key"`
				SecretKey string `json:"secret_key"`
				PublicURL string `json:"public_url"`
			} `json:"s3,omitempty"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"server,omitempty"`

	Providers struct {
		Identity struct {
			ClientID    string   `json:"client_id"`
			Mode        string   `json:"mode"`
			CertsURL    string   `json:"certs_url"`
			UserInfoURL string   `json:"userinfo_url"`
			Timeout     Duration `json:"timeout"`
		} `json:"identity,omitempty"`

		Generation struct {
			APIToken     string   `json:"api_token"`
			BaseURL      string   `json:"base_url"`
			Model        string   `json:"model"`
			PollInterval Duration `json:"poll_interval"`
			Timeout      Duration `json:"timeout"`
		} `json:"generation,omitempty"`
	} `json:"providers,omitempty"`

	Workers struct {
		OrphanSweepInterval Duration `json:"orphan_sweep_interval"`
		OrphanGracePeriod   Duration `json:"orphan_grace_period"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	s3 := jsonCfg.Storage.Files.S3
	identity := jsonCfg.Providers.Identity
	generation := jsonCfg.Providers.Generation

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:          jsonCfg.App.TokenSignKey,
			TokenIssuer:           jsonCfg.App.TokenIssuer,
			TokenDuration:         time.Duration(jsonCfg.App.TokenDuration),
			PublicBaseURL:         jsonCfg.App.PublicBaseURL,
			TrustForwardedHeaders: jsonCfg.App.TrustForwardedHeaders,
			CORSAllowedOrigins:    jsonCfg.App.CORSAllowedOrigins,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				Backend:   jsonCfg.Storage.Files.Backend,
				StaticDir: jsonCfg.Storage.Files.StaticDir,
				S3: S3{
					Endpoint:  s3.Endpoint,
					Region:    s3.Region,
					Bucket:    s3.Bucket,
					AccessKey: s3.AccessKey,
					SecretKey: s3.SecretKey,
					PublicURL: s3.PublicURL,
				},
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
		},
		Providers: Providers{
			Identity: Identity{
				ClientID:    identity.ClientID,
				Mode:        identity.Mode,
				CertsURL:    identity.CertsURL,
				UserInfoURL: identity.UserInfoURL,
				Timeout:     time.Duration(identity.Timeout),
			},
			Generation: Generation{
				APIToken:     generation.APIToken,
				BaseURL:      generation.BaseURL,
				Model:        generation.Model,
				PollInterval: time.Duration(generation.PollInterval),
				Timeout:      time.Duration(generation.Timeout),
			},
		},
		Workers: Workers{
			OrphanSweepInterval: time.Duration(jsonCfg.Workers.OrphanSweepInterval),
			OrphanGracePeriod:   time.Duration(jsonCfg.Workers.OrphanGracePeriod),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
