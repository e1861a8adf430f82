// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface. An empty host means "all
// interfaces", so ":8080" is accepted.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses the command-line arguments into a configuration layer.
// Unset flags leave their fields zero.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-static-dir directory for locally stored images
//	-files-backend image storage backend (local or s3)
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "24h", "30m")
//	-public-base-url externally visible base URL of the server
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-google-client-id OAuth client id for federated login
//	-identity-mode federated credential mode (id_token, access_token, auto)
//	-replicate-api-token image provider API token
//	-orphan-sweep-interval orphan image sweep period, 0 disables it
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("imagegen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var staticDir string
	var filesBackend string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var publicBaseURL string
	var requestTimeout time.Duration
	var clientID string
	var identityMode string
	var apiToken string
	var sweepInterval time.Duration

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&staticDir, "static-dir", "", "Directory for locally stored images")
	fs.StringVar(&filesBackend, "files-backend", "", "Image storage backend: local or s3")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 24h, 30m)")
	fs.StringVar(&publicBaseURL, "public-base-url", "", "Externally visible base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&clientID, "google-client-id", "", "OAuth client id for federated login")
	fs.StringVar(&identityMode, "identity-mode", "", "Federated credential mode: id_token, access_token or auto")
	fs.StringVar(&apiToken, "replicate-api-token", "", "Image provider API token")
	fs.DurationVar(&sweepInterval, "orphan-sweep-interval", 0, "Orphan image sweep period, 0 disables it")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			PublicBaseURL: publicBaseURL,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Files: Files{
				Backend:   filesBackend,
				StaticDir: staticDir,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Providers: Providers{
			Identity: Identity{
				ClientID: clientID,
				Mode:     identityMode,
			},
			Generation: Generation{
				APIToken: apiToken,
			},
		},
		Workers: Workers{
			OrphanSweepInterval: sweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form [host]:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is empty or
// "localhost", and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
