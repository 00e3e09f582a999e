// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auth loads researchmap API credentials and builds the signed
// assertion exchanged for a bearer token.
package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/pdiddy/researchmap-site/internal/logging"
	"github.com/pdiddy/researchmap-site/internal/secrets"
)

// AssertionLifetime is how long a signed assertion stays valid.
const AssertionLifetime = 300 * time.Second

// ErrMissingCredentials means the API key or secret could not be found.
// It is a configuration error: the run stops before any network call.
var ErrMissingCredentials = errors.New("researchmap API key and secret are required")

// Credentials is the API key/secret pair.
type Credentials struct {
	Key    string `envconfig:"RESEARCHMAP_API_KEY"`
	Secret string `envconfig:"RESEARCHMAP_API_SECRET"`
}

// Complete reports whether both halves are set.
func (c Credentials) Complete() bool {
	return c.Key != "" && c.Secret != ""
}

func (c *Credentials) fill(other Credentials) {
	if c.Key == "" {
		c.Key = other.Key
	}
	if c.Secret == "" {
		c.Secret = other.Secret
	}
}

// Sources names where credentials are looked up.
type Sources struct {
	// SecretsDir holds researchmap-api-key and researchmap-api-secret.
	SecretsDir string
	// DotEnv is a .env file. A missing file is skipped.
	DotEnv string
}

// DefaultSources looks in .secrets/ and .env under the working directory.
func DefaultSources() Sources {
	return Sources{SecretsDir: secrets.DefaultDir, DotEnv: ".env"}
}

// LoadCredentials reads the secrets directory, then the .env file, then the
// RESEARCHMAP_API_KEY and RESEARCHMAP_API_SECRET environment variables. A
// later source only fills values that are still empty. Missing values
// return an error wrapping ErrMissingCredentials.
func LoadCredentials(src Sources, logger *zap.Logger) (Credentials, error) {
	logger = logging.OrNop(logger)
	var creds Credentials

	if src.SecretsDir != "" {
		files, err := secrets.Load(src.SecretsDir, logger)
		if err != nil {
			return Credentials{}, err
		}
		creds.fill(Credentials{Key: files[secrets.KeyAPIKey], Secret: files[secrets.KeyAPISecret]})
	}

	if src.DotEnv != "" && !creds.Complete() {
		vars, err := godotenv.Read(src.DotEnv)
		switch {
		case err == nil:
			creds.fill(Credentials{Key: vars["RESEARCHMAP_API_KEY"], Secret: vars["RESEARCHMAP_API_SECRET"]})
		case errors.Is(err, os.ErrNotExist):
		default:
			return Credentials{}, fmt.Errorf("reading %s: %w", src.DotEnv, err)
		}
	}

	if !creds.Complete() {
		var env Credentials
		if err := envconfig.Process("", &env); err != nil {
			return Credentials{}, fmt.Errorf("reading credential environment: %w", err)
		}
		creds.fill(env)
	}

	if !creds.Complete() {
		return Credentials{}, fmt.Errorf("loading credentials: %w", ErrMissingCredentials)
	}
	logger.Debug("credentials loaded")
	return creds, nil
}

// BuildAssertion signs an HS256 JWT with the API secret. The issuer is the
// API key, issued-at is now, and expiry is now plus AssertionLifetime.
func BuildAssertion(creds Credentials, now time.Time) (string, error) {
	if !creds.Complete() {
		return "", fmt.Errorf("building assertion: %w", ErrMissingCredentials)
	}
	claims := jwt.RegisteredClaims{
		Issuer:    creds.Key,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AssertionLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(creds.Secret))
	if err != nil {
		return "", fmt.Errorf("signing assertion: %w", err)
	}
	return signed, nil
}
