// Package config handles configuration for the server component,
// including defaults, JSON overlay, command-line flags and environment
// variables.
package config

import "time"

// Config holds runtime settings for the jobscreen server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP API.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint; empty disables it.
//   - DatabasePath: SQLite database file.
//   - SecretKey / SigningAlgorithm: HMAC secret and algorithm (HS256, HS384, HS512) for access tokens.
//   - AccessTokenValidityDuration: access token lifetime.
//   - KeywordsFile: optional replacement for the embedded indicator table.
//   - ModelPaths: exported linear models, tried in the given order.
//   - PasswordHashCost: bcrypt cost; zero selects the library default.
//   - S3*: object storage used for CSV archives; an empty bucket disables archiving.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabasePath                string
	SecretKey                   string
	SigningAlgorithm            string
	AccessTokenValidityDuration time.Duration
	KeywordsFile                string
	ModelPaths                  []string
	PasswordHashCost            int
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key default is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabasePath = "database.db"
	c.SecretKey = "mysecretkey123"
	c.SigningAlgorithm = "HS256"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.KeywordsFile = ""
	c.ModelPaths = nil
	c.PasswordHashCost = 0
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, command-line flags and finally environment
// variables.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	parseEnv(cfg)
	return cfg
}
