package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/jobscreen/internal/flagx"
)

// Environment variables recognised by parseEnv. They take precedence over
// the JSON file and flags.
const (
	EnvAddress            = "ADDRESS"
	EnvGRPCAddress        = "GRPC_ADDRESS"
	EnvDatabasePath       = "DATABASE_PATH"
	EnvSecretKey          = "SECRET_KEY"
	EnvAlgorithm          = "ALGORITHM"
	EnvAccessTokenMinutes = "ACCESS_TOKEN_EXPIRE_MINUTES"
	EnvKeywordsFile       = "KEYWORDS_FILE"
	EnvModelPaths         = "MODEL_PATHS"
	EnvPasswordHashCost   = "PASSWORD_HASH_COST"
	EnvS3RootUser         = "S3_ROOT_USER"
	EnvS3RootPassword     = "S3_ROOT_PASSWORD"
	EnvS3Bucket           = "S3_BUCKET"
	EnvS3Region           = "S3_REGION"
	EnvS3BaseEndpoint     = "S3_BASE_ENDPOINT"
)

// parseEnv overlays values from environment variables. A set but empty
// GRPC_ADDRESS disables the gRPC endpoint; other empty values are ignored.
// Unparsable numbers panic, like an invalid JSON file.
func parseEnv(config *Config) {
	envString(&config.EndpointAddrHTTP, EnvAddress)
	if v, ok := os.LookupEnv(EnvGRPCAddress); ok {
		config.EndpointAddrGRPC = v
	}
	envString(&config.DatabasePath, EnvDatabasePath)
	envString(&config.SecretKey, EnvSecretKey)
	envString(&config.SigningAlgorithm, EnvAlgorithm)

	if v := os.Getenv(EnvAccessTokenMinutes); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}

	envString(&config.KeywordsFile, EnvKeywordsFile)
	if v := os.Getenv(EnvModelPaths); v != "" {
		config.ModelPaths = flagx.SplitList(v)
	}
	if v := os.Getenv(EnvPasswordHashCost); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.PasswordHashCost = cost
	}

	envString(&config.S3RootUser, EnvS3RootUser)
	envString(&config.S3RootPassword, EnvS3RootPassword)
	envString(&config.S3Bucket, EnvS3Bucket)
	envString(&config.S3Region, EnvS3Region)
	envString(&config.S3BaseEndpoint, EnvS3BaseEndpoint)
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
