package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/falconusers/internal/flagx"
	"github.com/joho/godotenv"
)

// dotenvFiles are tried in order when -env-file is not given. Missing files
// are skipped. godotenv never overrides variables already set in the process
// environment.
var dotenvFiles = []string{".env.local", ".env"}

// parseEnv loads dotenv files into the process environment and overlays
// every recognized variable onto config.
//
// Recognized variables:
//
//	HTTP_ADDR, DATABASE_DRIVER, DATABASE_DSN, JWT_SECRET_KEY, APP_ENV,
//	ACCESS_TOKEN_TTL (Go duration), BCRYPT_COST, LOG_LEVEL,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT,
//	S3_PUBLIC_URL
func parseEnv(config *Config) {
	loadDotenv()

	setString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	setString(&config.DatabaseDriver, "DATABASE_DRIVER")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "JWT_SECRET_KEY")
	setString(&config.Environment, "APP_ENV")
	setDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	setInt(&config.BcryptCost, "BCRYPT_COST")
	setString(&config.LogLevel, "LOG_LEVEL")
	setString(&config.S3RootUser, "S3_ROOT_USER")
	setString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	setString(&config.S3Bucket, "S3_BUCKET")
	setString(&config.S3Region, "S3_REGION")
	setString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&config.S3PublicURL, "S3_PUBLIC_URL")
}

func loadDotenv() {
	if f := flagx.EnvFileFlags(); f != "" {
		if err := godotenv.Load(f); err != nil {
			panic(err)
		}
		return
	}
	for _, f := range dotenvFiles {
		_ = godotenv.Load(f)
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// setInt and setDuration keep the previous value when the variable does not
// parse.
func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}
