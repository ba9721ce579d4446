package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays environment variables. JWT_SECRET, PORT and
// DATABASE_URL keep the names deployments already use.
func parseEnv(config *Config, lookupEnv func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookupEnv(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}

	if v, ok := get("PORT"); ok {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := get("POSTBOARD_HTTP_ADDR"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := get("POSTBOARD_GRPC_ADDR"); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := get("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := get("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := get("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := get("REDIS_PASSWORD"); ok {
		config.RedisPassword = v
	}
	if v, ok := get("POSTBOARD_LOG_LEVEL"); ok {
		config.LogLevel = v
	}
	if v, ok := get("POSTBOARD_TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POSTBOARD_TOKEN_TTL: %w", err)
		}
		config.TokenValidityDuration = d
	}
	if v, ok := get("POSTBOARD_STORE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POSTBOARD_STORE_TIMEOUT: %w", err)
		}
		config.StoreTimeout = d
	}
	if v, ok := get("POSTBOARD_BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POSTBOARD_BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	return nil
}
