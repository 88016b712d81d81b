package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "USERAUTH_"

func parseEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}
	lookup := func(name string) (string, bool) {
		v := strings.TrimSpace(getenv(envPrefix + name))
		return v, v != ""
	}

	strs := map[string]*string{
		"ENV":            &cfg.Env,
		"HTTP_ADDR":      &cfg.HTTPAddr,
		"GRPC_ADDR":      &cfg.GRPCAddr,
		"STORE":          &cfg.Store,
		"PG_DSN":         &cfg.DatabaseDSN,
		"REDIS_ADDR":     &cfg.RedisAddr,
		"REDIS_PASSWORD": &cfg.RedisPassword,
		"ACCESS_SECRET":  &cfg.AccessSecret,
		"REFRESH_SECRET": &cfg.RefreshSecret,
		"ISSUER":         &cfg.Issuer,
		"COOKIE_DOMAIN":  &cfg.CookieDomain,
		"LOG_LEVEL":      &cfg.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	if v, ok := lookup("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sREDIS_DB: %w", envPrefix, err)
		}
		cfg.RedisDB = n
	}
	if v, ok := lookup("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sBCRYPT_COST: %w", envPrefix, err)
		}
		cfg.BcryptCost = n
	}
	if v, ok := lookup("MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sMAX_BODY_BYTES: %w", envPrefix, err)
		}
		cfg.MaxBodyBytes = n
	}
	for name, dst := range map[string]*bool{"COOKIE_SECURE": &cfg.CookieSecure, "MIGRATE": &cfg.Migrate} {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
			}
			*dst = b
		}
	}
	for name, dst := range map[string]*time.Duration{"ACCESS_TTL": &cfg.AccessTTL, "REFRESH_TTL": &cfg.RefreshTTL} {
		if v, ok := lookup(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("config: %s%s: %w", envPrefix, name, err)
			}
			*dst = d
		}
	}
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
