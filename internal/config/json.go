package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Duration accepts either a Go duration string ("15m") or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// fileConfig mirrors Config for JSON decoding. Pointer fields distinguish
// "absent" from the zero value so absent keys keep their defaults.
type fileConfig struct {
	Env            *string   `json:"env"`
	HTTPAddr       *string   `json:"http_addr"`
	GRPCAddr       *string   `json:"grpc_addr"`
	Store          *string   `json:"store"`
	DatabaseDSN    *string   `json:"database_dsn"`
	Migrate        *bool     `json:"migrate"`
	RedisAddr      *string   `json:"redis_addr"`
	RedisPassword  *string   `json:"redis_password"`
	RedisDB        *int      `json:"redis_db"`
	AccessSecret   *string   `json:"access_secret"`
	RefreshSecret  *string   `json:"refresh_secret"`
	AccessTTL      *Duration `json:"access_ttl"`
	RefreshTTL     *Duration `json:"refresh_ttl"`
	Issuer         *string   `json:"issuer"`
	CookieSecure   *bool     `json:"cookie_secure"`
	CookieDomain   *string   `json:"cookie_domain"`
	BcryptCost     *int      `json:"bcrypt_cost"`
	MaxBodyBytes   *int64    `json:"max_body_bytes"`
	AllowedOrigins []string  `json:"allowed_origins"`
	LogLevel       *string   `json:"log_level"`
}

func parseJSON(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	setString(&cfg.Env, fc.Env)
	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.GRPCAddr, fc.GRPCAddr)
	setString(&cfg.Store, fc.Store)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisPassword, fc.RedisPassword)
	setString(&cfg.AccessSecret, fc.AccessSecret)
	setString(&cfg.RefreshSecret, fc.RefreshSecret)
	setString(&cfg.Issuer, fc.Issuer)
	setString(&cfg.CookieDomain, fc.CookieDomain)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.Migrate != nil {
		cfg.Migrate = *fc.Migrate
	}
	if fc.RedisDB != nil {
		cfg.RedisDB = *fc.RedisDB
	}
	if fc.AccessTTL != nil {
		cfg.AccessTTL = fc.AccessTTL.Duration
	}
	if fc.RefreshTTL != nil {
		cfg.RefreshTTL = fc.RefreshTTL.Duration
	}
	if fc.CookieSecure != nil {
		cfg.CookieSecure = *fc.CookieSecure
	}
	if fc.BcryptCost != nil {
		cfg.BcryptCost = *fc.BcryptCost
	}
	if fc.MaxBodyBytes != nil {
		cfg.MaxBodyBytes = *fc.MaxBodyBytes
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
