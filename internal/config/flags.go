package config

import (
	"flag"
	"io"
	"strings"
)

// parseFlags overlays command-line flags.
//
//	-config string   JSON config file (read earlier by configFileFlag)
//	-env string      dev | prod
//	-addr string     HTTP listen address
//	-grpc-addr       gRPC health listen address
//	-store string    postgres | memory
//	-dsn string      PostgreSQL DSN
//	-migrate         apply schema migrations on start
//	-redis string    Redis address
//	-log-level       debug | info | warn | error
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("userauth", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.String("config", "", "JSON config file")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "environment (dev|prod)")
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC health listen address")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "credential store (postgres|memory)")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.BoolVar(&cfg.Migrate, "migrate", cfg.Migrate, "apply migrations on start")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	return fs.Parse(args)
}

// configFileFlag extracts the -config value without parsing the other flags,
// so the file can be applied before env and flags.
func configFileFlag(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := strings.TrimLeft(args[i], "-")
		if args[i] == arg {
			continue
		}
		if v, ok := strings.CutPrefix(arg, "config="); ok {
			return v
		}
		if arg == "config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
