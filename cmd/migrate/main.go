package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"userauth.dev/internal/migrate"
	"userauth.dev/internal/obs"
	"userauth.dev/internal/store/pg"
)

func main() {
	log := obs.Logger()
	var (
		dsn   = flag.String("dsn", os.Getenv("USERAUTH_PG_DSN"), "PostgreSQL DSN")
		table = flag.String("table", "", "migrations bookkeeping table")
	)
	flag.Parse()

	if *dsn == "" {
		log.Error("missing DSN: provide via -dsn or USERAUTH_PG_DSN")
		os.Exit(2)
	}
	if len(flag.Args()) == 0 {
		fmt.Fprintln(os.Stderr, "usage: migrate [up|down|status]")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := pg.Open(*dsn)
	if err != nil {
		log.Error("open db", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	mgr := migrate.NewManager(store.DB(), migrate.WithMigrationsTable(*table))

	switch flag.Arg(0) {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "status":
		var v int64
		v, err = mgr.Status(ctx)
		if err == nil {
			fmt.Printf("schema version %d\n", v)
		}
	default:
		log.Error("unknown command", "command", flag.Arg(0))
		os.Exit(2)
	}
	if err != nil {
		log.Error("migrate failed", "command", flag.Arg(0), "err", err)
		os.Exit(1)
	}
}
