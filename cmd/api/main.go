package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"userauth.dev/internal/auth"
	"userauth.dev/internal/config"
	"userauth.dev/internal/httpapi"
	"userauth.dev/internal/migrate"
	"userauth.dev/internal/obs"
	"userauth.dev/internal/store/kv"
	"userauth.dev/internal/store/pg"
	"userauth.dev/internal/users"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := run(); err != nil {
		obs.Logger().Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		return err
	}
	obs.SetLevel(cfg.LogLevel)
	obs.Init()
	obs.InitBuildInfo(version, commit)
	log := obs.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]httpapi.Check{}

	var userStore users.Store
	switch cfg.Store {
	case "memory":
		log.Warn("using in-memory user store; data is lost on restart")
		userStore = users.NewInMemory()
	default:
		db, err := pg.Open(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if cfg.Migrate {
			mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			err := migrate.NewManager(db.DB()).Up(mctx)
			cancel()
			if err != nil {
				return err
			}
			log.Info("migrations applied")
		}
		userStore = db
	}
	checks["users"] = userStore.Ping

	tokenStore, err := kv.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer tokenStore.Close()
	checks["redis"] = tokenStore.Ping

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokens(cfg.AccessSecret, cfg.RefreshSecret,
		auth.WithIssuer(cfg.Issuer),
		auth.WithTTLs(cfg.AccessTTL, cfg.RefreshTTL),
	)
	if err != nil {
		return err
	}
	userSvc := users.NewService(userStore, hasher)
	authSvc := auth.NewService(userSvc, tokens, tokenStore, hasher)
	probe := httpapi.ReadyProbe{Checks: checks}

	api := httpapi.New(httpapi.Deps{
		Users: userSvc,
		Auth:  authSvc,
		Cookies: auth.Cookies{
			Secure:     cfg.CookieSecure,
			Domain:     cfg.CookieDomain,
			AccessTTL:  tokens.AccessTTL(),
			RefreshTTL: tokens.RefreshTTL(),
		},
		Ready:          probe,
		Version:        version,
		AllowedOrigins: cfg.AllowedOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	health := httpapi.NewHealthServer(probe)
	grpcSrv := grpc.NewServer()
	health.Register(grpcSrv)
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()
	go health.Run(ctx, 10*time.Second)

	log.Info("userauth started", "version", version, "env", cfg.Env, "http", cfg.HTTPAddr, "grpc", cfg.GRPCAddr, "store", cfg.Store)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("server failed", "err", err)
		stop()
	}
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	grpcSrv.GracefulStop()
	log.Info("stopped")
	return nil
}
