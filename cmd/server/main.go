package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/meridianvest/platform/internal/auth"
	"github.com/meridianvest/platform/internal/config"
	"github.com/meridianvest/platform/internal/logging"
	"github.com/meridianvest/platform/internal/mail"
	"github.com/meridianvest/platform/internal/server"
	"github.com/meridianvest/platform/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	// Missing .env is fine, config falls back to real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.App.Env == "development")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := store.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warnw("mongodb disconnect failed", "error", err)
		}
	}()
	log.Infow("connected to mongodb", "database", cfg.Mongo.Database)

	db := client.Database(cfg.Mongo.Database)
	users := store.NewUsers(db)
	tokens := store.NewRefreshTokens(db)

	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	authLog := logging.Adapt(log)
	access := auth.NewTokenService([]byte(cfg.Auth.AccessSecret), cfg.AccessExpiration, cfg.Auth.Issuer, authLog)
	// Refresh tokens carry no expiry, revocation happens through the store.
	refresh := auth.NewTokenService([]byte(cfg.Auth.RefreshSecret), 0, cfg.Auth.Issuer, authLog)

	auther := auth.NewAuther(users, tokens, access, refresh,
		auth.WithLogger(authLog),
		auth.WithStrictRefreshPersist(cfg.Auth.StrictRefreshPersist),
		auth.WithRequireVerifiedEmail(cfg.Auth.RequireVerifiedEmail),
	)

	var codes auth.CodeRegistry
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		codes = auth.NewRedisCodeRegistry(rdb, cfg.ResetCodeTTL)
		log.Infow("reset codes backed by redis", "addr", cfg.Redis.Addr)
	} else {
		codes = auth.NewMemoryCodeRegistry(cfg.ResetCodeTTL)
	}

	mailer := mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)

	janitor := store.NewTokenJanitor(tokens, cfg.JanitorInterval, cfg.RefreshMaxAge, authLog)
	go janitor.Run(ctx)

	health := store.NewHealth(client, 10*time.Second)
	go health.Run(ctx)

	app := server.New(server.Deps{
		Health:  health,
		Auth:    server.NewAuthController(users, auther, codes, mailer, log, cfg.App.ClientURL, cfg.Auth.PasswordCooldownDays),
		Account: server.NewAccountController(users),
		Tokens:  access,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf(":%d", cfg.App.Port))
	}()
	log.Infow("server listening", "port", cfg.App.Port, "env", cfg.App.Env)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
