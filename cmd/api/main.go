package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/beewords/beewords-api/internal/cache"
	"github.com/beewords/beewords-api/internal/captcha"
	"github.com/beewords/beewords-api/internal/config"
	"github.com/beewords/beewords-api/internal/database"
	"github.com/beewords/beewords-api/internal/modules/user"
	"github.com/beewords/beewords-api/internal/notification"
	"github.com/beewords/beewords-api/internal/notification/templates"
	"github.com/beewords/beewords-api/internal/server"
	"github.com/beewords/beewords-api/internal/session"
)

// Options for the CLI.
type Options struct {
	Port int `help:"Port to listen on" short:"p" default:"8080"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		// Use a structured logger
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		cfg := config.Load()
		if cfg == nil {
			logger.Error("failed to load configuration")
			os.Exit(1)
		}
		logger.Info("configuration loaded successfully", "env", cfg.Server.Env)

		// --- Database & Cache ---
		dbPool := database.NewPostgresPool(cfg.Database.URL)
		if dbPool == nil {
			logger.Error("failed to connect to postgres")
			os.Exit(1)
		}
		hooks.OnStop(dbPool.Close)
		logger.Info("successfully connected to postgres database")
		redisClient := cache.NewRedisClient(cfg.Redis.URL)
		if redisClient == nil {
			logger.Error("failed to connect to redis")
			os.Exit(1)
		}
		hooks.OnStop(func() { redisClient.Close() })
		logger.Info("successfully connected to redis")

		// --- Shared Infrastructure ---
		templateEngine := templates.NewEngine()
		mailer := notification.NewSMTPSender(
			cfg.SMTP.Host, cfg.SMTP.Port,
			cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From,
			logger,
		)
		captchaVerifier := captcha.NewRecaptchaVerifier(cfg.Recaptcha.SecretKey, logger)
		tokenIssuer := user.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, logger)
		revoker := session.NewRedisRevoker(redisClient)

		// --- Module Initialization (Bottom-Up) ---

		// User Module
		userRepo := user.NewRepository(dbPool)
		userService := user.NewService(&user.Config{
			Repo:      userRepo,
			Logger:    logger,
			Config:    cfg,
			Mailer:    mailer,
			Templates: templateEngine,
			Tokens:    tokenIssuer,
			Revoker:   revoker,
		})
		userHandler := user.NewHandler(userService, logger, captchaVerifier)

		router := server.New(cfg, logger, userHandler, tokenIssuer, revoker)

		port := options.Port
		if port == 0 {
			if p, err := strconv.Atoi(cfg.Server.Port); err == nil {
				port = p
			}
		}
		hooks.OnStart(func() {
			logger.Info(fmt.Sprintf("Starting server on port %d...", port))
			if err := http.ListenAndServe(fmt.Sprintf(":%d", port), router); err != nil {
				slog.Error("Server failed to start", "error", err)
				os.Exit(1)
			}
		})
	})
	cli.Run()
}
