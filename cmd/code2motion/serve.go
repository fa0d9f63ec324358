// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"code2motion/internal/ai"
	"code2motion/internal/cache"
	"code2motion/internal/config"
	"code2motion/internal/database"
	"code2motion/internal/handlers"
	"code2motion/internal/middleware"
	"code2motion/internal/render"
	"code2motion/internal/router"
	"code2motion/internal/session"
	"code2motion/internal/storage"
	"code2motion/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return err
		}
		defer db.Close()

		if status, _ := cmd.Flags().GetBool("status"); status {
			states, err := database.Status(db)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, st := range states {
				applied := "pending"
				if st.Applied {
					applied = st.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(out, "%05d  %-40s %s\n", st.Version, st.File, applied)
			}
			return nil
		}
		return database.Migrate(db)
	},
}

func init() {
	migrateCmd.Flags().Bool("status", false, "list migrations and whether they are applied, without migrating")
}

// shutdownTimeout bounds how long active requests may take to drain.
const shutdownTimeout = 30 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	// Secure cookies everywhere except development.
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		return fmt.Errorf("initializing templates: %w", err)
	}

	userStore := store.NewUserStore(db)
	promptStore := store.NewPromptStore(db)

	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3PublicURL,
	)
	if err != nil {
		return fmt.Errorf("initializing s3 storage: %w", err)
	}
	var exports handlers.ExportStorage
	if storageClient != nil {
		exports = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, exports are served as downloads")
	}

	// Templates may have changed since the last deploy.
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	pageCache.InvalidateAll(cmd.Context())

	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"freellm": {APIKey: cfg.FreeLLMKey, BaseURL: cfg.FreeLLMBaseURL},
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
	})
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
		"moderation", cfg.AIModeration,
	)

	// Counters live in Valkey so replicas share one budget per token or IP.
	generateLimiter := middleware.NewValkeyRateLimiter(valkeyClient, "generate", cfg.GenerateRateLimit, time.Minute)
	generateLimiter.KeyFunc = middleware.BearerOrIP
	defer generateLimiter.Stop()
	signInLimiter := middleware.NewValkeyRateLimiter(valkeyClient, "signin", 10, time.Minute)
	defer signInLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:        sessionStore,
		Site:            handlers.NewSite(renderer, pageCache),
		Auth:            handlers.NewAuth(renderer, sessionStore, userStore),
		Dashboard:       handlers.NewDashboard(renderer, promptStore, userStore, exports),
		Generate:        handlers.NewGenerate(sessionStore, aiRegistry, promptStore, cfg.AIModeration),
		Events:          handlers.NewSessionEvents(sessionStore, sessionStore.Events(), handlers.DefaultRevalidateInterval),
		GenerateLimiter: generateLimiter,
		SignInLimiter:   signInLimiter,
		SecureCookies:   secureCookies,
	})

	// WriteTimeout must cover a full round trip to the language model.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped gracefully")
	return nil
}
