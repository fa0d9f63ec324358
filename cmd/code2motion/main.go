// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for Code2Motion. The default command
// serves the web application; migrate and generate are operational helpers.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd runs the server when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "code2motion",
	Short: "Turn plain-language prompts into web animations",
	Long: `Code2Motion serves the animation generator web application.

Available subcommands:
  serve    - Run the HTTP server (default)
  migrate  - Apply pending database migrations and exit
  generate - Request an animation from a running server`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, generateCmd)
}

func main() {
	// Text logs in development, JSON everywhere else.
	var handler slog.Handler
	if env := os.Getenv("APP_ENV"); env == "" || env == "development" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
