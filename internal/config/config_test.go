// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
)

// allVars lists every environment variable Load reads.
var allVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"AI_PROVIDER", "AI_MODERATION",
	"FREELLM_API_KEY", "FREELLM_BASE_URL",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	"MISTRAL_API_KEY", "MISTRAL_MODEL", "MISTRAL_BASE_URL",
	"CLAUDE_API_KEY", "CLAUDE_MODEL", "CLAUDE_BASE_URL",
	"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	"S3_BUCKET_PUBLIC", "S3_PUBLIC_URL",
	"GENERATE_RATE_LIMIT",
}

// clearEnv sets every variable to "" which envOrDefault treats as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allVars {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("DBUser", cfg.DBUser, "code2motion")
	check("DBName", cfg.DBName, "code2motion")
	check("ValkeyPort", cfg.ValkeyPort, "6379")
	check("AIProvider", cfg.AIProvider, "freellm")
	check("FreeLLMBaseURL", cfg.FreeLLMBaseURL, "https://apifreellm.com/api")
	check("OpenAIModel", cfg.OpenAIModel, "gpt-4o")
	check("MistralBaseURL", cfg.MistralBaseURL, "https://api.mistral.ai/v1")
	check("S3BucketPublic", cfg.S3BucketPublic, "code2motion-exports")

	if cfg.AIModeration {
		t.Error("AIModeration should default to false")
	}
	if cfg.GenerateRateLimit != 10 {
		t.Errorf("GenerateRateLimit = %d, want 10", cfg.GenerateRateLimit)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	overrides := map[string]string{
		"APP_PORT":            "9090",
		"AI_PROVIDER":         "openai",
		"AI_MODERATION":       "true",
		"FREELLM_API_KEY":     "afllm-test",
		"FREELLM_BASE_URL":    "https://llm.example.com/api",
		"OPENAI_API_KEY":      "sk-test",
		"S3_ENDPOINT":         "https://s3.example.com",
		"GENERATE_RATE_LIMIT": "3",
	}
	for key, val := range overrides {
		t.Setenv(key, val)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.AIProvider != "openai" {
		t.Errorf("AIProvider = %q, want openai", cfg.AIProvider)
	}
	if !cfg.AIModeration {
		t.Error("AIModeration should be true")
	}
	if cfg.FreeLLMKey != "afllm-test" {
		t.Errorf("FreeLLMKey = %q", cfg.FreeLLMKey)
	}
	if cfg.FreeLLMBaseURL != "https://llm.example.com/api" {
		t.Errorf("FreeLLMBaseURL = %q", cfg.FreeLLMBaseURL)
	}
	if cfg.S3Endpoint != "https://s3.example.com" {
		t.Errorf("S3Endpoint = %q", cfg.S3Endpoint)
	}
	if cfg.GenerateRateLimit != 3 {
		t.Errorf("GenerateRateLimit = %d, want 3", cfg.GenerateRateLimit)
	}
}

func TestLoad_InvalidRateLimit(t *testing.T) {
	clearEnv(t)
	for _, v := range []string{"abc", "0", "-4"} {
		t.Setenv("GENERATE_RATE_LIMIT", v)
		if _, err := Load(); err == nil {
			t.Errorf("GENERATE_RATE_LIMIT=%q: expected error", v)
		}
	}
}

func TestLoad_Production(t *testing.T) {
	t.Run("rejects default password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("FREELLM_API_KEY", "key")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
			t.Fatalf("expected POSTGRES_PASSWORD error, got %v", err)
		}
	})

	t.Run("requires generation credential", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "s3cret")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "FREELLM_API_KEY") {
			t.Fatalf("expected FREELLM_API_KEY error, got %v", err)
		}
	})

	t.Run("other providers skip the freellm key check", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "s3cret")
		t.Setenv("AI_PROVIDER", "claude")

		if _, err := Load(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestConfigHelpers(t *testing.T) {
	cfg := &Config{
		Host: "127.0.0.1", Port: "8080", Env: "development",
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d",
	}
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
	if got := cfg.DSN(); got != "postgres://u:p@h:5432/d?sslmode=disable" {
		t.Errorf("DSN() = %q", got)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() should be true for development")
	}
}
