package config

import (
	"testing"
	"time"

	"github.com/fwdline/prediction-league/internal/platform/logging"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_ProdRequiresProviderToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("FOOTBALL_DATA_TOKEN", "")
	t.Setenv("INTERNAL_JOB_TOKEN", "job-secret")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APP_ENV=prod without FOOTBALL_DATA_TOKEN")
	}
}

func TestLoad_ProdRequiresInternalJobToken(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("FOOTBALL_DATA_TOKEN", "provider-token")
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APP_ENV=prod without INTERNAL_JOB_TOKEN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.JobSyncInterval != 6*time.Hour {
		t.Fatalf("unexpected JobSyncInterval: %s", cfg.JobSyncInterval)
	}
	if cfg.JobResultsInterval != 2*time.Minute {
		t.Fatalf("unexpected JobResultsInterval: %s", cfg.JobResultsInterval)
	}
	if cfg.WindowExtension != 3*time.Hour {
		t.Fatalf("unexpected WindowExtension: %s", cfg.WindowExtension)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
	if cfg.FootballDataBaseURL != "https://api.football-data.org/v4" {
		t.Fatalf("unexpected FootballDataBaseURL: %q", cfg.FootballDataBaseURL)
	}
	if cfg.DBURL != "" {
		t.Fatalf("expected empty DBURL by default, got %q", cfg.DBURL)
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("JOB_SYNC_INTERVAL", "90m")
	t.Setenv("RESCORE_WORKERS", "4")
	t.Setenv("GAMEWEEK_DEADLINE_LEAD", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.LogLevel != logging.LevelWarn {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel)
	}
	if cfg.JobSyncInterval != 90*time.Minute {
		t.Fatalf("unexpected JobSyncInterval: %s", cfg.JobSyncInterval)
	}
	if cfg.RescoreWorkers != 4 {
		t.Fatalf("unexpected RescoreWorkers: %d", cfg.RescoreWorkers)
	}
	if cfg.DeadlineLead != 30*time.Minute {
		t.Fatalf("unexpected DeadlineLead: %s", cfg.DeadlineLead)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_RejectsInvalidDurations(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JOB_RESULTS_INTERVAL", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for JOB_RESULTS_INTERVAL=0s")
	}
}
