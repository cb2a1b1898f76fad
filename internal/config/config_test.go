package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Catalog.Provider != defaultCatalogProvider {
		t.Fatalf("expected default provider %s, got %s", defaultCatalogProvider, cfg.Catalog.Provider)
	}
	if cfg.Catalog.BaseURL != defaultBgaBaseURL {
		t.Fatalf("expected default base url %s, got %s", defaultBgaBaseURL, cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.ClientID != "" {
		t.Fatalf("expected empty client id by default, got %s", cfg.Catalog.ClientID)
	}
	if cfg.Catalog.Timeout != defaultCatalogTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultCatalogTimeout, cfg.Catalog.Timeout)
	}
	if cfg.Catalog.MinInterval != defaultCatalogInterval {
		t.Fatalf("expected default interval %s, got %s", defaultCatalogInterval, cfg.Catalog.MinInterval)
	}
	if cfg.Catalog.RetryAttempts != defaultCatalogRetries {
		t.Fatalf("expected %d retry attempts, got %d", defaultCatalogRetries, cfg.Catalog.RetryAttempts)
	}
	if cfg.EnforceOwnership {
		t.Fatal("expected ownership check disabled by default")
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != defaultMetricsPort || cfg.Metrics.ServiceName != defaultServiceName {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
	if cfg.Log.Level != defaultLogLevel || cfg.Log.Format != defaultLogFormat {
		t.Fatalf("unexpected log defaults %+v", cfg.Log)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envAdminToken, "root")
	t.Setenv(envOwnership, "true")
	t.Setenv(envCatalogProvider, "boardgameatlas")
	t.Setenv(envBgaBaseURL, "http://example.com/api")
	t.Setenv(envBgaClientID, "secret-key")
	t.Setenv(envCatalogTimeout, "3s")
	t.Setenv(envCatalogInterval, "0s")
	t.Setenv(envCatalogRetries, "5")
	t.Setenv(envCatalogBackoff, "1s")
	t.Setenv(envMetricsOn, "false")
	t.Setenv(envMetricsPort, "9191")
	t.Setenv(envOtelEndpoint, "collector:4318")
	t.Setenv(envOtelService, "borga-test")
	t.Setenv(envOtelInsecure, "false")
	t.Setenv(envLogLevel, "debug")
	t.Setenv(envLogFormat, "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "5000" || cfg.AdminToken != "root" || !cfg.EnforceOwnership {
		t.Fatalf("unexpected server config %+v", cfg)
	}
	want := CatalogConfig{
		Provider:      "boardgameatlas",
		BaseURL:       "http://example.com/api",
		ClientID:      "secret-key",
		Timeout:       3 * time.Second,
		MinInterval:   0,
		RetryAttempts: 5,
		RetryBackoff:  time.Second,
	}
	if cfg.Catalog != want {
		t.Fatalf("expected catalog %+v, got %+v", want, cfg.Catalog)
	}
	wantMetrics := MetricsConfig{
		Enabled:      false,
		Port:         "9191",
		OtlpEndpoint: "collector:4318",
		ServiceName:  "borga-test",
		OtlpInsecure: false,
	}
	if cfg.Metrics != wantMetrics {
		t.Fatalf("expected metrics %+v, got %+v", wantMetrics, cfg.Metrics)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
}

func TestLoadInvalidDurationFails(t *testing.T) {
	t.Setenv(envCatalogTimeout, "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}

func TestLoadInvalidBoolFails(t *testing.T) {
	t.Setenv(envMetricsOn, "maybe")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed bool")
	}
}

func TestLoadNonPositiveValuesFallBack(t *testing.T) {
	t.Setenv(envCatalogTimeout, "0s")
	t.Setenv(envCatalogRetries, "-1")
	t.Setenv(envCatalogInterval, "-5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Catalog.Timeout != defaultCatalogTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.Catalog.Timeout)
	}
	if cfg.Catalog.RetryAttempts != defaultCatalogRetries {
		t.Fatalf("expected default retries, got %d", cfg.Catalog.RetryAttempts)
	}
	if cfg.Catalog.MinInterval != defaultCatalogInterval {
		t.Fatalf("expected default interval, got %s", cfg.Catalog.MinInterval)
	}
}

func TestLoadTracing(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tracing.Enabled || cfg.Tracing.SampleRatio != defaultSampleRatio {
		t.Fatalf("unexpected tracing defaults %+v", cfg.Tracing)
	}

	t.Setenv(envTracingOn, "true")
	t.Setenv(envTracesEndpoint, "collector:4318")
	t.Setenv(envSampleRatio, "0.25")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := TracingConfig{Enabled: true, Endpoint: "collector:4318", SampleRatio: 0.25}
	if cfg.Tracing != want {
		t.Fatalf("expected tracing %+v, got %+v", want, cfg.Tracing)
	}

	t.Setenv(envSampleRatio, "7")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tracing.SampleRatio != defaultSampleRatio {
		t.Fatalf("expected out-of-range ratio to fall back, got %v", cfg.Tracing.SampleRatio)
	}
}
