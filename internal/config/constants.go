package config

import "time"

const (
	envPort            = "PORT"
	envAdminToken      = "ADMIN_TOKEN"
	envOwnership       = "ENFORCE_GROUP_OWNERSHIP"
	envCatalogProvider = "CATALOG_PROVIDER"
	envBgaBaseURL      = "BGA_BASE_URL"
	envBgaClientID     = "BGA_CLIENT_ID"
	envCatalogTimeout  = "CATALOG_TIMEOUT"
	envCatalogInterval = "CATALOG_MIN_INTERVAL"
	envCatalogRetries  = "CATALOG_RETRY_ATTEMPTS"
	envCatalogBackoff  = "CATALOG_RETRY_BACKOFF"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	envTracingOn       = "TRACING_ENABLED"
	envTracesEndpoint  = "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"
	envSampleRatio     = "TRACING_SAMPLE_RATIO"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"

	defaultPort            = "4000"
	defaultCatalogProvider = "fixture"
	defaultBgaBaseURL      = "https://api.boardgameatlas.com/api"
	defaultCatalogTimeout  = 10 * time.Second
	// Board Game Atlas asks clients to stay under a request per second.
	defaultCatalogInterval = time.Second
	defaultCatalogRetries  = 3
	defaultCatalogBackoff  = 500 * time.Millisecond
	defaultMetricsPort     = "9090"
	defaultServiceName     = "borga-service"
	defaultSampleRatio     = 1.0
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
)
