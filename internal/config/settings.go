package config

import (
	"time"
)

// Compile time variables are set by -ldflags.
var (
	ServiceVersion string
	CommitSHA      string
	APIVersion     string
)

type (
	ServiceConfig struct {
		AppConfig  AppConfig        `json:"app_config"`
		Logging    LoggingConfig    `json:"logging"`
		Telemetry  Telemetry        `json:"telemetry"`
		HTTPServer HTTPServerConfig `json:"http_server"`
		Cache      CacheConfig      `json:"cache"`
		Queue      QueueConfig      `json:"queue"`
		Projection ProjectionConfig `json:"projection"`
		Backoff    BackoffConfig    `json:"backoff"`
	}

	AppConfig struct {
		ServiceName    string `envconfig:"APP_SERVICE_NAME" default:"svc-blog-events" json:"service_name"`
		ServiceVersion string `envconfig:"APP_SERVICE_VERSION" default:"0.0.0" json:"service_version"`
		CommitSHA      string `envconfig:"APP_COMMIT_SHA" default:"unknown" json:"commit_sha"`
		APIVersion     string `envconfig:"APP_API_VERSION" default:"v1" json:"api_version"`
		Env            string `envconfig:"APP_ENVIRONMENT" default:"unknown" json:"env"`
	}

	LoggingConfig struct {
		Level     string          `envconfig:"LOGGING_LEVEL" default:"info" json:"level"`
		Format    string          `envconfig:"LOGGING_FORMAT" default:"json" json:"format"`
		AccessLog AccessLogConfig `json:"access_log"`
	}

	AccessLogConfig struct {
		Enabled         bool `envconfig:"ACCESS_LOG_ENABLED" default:"true" json:"enabled"`
		LogHealthChecks bool `envconfig:"ACCESS_LOG_HEALTH_CHECKS" default:"false" json:"log_health_checks"`
	}

	Telemetry struct {
		OtelGRPCHost string  `envconfig:"OTEL_GRPC_HOST" default:"otel-collector" json:"otel_grpc_host"`
		OtelGRPCPort string  `envconfig:"OTEL_GRPC_PORT" default:"4317" json:"otel_grpc_port"`
		Metrics      Metrics `json:"metrics"`
		Traces       Traces  `json:"traces"`
	}

	Metrics struct {
		Enabled bool `envconfig:"METRICS_ENABLED" default:"true" json:"enabled"`
		// Exporter is either "prometheus" (scraped on /metrics) or "otlp" (pushed to the collector).
		Exporter string `envconfig:"METRICS_EXPORTER" default:"prometheus" json:"exporter"`
	}

	Traces struct {
		Enabled bool `envconfig:"TRACES_ENABLED" default:"false" json:"enabled"`
		// Exporter is either "otlp" or "stdout".
		Exporter     string  `envconfig:"TRACES_EXPORTER" default:"otlp" json:"exporter"`
		SamplerRatio float64 `envconfig:"TRACES_SAMPLER_RATIO" default:"1" json:"sampler_ratio"`
	}

	HTTPServerConfig struct {
		Port            int           `envconfig:"HTTP_SERVER_PORT" default:"8088" json:"port"`
		Host            string        `envconfig:"HTTP_SERVER_HOST" default:"0.0.0.0" json:"host"`
		ReadTimeout     time.Duration `envconfig:"HTTP_SERVER_READ_TIMEOUT" default:"30s" json:"read_timeout"`
		WriteTimeout    time.Duration `envconfig:"HTTP_SERVER_WRITE_TIMEOUT" default:"30s" json:"write_timeout"`
		IdleTimeout     time.Duration `envconfig:"HTTP_SERVER_IDLE_TIMEOUT" default:"120s" json:"idle_timeout"`
		ShutdownTimeout time.Duration `envconfig:"HTTP_SERVER_SHUTDOWN_TIMEOUT" default:"30s" json:"shutdown_timeout"`
	}

	QueueConfig struct {
		URL            string        `envconfig:"RABBITMQ_URL" default:"" json:"-"`
		Scheme         string        `envconfig:"RABBITMQ_SCHEME" default:"amqp" json:"scheme"`
		Host           string        `envconfig:"RABBITMQ_HOST" default:"rabbitmq" json:"host"`
		Port           int           `envconfig:"RABBITMQ_PORT" default:"5672" json:"port"`
		Username       string        `envconfig:"RABBITMQ_USERNAME" default:"guest" json:"username"`
		Password       string        `envconfig:"RABBITMQ_PASSWORD" default:"guest" json:"-"`
		VirtualHost    string        `envconfig:"RABBITMQ_VIRTUAL_HOST" default:"/" json:"virtual_host"`
		ConnectionName string        `envconfig:"RABBITMQ_CONNECTION_NAME" default:"" json:"connection_name"`
		ReconnectDelay time.Duration `envconfig:"RABBITMQ_RECONNECT_DELAY" default:"5s" json:"reconnect_delay"`
		ConnectTimeout time.Duration `envconfig:"RABBITMQ_CONNECT_TIMEOUT" default:"10s" json:"connect_timeout"`
		Heartbeat      time.Duration `envconfig:"RABBITMQ_HEARTBEAT" default:"10s" json:"heartbeat"`
		PublishTimeout time.Duration `envconfig:"RABBITMQ_PUBLISH_TIMEOUT" default:"3s" json:"publish_timeout"`
		PrefetchCount  int           `envconfig:"RABBITMQ_PREFETCH_COUNT" default:"0" json:"prefetch_count"`
		RequeueOnError bool          `envconfig:"RABBITMQ_REQUEUE_ON_ERROR" default:"false" json:"requeue_on_error"`
	}

	CacheConfig struct {
		Enabled      bool          `envconfig:"KEYDB_ENABLED" default:"true" json:"enabled"`
		Addr         string        `envconfig:"KEYDB_ADDR" default:"keydb:6379" json:"addr"`
		Password     string        `envconfig:"KEYDB_PASSWORD" default:"" json:"-"`
		DB           int           `envconfig:"KEYDB_DB" default:"0" json:"db"`
		PoolSize     int           `envconfig:"KEYDB_POOL_SIZE" default:"10" json:"pool_size"`
		MinIdleConns int           `envconfig:"KEYDB_MIN_IDLE_CONNS" default:"3" json:"min_idle_conns"`
		DialTimeout  time.Duration `envconfig:"KEYDB_DIAL_TIMEOUT" default:"5s" json:"dial_timeout"`
		ReadTimeout  time.Duration `envconfig:"KEYDB_READ_TIMEOUT" default:"3s" json:"read_timeout"`
		WriteTimeout time.Duration `envconfig:"KEYDB_WRITE_TIMEOUT" default:"3s" json:"write_timeout"`
		PoolTimeout  time.Duration `envconfig:"KEYDB_POOL_TIMEOUT" default:"5s" json:"pool_timeout"`
		MaxRetries   int           `envconfig:"KEYDB_MAX_RETRIES" default:"3" json:"max_retries"`
	}

	ProjectionConfig struct {
		// MarkerTTL bounds how long processed event ids are remembered for deduplication.
		MarkerTTL time.Duration `envconfig:"PROJECTION_MARKER_TTL" default:"168h" json:"marker_ttl"`
		KeyPrefix string        `envconfig:"PROJECTION_KEY_PREFIX" default:"blog" json:"key_prefix"`
	}

	BackoffConfig struct {
		// BaseDelay is the amount of time to backoff after the first failure.
		BaseDelay time.Duration `envconfig:"BACKOFF_BASE_DELAY" default:"1s" json:"base_delay"`
		// Multiplier is the factor with which to multiply backoffs after a
		// failed retry. Should ideally be greater than 1.
		Multiplier float64 `envconfig:"BACKOFF_MULTIPLIER" default:"1.6" json:"multiplier"`
		// Jitter is the factor with which backoffs are randomized.
		Jitter float64 `envconfig:"BACKOFF_JITTER" default:"0.2" json:"jitter"`
		// MaxDelay is the upper bound of backoff delay.
		MaxDelay time.Duration `envconfig:"BACKOFF_MAX_DELAY" default:"10s" json:"max_delay"`
	}
)
