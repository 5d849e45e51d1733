package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"noterelay/internal/constants"
)

func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindEnvVariables(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment variables: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(v, &cfg)

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", constants.DefaultServerPort)
	v.SetDefault("server.listen_addrs", []string{})
	v.SetDefault("server.read_timeout", constants.DefaultReadTimeout)
	v.SetDefault("server.write_timeout", constants.DefaultWriteTimeout)
	v.SetDefault("server.max_body_bytes", constants.DefaultMaxBodyBytes)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("dedup.capacity", constants.DefaultDedupCapacity)

	v.SetDefault("delivery.base_url", constants.DefaultDeliveryBaseURL)
	v.SetDefault("delivery.user_agent", constants.DefaultUserAgent)
	v.SetDefault("delivery.timeout", constants.DefaultHTTPTimeout)

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.cleanup_interval", "5m")
	v.SetDefault("rate_limit.max_age", "10m")

	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", "60s")
	v.SetDefault("circuit_breaker.timeout", "30s")
	v.SetDefault("circuit_breaker.failure_ratio", 0.5)
	v.SetDefault("circuit_breaker.min_requests", 5)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.otlp.endpoint", "localhost:4317")
	v.SetDefault("tracing.otlp.insecure", true)
	v.SetDefault("tracing.sampler.type", "parentbased_always_on")
	v.SetDefault("tracing.sampler.param", 1.0)
}

func bindEnvVariables(v *viper.Viper) error {
	bindings := [][]string{
		{"server.port", "SERVER_PORT"},
		{"server.read_timeout", "SERVER_READ_TIMEOUT"},
		{"server.write_timeout", "SERVER_WRITE_TIMEOUT"},
		{"server.max_body_bytes", "SERVER_MAX_BODY_BYTES"},

		{"logging.level", "LOGGING_LEVEL"},
		{"logging.format", "LOGGING_FORMAT"},

		{"dedup.capacity", "DEDUP_CAPACITY"},

		{"delivery.base_url", "DELIVERY_BASE_URL"},
		{"delivery.user_agent", "DELIVERY_USER_AGENT", "USER_AGENT"},
		{"delivery.timeout", "DELIVERY_TIMEOUT"},

		{"rate_limit.enabled", "RATE_LIMIT_ENABLED"},
		{"circuit_breaker.enabled", "CIRCUIT_BREAKER_ENABLED"},

		{"tracing.enabled", "TRACING_ENABLED"},
		{"tracing.service_name", "TRACING_SERVICE_NAME"},
		{"tracing.otlp.endpoint", "TRACING_OTLP_ENDPOINT"},
		{"tracing.otlp.insecure", "TRACING_OTLP_INSECURE"},
	}

	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvOverrides(v *viper.Viper, cfg *Config) {
	if addrsEnv := v.GetString("SERVER_LISTEN_ADDRS"); addrsEnv != "" {
		addrs := strings.Split(addrsEnv, ",")
		cfg.Server.ListenAddrs = cfg.Server.ListenAddrs[:0]
		for _, addr := range addrs {
			if addr = strings.TrimSpace(addr); addr != "" {
				cfg.Server.ListenAddrs = append(cfg.Server.ListenAddrs, addr)
			}
		}
	}

	cfg.Delivery.BaseURL = strings.TrimRight(cfg.Delivery.BaseURL, "/")
}
