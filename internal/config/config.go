package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required (use -config or -c)")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig parses raw YAML, applies environment overrides and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvironmentOverrides(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var (
	EnvAPIBaseURL            = "JOBBOARD_API_BASE_URL"
	EnvLogLevel              = "JOBBOARD_LOG_LEVEL"
	EnvStoragePath           = "JOBBOARD_STORAGE_PATH"
	EnvRedisAddress          = "JOBBOARD_REDIS_ADDRESS"
	EnvRedisUsername         = "JOBBOARD_REDIS_USERNAME"
	EnvRedisPassword         = "JOBBOARD_REDIS_PASSWORD"
	EnvRedisIndex            = "JOBBOARD_REDIS_INDEX"
	EnvRedisSentinelUsername = "JOBBOARD_REDIS_SENTINEL_USERNAME"
	EnvRedisSentinelPassword = "JOBBOARD_REDIS_SENTINEL_PASSWORD"
)

func applyEnvironmentOverrides(config *Config) {
	if baseURL := os.Getenv(EnvAPIBaseURL); baseURL != "" {
		config.API.BaseURL = baseURL
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		config.Log.Level = level
	}

	if path := os.Getenv(EnvStoragePath); path != "" {
		config.Storage.Path = path
	}

	if address := os.Getenv(EnvRedisAddress); address != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Address = address
	}

	if redisUsername := os.Getenv(EnvRedisUsername); redisUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Username = redisUsername
	}

	if redisPassword := os.Getenv(EnvRedisPassword); redisPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Password = redisPassword
	}

	if indexStr := os.Getenv(EnvRedisIndex); indexStr != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if index, err := strconv.Atoi(indexStr); err == nil {
			config.Redis.Index = index
		}
	}

	if sentinelUsername := os.Getenv(EnvRedisSentinelUsername); sentinelUsername != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelUsername = sentinelUsername
	}

	if sentinelPassword := os.Getenv(EnvRedisSentinelPassword); sentinelPassword != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		if config.Redis.Sentinel == nil {
			config.Redis.Sentinel = &RedisSentinelConfig{}
		}
		config.Redis.Sentinel.SentinelPassword = sentinelPassword
	}
}

func validateConfig(config *Config) error {
	err := config.validateServerConfig()
	if err != nil {
		return err
	}

	err = config.validateAPIConfig()
	if err != nil {
		return err
	}

	err = config.validateAuthConfig()
	if err != nil {
		return err
	}

	err = config.validateLogConfig()
	if err != nil {
		return err
	}

	err = config.validateStorageConfig()
	if err != nil {
		return err
	}

	if config.Storage.Type == "redis" {
		err = config.validateRedisConfig()
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

func (c *Config) validateAPIConfig() error {
	if err := validateURL(c.API.BaseURL, "api.base_url"); err != nil {
		return err
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")

	if c.API.RefreshPath == "" {
		c.API.RefreshPath = DefaultAPIConfig.RefreshPath
	}

	if !strings.HasPrefix(c.API.RefreshPath, "/") {
		return fmt.Errorf("api.refresh_path must start with '/', got %q", c.API.RefreshPath)
	}

	if c.API.RequestTimeout < 0 {
		return fmt.Errorf("api.request_timeout cannot be negative")
	} else if c.API.RequestTimeout == 0 {
		c.API.RequestTimeout = DefaultAPIConfig.RequestTimeout
	}

	if c.API.RefreshTimeout < 0 {
		return fmt.Errorf("api.refresh_timeout cannot be negative")
	}

	if c.API.UserAgent == "" {
		c.API.UserAgent = DefaultAPIConfig.UserAgent
	}

	return nil
}

func (c *Config) validateAuthConfig() error {
	if c.Auth.LoginPath == "" {
		c.Auth.LoginPath = DefaultAuthConfig.LoginPath
	}

	if !strings.HasPrefix(c.Auth.LoginPath, "/") {
		return fmt.Errorf("auth.login_path must start with '/', got %q", c.Auth.LoginPath)
	}

	if len(c.Auth.PreAuthPaths) == 0 {
		c.Auth.PreAuthPaths = append([]string(nil), DefaultAuthConfig.PreAuthPaths...)
	}

	for i, path := range c.Auth.PreAuthPaths {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("auth.pre_auth_paths[%d] must start with '/', got %q", i, path)
		}
	}

	if c.Auth.RedirectKey == "" {
		c.Auth.RedirectKey = DefaultAuthConfig.RedirectKey
	}

	if c.Auth.RedirectTTL < 0 {
		return fmt.Errorf("auth.redirect_ttl cannot be negative")
	} else if c.Auth.RedirectTTL == 0 {
		c.Auth.RedirectTTL = DefaultAuthConfig.RedirectTTL
	}

	if c.Auth.StartLocation == "" {
		c.Auth.StartLocation = DefaultAuthConfig.StartLocation
	}

	if c.Auth.CookieKey == "" {
		c.Auth.CookieKey = DefaultAuthConfig.CookieKey
	}

	if c.Auth.CookieTTL < 0 {
		return fmt.Errorf("auth.cookie_ttl cannot be negative")
	} else if c.Auth.CookieTTL == 0 {
		c.Auth.CookieTTL = DefaultAuthConfig.CookieTTL
	}

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	} else {
		switch c.Log.Format {
		case "text", "json":
		default:
			return fmt.Errorf("invalid log format: %s, options are text or json", c.Log.Format)
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	} else {
		switch c.Log.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level: %s, options are debug, info, warn, error", c.Log.Level)
		}
	}

	return nil
}

func (c *Config) validateStorageConfig() error {
	if c.Storage.Type == "" {
		c.Storage.Type = DefaultStorageConfig.Type
	}

	switch c.Storage.Type {
	case "bolt":
		if c.Storage.Path == "" {
			c.Storage.Path = defaultStoragePath()
		}
	case "memory":
	case "redis":
		if c.Redis == nil {
			return fmt.Errorf("redis configuration must be set to use redis for client storage")
		}
	default:
		return fmt.Errorf("invalid storage type: %s, must be 'bolt', 'redis' or 'memory'", c.Storage.Type)
	}

	if c.Storage.Prefix == "" {
		c.Storage.Prefix = DefaultStorageConfig.Prefix
	}

	return nil
}

func (c *Config) validateRedisConfig() error {
	if c.Redis == nil {
		return fmt.Errorf("redis config is nil")
	}

	if c.Redis.Sentinel != nil {
		if c.Redis.Sentinel.MasterName == "" {
			return fmt.Errorf("sentinel master_name is required")
		}
		if len(c.Redis.Sentinel.SentinelAddresses) == 0 {
			return fmt.Errorf("at least one sentinel address is required")
		}
	} else {
		if c.Redis.Address == "" {
			return fmt.Errorf("redis address is required")
		}

		if _, _, err := net.SplitHostPort(c.Redis.Address); err != nil {
			return fmt.Errorf("invalid redis address format (expected host:port): %w", err)
		}
	}

	const maxRedisDB = 15
	if c.Redis.Index < 0 {
		return fmt.Errorf("redis index must be non-negative, got %d", c.Redis.Index)
	}

	if c.Redis.Index > maxRedisDB {
		return fmt.Errorf("redis index %d exceeds typical maximum of %d", c.Redis.Index, maxRedisDB)
	}

	return nil
}
