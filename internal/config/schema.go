package config

import (
	"time"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Redis   *RedisConfig  `yaml:"redis"`
}

type ServerConfig struct {
	Debug *ServerDebugConfig `yaml:"debug"`
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RefreshPath    string        `yaml:"refresh_path"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// RefreshTimeout bounds a single refresh call. Zero leaves it unbounded.
	RefreshTimeout time.Duration `yaml:"refresh_timeout"`
	UserAgent      string        `yaml:"user_agent"`
}

var DefaultAPIConfig = APIConfig{
	RefreshPath:    "/api/auth/refresh",
	RequestTimeout: 30 * time.Second,
	UserAgent:      "jobboard-client",
}

type AuthConfig struct {
	LoginPath     string        `yaml:"login_path"`
	PreAuthPaths  []string      `yaml:"pre_auth_paths"`
	RedirectKey   string        `yaml:"redirect_key"`
	RedirectTTL   time.Duration `yaml:"redirect_ttl"`
	StartLocation string        `yaml:"start_location"`
	// CookieKey is where the session cookies are kept between runs.
	CookieKey     string        `yaml:"cookie_key"`
	CookieTTL     time.Duration `yaml:"cookie_ttl"`
}

var DefaultAuthConfig = AuthConfig{
	LoginPath:     "/login",
	PreAuthPaths:  []string{"/login", "/register", "/forgot-password", "/reset-password"},
	RedirectKey:   "redirect_after_login",
	RedirectTTL:   7 * 24 * time.Hour,
	StartLocation: "/",
	CookieKey:     "session_cookies",
	CookieTTL:     30 * 24 * time.Hour,
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var DefaultLogConfig = LogConfig{
	Level:  "info",
	Format: "text",
}

type StorageConfig struct {
	Type   string `yaml:"type"` // "bolt", "redis" or "memory"
	Prefix string `yaml:"prefix"`
	// Path is the bolt database file. Defaults to the user cache directory.
	Path   string `yaml:"path"`
}

// DefaultStorageConfig keeps client state in a local file so it outlives the process.
// The memory store loses the redirect target and session cookies on exit.
var DefaultStorageConfig = StorageConfig{
	Type:   "bolt",
	Prefix: "jobboard:client:",
}

type RedisConfig struct {
	Address  string               `yaml:"address"`
	Username string               `yaml:"username"`
	Password string               `yaml:"password"`
	Sentinel *RedisSentinelConfig `yaml:"sentinel"`
	Index    int                  `yaml:"index"`
}

type RedisSentinelConfig struct {
	MasterName        string   `yaml:"master_name"`
	SentinelAddresses []string `yaml:"addresses"`
	SentinelPassword  string   `yaml:"password"`
	SentinelUsername  string   `yaml:"username"`
}
