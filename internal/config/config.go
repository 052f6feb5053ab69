package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kevinmichaelchen/portfolio-feed/internal/feed"
)

const (
	defaultAccount     = "NikMir15"
	defaultMaxCards    = 9
	defaultPolicy      = string(feed.PolicyRequire)
	defaultTitle       = "Portfolio"
	defaultTimeoutSecs = 15
)

type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	Feed   FeedConfig   `yaml:"feed"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Site   SiteConfig   `yaml:"site"`
}

type GitHubConfig struct {
	Token          string `yaml:"token"`
	APIURL         string `yaml:"api_url"`
	RawURL         string `yaml:"raw_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type FeedConfig struct {
	Account           string `yaml:"account"`
	MaxCards          int    `yaml:"max_cards"`
	DescriptionPolicy string `yaml:"description_policy"`
	Placeholder       string `yaml:"placeholder"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           string   `yaml:"port"`
	ReadTimeout    int      `yaml:"read_timeout"`
	WriteTimeout   int      `yaml:"write_timeout"`
	IdleTimeout    int      `yaml:"idle_timeout"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type SiteConfig struct {
	Title string `yaml:"title"`
}

// Load builds the configuration from an optional YAML file, then the
// environment (including a .env file when present), then defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var errs []error
	setInt := func(dst *int, key string) {
		if err := parseInt(dst, key); err != nil {
			errs = append(errs, err)
		}
	}

	setString(&c.GitHub.Token, "GITHUB_TOKEN")
	setString(&c.GitHub.APIURL, "GITHUB_API_URL")
	setString(&c.GitHub.RawURL, "GITHUB_RAW_URL")
	setInt(&c.GitHub.TimeoutSeconds, "GITHUB_TIMEOUT_SECONDS")

	setString(&c.Feed.Account, "FEED_ACCOUNT")
	setInt(&c.Feed.MaxCards, "FEED_MAX_CARDS")
	setString(&c.Feed.DescriptionPolicy, "FEED_DESCRIPTION_POLICY")
	setString(&c.Feed.Placeholder, "FEED_PLACEHOLDER")

	setString(&c.Server.Host, "SERVER_HOST")
	setString(&c.Server.Port, "SERVER_PORT")
	setInt(&c.Server.ReadTimeout, "SERVER_READ_TIMEOUT")
	setInt(&c.Server.WriteTimeout, "SERVER_WRITE_TIMEOUT")
	setInt(&c.Server.IdleTimeout, "SERVER_IDLE_TIMEOUT")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	setString(&c.Log.Level, "LOG_LEVEL")
	if v := os.Getenv("LOG_DEVELOPMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOG_DEVELOPMENT: %q is not a boolean", v))
		} else {
			c.Log.Development = b
		}
	}

	setString(&c.Site.Title, "SITE_TITLE")
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	if c.GitHub.TimeoutSeconds == 0 {
		c.GitHub.TimeoutSeconds = defaultTimeoutSecs
	}
	if c.Feed.Account == "" {
		c.Feed.Account = defaultAccount
	}
	if c.Feed.MaxCards == 0 {
		c.Feed.MaxCards = defaultMaxCards
	}
	if c.Feed.DescriptionPolicy == "" {
		c.Feed.DescriptionPolicy = defaultPolicy
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Site.Title == "" {
		c.Site.Title = defaultTitle
	}
}

// Validate rejects settings the feed cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Feed.Account) == "" {
		return fmt.Errorf("feed account is required")
	}
	if c.Feed.MaxCards <= 0 {
		return fmt.Errorf("feed max cards must be positive, got %d", c.Feed.MaxCards)
	}
	if _, err := feed.ParsePolicy(c.Feed.DescriptionPolicy); err != nil {
		return err
	}
	if c.GitHub.TimeoutSeconds < 0 {
		return fmt.Errorf("GitHub timeout must not be negative")
	}
	return nil
}

// GitHubTimeout is the per-request timeout for GitHub calls.
func (c *Config) GitHubTimeout() time.Duration {
	return time.Duration(c.GitHub.TimeoutSeconds) * time.Second
}

// ServerAddress returns host:port for the HTTP listener.
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func parseInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, v)
	}
	*dst = n
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
