package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	GitHub    GitHubConfig
	Proxy     ProxyConfig
	Dashboard DashboardConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type GitHubConfig struct {
	Token          string
	APIURL         string
	Timeout        int
	MaxConcurrency int
}

type ProxyConfig struct {
	AllowedOrigins []string
	FallbackAvatar string
}

type DashboardConfig struct {
	Title               string
	RosterPath          string
	StatsProxyURL       string
	CalendarURLTemplate string
}

// Load loads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	port := getEnv("PORT", "8080")

	cfg := &Config{
		Server: ServerConfig{
			Port:         port,
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		GitHub: GitHubConfig{
			Token:          getEnv("GITHUB_TOKEN", ""),
			APIURL:         getEnv("GITHUB_API_URL", "https://api.github.com/"),
			Timeout:        getEnvAsInt("GITHUB_TIMEOUT", 10),
			MaxConcurrency: getEnvAsInt("GITHUB_MAX_CONCURRENCY", 4),
		},
		Proxy: ProxyConfig{
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{
				"https://commit-board.vercel.app",
				"http://localhost:" + port,
			}),
			FallbackAvatar: getEnv("FALLBACK_AVATAR", "/favicon.ico"),
		},
		Dashboard: DashboardConfig{
			Title:               getEnv("DASHBOARD_TITLE", "Commitors Month Dashboard"),
			RosterPath:          getEnv("ROSTER_PATH", "./data/team.json"),
			StatsProxyURL:       getEnv("STATS_PROXY_URL", "http://localhost:"+port+"/api/fetch-stats"),
			CalendarURLTemplate: getEnv("CALENDAR_URL_TEMPLATE", "https://ghchart.rshah.org/%s"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later at request time.
// An empty GitHub token is allowed: the stats endpoint answers 500 until one is set.
func (c *Config) Validate() error {
	if c.GitHub.MaxConcurrency < 1 {
		return fmt.Errorf("GITHUB_MAX_CONCURRENCY must be at least 1, got %d", c.GitHub.MaxConcurrency)
	}
	if c.GitHub.Timeout < 1 {
		return fmt.Errorf("GITHUB_TIMEOUT must be at least 1 second, got %d", c.GitHub.Timeout)
	}
	if !strings.HasSuffix(c.GitHub.APIURL, "/") {
		c.GitHub.APIURL += "/"
	}
	if strings.Count(c.Dashboard.CalendarURLTemplate, "%s") != 1 {
		return fmt.Errorf("CALENDAR_URL_TEMPLATE must contain exactly one %%s placeholder")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated environment variable, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
