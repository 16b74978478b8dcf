// Load envs from .env
// Load YAML config
// Override with env vars
// Validate config

package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	AI       AIConfig       `yaml:"ai"`
	Browser  BrowserConfig  `yaml:"browser"`
	Search   SearchConfig   `yaml:"search"`
	Telegram TelegramConfig `yaml:"telegram"`
	Database DatabaseConfig `yaml:"database"`
	//Paths
	CachePath string `yaml:"cache_path"`
	LogPath   string `yaml:"log_path"`
}

type ServerConfig struct {
	Port           string        `yaml:"port" env:"PORT"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SessionCookie  string        `yaml:"session_cookie"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	MaxUploadMB    int64         `yaml:"max_upload_mb"`
}

type AIConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	GoogleAPIKey string `yaml:"google_api_key" env:"GOOGLE_API_KEY"`
	GroqAPIKey   string `yaml:"groq_api_key" env:"GROQ_API_KEY"`
	// ShareServerKey lets requests without their own key spend the
	// configured provider key. Off by default.
	ShareServerKey bool `yaml:"share_server_key"`
}

// DefaultAPIKey returns the configured key of the selected provider.
func (c AIConfig) DefaultAPIKey() string {
	if strings.EqualFold(c.Provider, "groq") {
		return c.GroqAPIKey
	}
	return c.GoogleAPIKey
}

// SharedAPIKey is the key handed to keyless requests: DefaultAPIKey when
// ShareServerKey is set, empty otherwise.
func (c AIConfig) SharedAPIKey() string {
	if !c.ShareServerKey {
		return ""
	}
	return c.DefaultAPIKey()
}

type BrowserConfig struct {
	Driver        string `yaml:"driver" env:"BROWSER_DRIVER"`
	Headless      bool   `yaml:"headless"`
	ExecPath      string `yaml:"exec_path" env:"CHROME_PATH"`
	UserAgent     string `yaml:"user_agent"`
	CookiesPath   string `yaml:"cookies_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

type SearchConfig struct {
	BaseURL               string        `yaml:"base_url"`
	NavigationTimeout     time.Duration `yaml:"navigation_timeout"`
	MaxAttempts           int           `yaml:"max_attempts"`
	InitialBackoff        time.Duration `yaml:"initial_backoff"`
	MaxBackoff            time.Duration `yaml:"max_backoff"`
	ScrollPause           time.Duration `yaml:"scroll_pause"`
	RevealRoundsPerResult float64       `yaml:"reveal_rounds_per_result"`
	MaxRevealRounds       int           `yaml:"max_reveal_rounds"`
	DetailDelayMinMs      int           `yaml:"detail_delay_min_ms"`
	DetailDelayMaxMs      int           `yaml:"detail_delay_max_ms"`
	RunTimeout            time.Duration `yaml:"run_timeout"`
	MaxCount              int           `yaml:"max_count"`
}

type TelegramConfig struct {
	Token  string `yaml:"token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

type DatabaseConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

// Default is the configuration used when neither the YAML file nor the
// environment set a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          "8080",
			SessionCookie: "resume_session",
			SessionTTL:    24 * time.Hour,
			MaxUploadMB:   10,
		},
		AI: AIConfig{Provider: "gemini"},
		Browser: BrowserConfig{
			Driver:      "playwright",
			Headless:    true,
			CookiesPath: ".cookies/linkedin.json",
		},
		Search: SearchConfig{
			BaseURL:               "https://www.linkedin.com/jobs/search",
			NavigationTimeout:     30 * time.Second,
			MaxAttempts:           4,
			InitialBackoff:        2 * time.Second,
			MaxBackoff:            15 * time.Second,
			ScrollPause:           1500 * time.Millisecond,
			RevealRoundsPerResult: 0.5,
			MaxRevealRounds:       20,
			DetailDelayMinMs:      800,
			DetailDelayMaxMs:      2000,
			RunTimeout:            10 * time.Minute,
			MaxCount:              50,
		},
		CachePath: ".cache",
		LogPath:   "logs",
	}
}

// Load reads .env, then the YAML file at path (a missing file is fine),
// then applies env overrides and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		log.Printf("Warning: %s not found, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	//Override with env vars
	overrides := map[string]*string{
		"PORT":               &c.Server.Port,
		"GOOGLE_API_KEY":     &c.AI.GoogleAPIKey,
		"GROQ_API_KEY":       &c.AI.GroqAPIKey,
		"BROWSER_DRIVER":     &c.Browser.Driver,
		"CHROME_PATH":        &c.Browser.ExecPath,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.Token,
		"DATABASE_URL":       &c.Database.URL,
	}
	for name, field := range overrides {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	return nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Browser.Driver) {
	case "playwright", "chromedp":
	default:
		errs = append(errs, fmt.Errorf("browser.driver must be playwright or chromedp, got %q", c.Browser.Driver))
	}
	switch strings.ToLower(c.AI.Provider) {
	case "gemini", "groq":
	default:
		errs = append(errs, fmt.Errorf("ai.provider must be gemini or groq, got %q", c.AI.Provider))
	}
	if c.Search.MaxAttempts < 1 {
		errs = append(errs, errors.New("search.max_attempts must be at least 1"))
	}
	if c.Search.MaxRevealRounds < 1 {
		errs = append(errs, errors.New("search.max_reveal_rounds must be at least 1"))
	}
	if c.Search.RevealRoundsPerResult <= 0 {
		errs = append(errs, errors.New("search.reveal_rounds_per_result must be positive"))
	}
	if c.Search.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("search.navigation_timeout must be positive"))
	}
	if c.Search.MaxCount < 1 {
		errs = append(errs, errors.New("search.max_count must be at least 1"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	return errors.Join(errs...)
}
