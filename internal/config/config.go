package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the API server and the loader.
type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	LLM      LLM      `yaml:"llm"`
	Chat     Chat     `yaml:"chat"`
	Auth     Auth     `yaml:"auth"`
	Dataset  Dataset  `yaml:"dataset"`
}

type Server struct {
	Port              string `yaml:"port"`
	CORSAllowedOrigin string `yaml:"cors_allowed_origin"`
}

type Database struct {
	Driver      string `yaml:"driver"`
	PrimaryDSN  string `yaml:"primary_dsn"`
	ReadOnlyDSN string `yaml:"readonly_dsn"`
}

type LLM struct {
	Provider       string        `yaml:"provider"`
	APIKey         string        `yaml:"api_key"`
	Model          string        `yaml:"model"`
	BaseURL        string        `yaml:"base_url"`
	MaxTokens      int           `yaml:"max_tokens"`
	Temperature    float64       `yaml:"temperature"`
	Timeout        time.Duration `yaml:"timeout"`
	ClarifyTimeout time.Duration `yaml:"clarify_timeout"`
}

type Chat struct {
	HistoryLimit int `yaml:"history_limit"`
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type Dataset struct {
	Path string `yaml:"path"`
}

const devJWTSecret = "dev-only-secret-change-me"

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:              "5000",
			CORSAllowedOrigin: "http://localhost:3000",
		},
		Database: Database{
			Driver: "mysql",
		},
		LLM: LLM{
			Provider:       "groq",
			MaxTokens:      1000,
			Temperature:    0.7,
			Timeout:        30 * time.Second,
			ClarifyTimeout: 15 * time.Second,
		},
		Chat: Chat{
			HistoryLimit: 10,
		},
		Auth: Auth{
			TokenTTL: 72 * time.Hour,
		},
		Dataset: Dataset{
			Path: "./ecommerce-dataset/archive",
		},
	}
}

// Load reads .env (optional), then the YAML file named by CONFIG_FILE (optional),
// then applies environment variable overrides.
func Load() (*Config, error) {
	// 1. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg := Default()

	// 2. --- Optional YAML File ---
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// 3. --- Environment Overrides ---
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	cfg.finalize()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(getenv, "PORT", &c.Server.Port)
	setString(getenv, "CORS_ALLOWED_ORIGIN", &c.Server.CORSAllowedOrigin)

	setString(getenv, "DB_DRIVER", &c.Database.Driver)
	setString(getenv, "DB_DSN_PRIMARY", &c.Database.PrimaryDSN)
	setString(getenv, "DB_DSN_READONLY", &c.Database.ReadOnlyDSN)

	setString(getenv, "LLM_PROVIDER", &c.LLM.Provider)
	setString(getenv, "LLM_MODEL", &c.LLM.Model)
	setString(getenv, "LLM_BASE_URL", &c.LLM.BaseURL)
	// Only the selected provider's key is read; LLM_API_KEY overrides it.
	setString(getenv, providerKeyEnv(c.LLM.Provider), &c.LLM.APIKey)
	setString(getenv, "LLM_API_KEY", &c.LLM.APIKey)

	setString(getenv, "JWT_SECRET", &c.Auth.JWTSecret)
	setString(getenv, "DATASET_PATH", &c.Dataset.Path)

	if err := setInt(getenv, "LLM_MAX_TOKENS", &c.LLM.MaxTokens); err != nil {
		return err
	}
	if err := setFloat(getenv, "LLM_TEMPERATURE", &c.LLM.Temperature); err != nil {
		return err
	}
	if err := setDuration(getenv, "LLM_TIMEOUT", &c.LLM.Timeout); err != nil {
		return err
	}
	if err := setDuration(getenv, "LLM_CLARIFY_TIMEOUT", &c.LLM.ClarifyTimeout); err != nil {
		return err
	}
	if err := setInt(getenv, "CHAT_HISTORY_LIMIT", &c.Chat.HistoryLimit); err != nil {
		return err
	}
	if err := setDuration(getenv, "JWT_TTL", &c.Auth.TokenTTL); err != nil {
		return err
	}
	return nil
}

// providerKeyEnv names the environment variable holding the API key of provider.
func providerKeyEnv(provider string) string {
	if strings.EqualFold(provider, "gemini") {
		return "GEMINI_API_KEY"
	}
	return "GROQ_API_KEY"
}

// finalize fills values that depend on other settings.
func (c *Config) finalize() {
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)

	if c.Database.ReadOnlyDSN == "" {
		c.Database.ReadOnlyDSN = c.Database.PrimaryDSN
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case "gemini":
			c.LLM.Model = "gemini-1.5-flash"
		default:
			c.LLM.Model = "llama3-8b-8192"
		}
	}
	if c.Auth.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is not set. Using an insecure development secret.")
		c.Auth.JWTSecret = devJWTSecret
	}
}

// LLMEnabled reports whether an LLM adapter should be constructed.
func (c *Config) LLMEnabled() bool {
	return c.LLM.Provider != "none" && c.LLM.APIKey != ""
}

func setString(getenv func(string) string, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

func setInt(getenv func(string) string, key string, dst *int) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setFloat(getenv func(string) string, key string, dst *float64) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = f
	return nil
}

func setDuration(getenv func(string) string, key string, dst *time.Duration) error {
	v := getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}
