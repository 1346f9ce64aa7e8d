// Package config loads triage settings from a .env file, an optional YAML
// file and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/triage/ai"
	"github.com/poiesic/triage/answer"
	"github.com/poiesic/triage/core"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when Load is given no path and the file exists.
const DefaultFile = "triage.yaml"

// StorageConfig locates the document store.
type StorageConfig struct {
	Dir        string `yaml:"dir"`
	Collection string `yaml:"collection"`
}

// AIConfig configures the hosted model endpoints.
type AIConfig struct {
	BaseURL         string  `yaml:"base_url"`
	APIKeyEnv       string  `yaml:"api_key_env"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	ClassifierModel string  `yaml:"classifier_model"`
	MaxTokens       int     `yaml:"max_tokens"`
	Temperature     float64 `yaml:"temperature"`
	TimeoutSecs     int     `yaml:"timeout_secs"`
}

// DataConfig locates the ticket file and the knowledge-base directory.
type DataConfig struct {
	Tickets string `yaml:"tickets"`
	DocsDir string `yaml:"docs_dir"`
}

// AnswerConfig tunes answer composition. Canned replaces the built-in
// canned answers when set; keys are topic names.
type AnswerConfig struct {
	TopK   int                      `yaml:"top_k"`
	Canned map[string]answer.Canned `yaml:"canned,omitempty"`
}

// FetchConfig tunes the documentation fetcher.
type FetchConfig struct {
	IntervalMillis int    `yaml:"interval_millis"`
	TimeoutSecs    int    `yaml:"timeout_secs"`
	UserAgent      string `yaml:"user_agent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the root configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
	Data    DataConfig    `yaml:"data"`
	Answer  AnswerConfig  `yaml:"answer"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Server  ServerConfig  `yaml:"server"`

	// apiKey is resolved from the environment and never written out.
	apiKey string
}

// Default returns the built-in configuration.
func Default() *Config {
	defaults := ai.DefaultConfig()
	return &Config{
		Storage: StorageConfig{
			Dir:        "triage_db",
			Collection: "docs",
		},
		AI: AIConfig{
			BaseURL:         defaults.ClassifierHost,
			APIKeyEnv:       "OPENAI_API_KEY",
			EmbeddingModel:  defaults.EmbeddingModel,
			ClassifierModel: defaults.ClassifierModel,
			MaxTokens:       defaults.MaxTokens,
			Temperature:     defaults.Temperature,
			TimeoutSecs:     int(defaults.Timeout / time.Second),
		},
		Data: DataConfig{
			Tickets: "data/sample_tickets.jsonl",
			DocsDir: "data/docs",
		},
		Answer: AnswerConfig{
			TopK: 3,
		},
		Fetch: FetchConfig{
			IntervalMillis: 1000,
			TimeoutSecs:    15,
			UserAgent:      "triage-fetch/1.0",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load builds the configuration. A .env file in the working directory is
// loaded into the environment first, without overriding variables that are
// already set. An empty path reads DefaultFile if it exists; a missing file
// at an explicit path is an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.AI.APIKeyEnv == "" {
		c.AI.APIKeyEnv = "OPENAI_API_KEY"
	}
	c.apiKey = os.Getenv(c.AI.APIKeyEnv)
	c.AI.BaseURL = getEnv("OPENAI_BASE_URL", c.AI.BaseURL)

	c.Storage.Dir = getEnv("TRIAGE_DB_DIR", getEnv("CHROMA_DB_DIR", c.Storage.Dir))
	c.Storage.Collection = getEnv("TRIAGE_COLLECTION", c.Storage.Collection)
	c.Data.Tickets = getEnv("TRIAGE_TICKETS", c.Data.Tickets)
	c.Data.DocsDir = getEnv("TRIAGE_DOCS_DIR", c.Data.DocsDir)
	c.Answer.TopK = getEnvAsInt("TRIAGE_TOP_K", c.Answer.TopK)
	c.Server.Addr = getEnv("TRIAGE_ADDR", c.Server.Addr)
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return errors.New("config: storage.dir is required")
	}
	if c.Storage.Collection == "" {
		return errors.New("config: storage.collection is required")
	}
	if c.Answer.TopK < 1 {
		return fmt.Errorf("config: answer.top_k must be positive, got %d", c.Answer.TopK)
	}
	if c.Fetch.IntervalMillis < 0 {
		return errors.New("config: fetch.interval_millis cannot be negative")
	}
	if _, err := c.CannedAnswers(); err != nil {
		return err
	}
	return c.ModelConfig().Validate()
}

// APIKey returns the credential read from the configured environment variable.
func (c *Config) APIKey() string {
	return c.apiKey
}

// SetAPIKey overrides the credential, for example from a command-line flag.
func (c *Config) SetAPIKey(key string) {
	c.apiKey = key
}

// ModelConfig returns the model settings as an ai.Config.
func (c *Config) ModelConfig() *ai.Config {
	cfg := ai.NewConfig(
		ai.WithAPIKey(c.apiKey),
		ai.WithHost(c.AI.BaseURL),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithClassifierModel(c.AI.ClassifierModel),
		ai.WithMaxTokens(c.AI.MaxTokens),
		ai.WithTemperature(c.AI.Temperature),
		ai.WithTimeout(time.Duration(c.AI.TimeoutSecs)*time.Second),
	)
	cfg.Normalize()
	return cfg
}

// CannedAnswers returns the canned answers keyed by topic. Without
// overrides it returns the built-in set.
func (c *Config) CannedAnswers() (map[core.Topic]answer.Canned, error) {
	if len(c.Answer.Canned) == 0 {
		return answer.DefaultCannedAnswers(), nil
	}

	canned := make(map[core.Topic]answer.Canned, len(c.Answer.Canned))
	for name, entry := range c.Answer.Canned {
		topic, ok := core.ParseTopic(name)
		if !ok {
			return nil, fmt.Errorf("config: canned answer for unknown topic %q", name)
		}
		canned[topic] = entry
	}
	return canned, nil
}

// FetchInterval returns the spacing between fetches.
func (c *Config) FetchInterval() time.Duration {
	return time.Duration(c.Fetch.IntervalMillis) * time.Millisecond
}

// FetchTimeout returns the per-request fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSecs) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
