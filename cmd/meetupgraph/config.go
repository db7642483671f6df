package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	storeNeo4j = "neo4j"
	storeKuzu  = "kuzu"
)

// Config is read from the environment, after loading a .env file when one exists.
type Config struct {
	Store string `envconfig:"STORE" default:"neo4j"`

	Neo4jURI            string `envconfig:"NEO4J_URI" default:"bolt://127.0.0.1:7687"`
	Neo4jUsername       string `envconfig:"NEO4J_USERNAME" default:"neo4j"`
	Neo4jPassword       string `envconfig:"NEO4J_PASSWORD"`
	Neo4jDatabase       string `envconfig:"NEO4J_DATABASE" default:"meetups"`
	Neo4jFetchSize      int    `envconfig:"NEO4J_FETCH_SIZE" default:"500"`
	Neo4jMaxConnections int    `envconfig:"NEO4J_MAX_CONNECTIONS" default:"10"`

	// KuzuPath selects an on-disk database. Empty means in-memory.
	KuzuPath string `envconfig:"KUZU_PATH"`

	RendererBinary string        `envconfig:"RENDERER_BINARY" default:"dot"`
	RenderFormat   string        `envconfig:"RENDER_FORMAT" default:"png"`
	RenderTimeout  time.Duration `envconfig:"RENDER_TIMEOUT" default:"30s"`
	RenderLenient  bool          `envconfig:"RENDER_LENIENT" default:"false"`

	QueryTimeout   time.Duration `envconfig:"QUERY_TIMEOUT" default:"30s"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"2m"`
	MaxRows        int           `envconfig:"MAX_ROWS" default:"10000"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	DiscordToken   string `envconfig:"DISCORD_TOKEN"`
	DiscordGuildID string `envconfig:"DISCORD_GUILD_ID"`
}

var (
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrMissingDiscordToken = errors.New("DISCORD_TOKEN is required to run the bot")
)

// LoadConfig reads the configuration. Variables already set in the
// environment take precedence over the .env file.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.Store {
	case storeNeo4j, storeKuzu:
	default:
		return fmt.Errorf("%w: STORE must be %q or %q, got %q", ErrInvalidConfig, storeNeo4j, storeKuzu, c.Store)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%w: LOG_FORMAT must be json or console, got %q", ErrInvalidConfig, c.LogFormat)
	}

	if c.Neo4jMaxConnections <= 0 {
		return fmt.Errorf("%w: NEO4J_MAX_CONNECTIONS must be positive", ErrInvalidConfig)
	}

	if c.RenderTimeout <= 0 {
		return fmt.Errorf("%w: RENDER_TIMEOUT must be positive", ErrInvalidConfig)
	}

	if c.MaxRows < 0 {
		return fmt.Errorf("%w: MAX_ROWS must not be negative", ErrInvalidConfig)
	}

	return nil
}
