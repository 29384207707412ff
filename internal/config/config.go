package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultURL is the public authority endpoint.
const DefaultURL = "wss://pixels-backend.fly.dev/ws"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Viewport ViewportConfig `yaml:"viewport"`
	Log      LogConfig      `yaml:"log"`
	Export   ExportConfig   `yaml:"export"`
}

type ServerConfig struct {
	URL              string        `yaml:"url"`
	Discover         bool          `yaml:"discover"`
	DiscoverTimeout  time.Duration `yaml:"discover_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	MaxMessageSize   int64         `yaml:"max_message_size"`
	SendBuffer       int           `yaml:"send_buffer"`
}

// ViewportConfig sizes the square canvas: min(available - margin, cap).
type ViewportConfig struct {
	AvailableWidth float64 `yaml:"available_width"`
	Margin         float64 `yaml:"margin"`
	Cap            float64 `yaml:"cap"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:              DefaultURL,
			DiscoverTimeout:  3 * time.Second,
			HandshakeTimeout: 10 * time.Second,
			WriteTimeout:     10 * time.Second,
			MaxMessageSize:   1 << 20,
			SendBuffer:       256,
		},
		Viewport: ViewportConfig{
			AvailableWidth: 650,
			Margin:         50,
			Cap:            600,
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file at path and finally PIXELBOARD_* environment
// variables. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	config.Server.URL = getEnv("PIXELBOARD_URL", config.Server.URL)
	config.Server.Discover = getEnvAsBool("PIXELBOARD_DISCOVER", config.Server.Discover)
	config.Log.Level = getEnv("PIXELBOARD_LOG_LEVEL", config.Log.Level)
	config.Log.Pretty = getEnvAsBool("PIXELBOARD_LOG_PRETTY", config.Log.Pretty)
	config.Export.Dir = getEnv("PIXELBOARD_EXPORT_DIR", config.Export.Dir)
	config.Viewport.AvailableWidth = getEnvAsFloat("PIXELBOARD_WIDTH", config.Viewport.AvailableWidth)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.Server.URL == "" && !c.Server.Discover {
		return errors.New("server.url is required unless server.discover is set")
	}
	if c.Server.SendBuffer <= 0 {
		return fmt.Errorf("server.send_buffer must be positive, got %d", c.Server.SendBuffer)
	}
	if c.Viewport.Cap <= 0 {
		return fmt.Errorf("viewport.cap must be positive, got %v", c.Viewport.Cap)
	}
	if c.Viewport.Margin < 0 {
		return fmt.Errorf("viewport.margin must not be negative, got %v", c.Viewport.Margin)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
