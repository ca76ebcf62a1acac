package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/glyphdex/internal/repository/sigcache"
	"github.com/kailas-cloud/glyphdex/internal/usecase/canonicalize"
	"github.com/kailas-cloud/glyphdex/internal/usecase/corpus"
	"github.com/kailas-cloud/glyphdex/internal/usecase/generate"
)

// Config holds the glyphdex API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Cache    CacheConfig    `yaml:"cache"`
	Semantic SemanticConfig `yaml:"semantic"`
	Engine   EngineConfig   `yaml:"engine"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CacheConfig holds signal cache store settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none, memory, valkey, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	SignalTTLSec     int      `yaml:"signal_ttl_sec"` // lifetime of cached signals
}

// SemanticConfig holds semantic signal provider settings.
type SemanticConfig struct {
	Provider      string   `yaml:"provider"` // lexicon, openai (default: lexicon)
	APIKey        string   `yaml:"api_key"`
	BaseURL       string   `yaml:"base_url"`
	Model         string   `yaml:"model"`
	Dimensions    int      `yaml:"dimensions"`
	Categories    []string `yaml:"categories"`
	MinSimilarity float64  `yaml:"min_similarity"`
	TimeoutMs     int      `yaml:"timeout_ms"`
}

// EngineConfig holds pipeline tuning settings.
type EngineConfig struct {
	MaxSpanLength      int       `yaml:"max_span_length"`
	PrefilterThreshold float64   `yaml:"prefilter_threshold"`
	PrefilterWeights   []float64 `yaml:"prefilter_weights"` // semantic, phrase weight, frequency
	BucketCount        int       `yaml:"bucket_count"`
	FrequencyWindow    int       `yaml:"frequency_window"` // 0 = whole document
	Concurrency        int       `yaml:"concurrency"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.SignalTTLSec <= 0 {
		c.Cache.SignalTTLSec = int(sigcache.DefaultTTL / time.Second)
	}
	if c.Semantic.Provider == "" {
		c.Semantic.Provider = "lexicon"
	}
	if c.Semantic.TimeoutMs <= 0 {
		c.Semantic.TimeoutMs = 2000
	}
	if c.Engine.MaxSpanLength <= 0 {
		c.Engine.MaxSpanLength = generate.DefaultMaxSpanLength
	}
	if c.Engine.PrefilterThreshold <= 0 {
		c.Engine.PrefilterThreshold = generate.DefaultThreshold
	}
	if len(c.Engine.PrefilterWeights) == 0 {
		c.Engine.PrefilterWeights = generate.DefaultWeights[:]
	}
	if c.Engine.BucketCount <= 0 {
		c.Engine.BucketCount = canonicalize.DefaultBucketCount
	}
	if c.Engine.Concurrency <= 0 {
		c.Engine.Concurrency = corpus.DefaultConcurrency
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Cache.Driver {
	case "none", "memory":
		// no addrs needed
	case "valkey", "redis":
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be one of none, memory, valkey, redis, got %q", c.Cache.Driver)
	}

	switch c.Semantic.Provider {
	case "lexicon":
		// no remote settings needed
	case "openai":
		if c.Semantic.APIKey == "" {
			return fmt.Errorf("semantic.api_key is required for provider %q", c.Semantic.Provider)
		}
		if c.Semantic.Model == "" {
			return fmt.Errorf("semantic.model is required for provider %q", c.Semantic.Provider)
		}
		if len(c.Semantic.Categories) == 0 {
			return fmt.Errorf("semantic.categories is required for provider %q", c.Semantic.Provider)
		}
	default:
		return fmt.Errorf("semantic.provider must be \"lexicon\" or \"openai\", got %q", c.Semantic.Provider)
	}

	if len(c.Engine.PrefilterWeights) != 3 {
		return fmt.Errorf("engine.prefilter_weights must hold 3 values, got %d", len(c.Engine.PrefilterWeights))
	}
	for i, w := range c.Engine.PrefilterWeights {
		if w < 0 {
			return fmt.Errorf("engine.prefilter_weights[%d] must be non-negative, got %f", i, w)
		}
	}
	if c.Engine.FrequencyWindow < 0 {
		return fmt.Errorf("engine.frequency_window must be non-negative, got %d", c.Engine.FrequencyWindow)
	}

	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
