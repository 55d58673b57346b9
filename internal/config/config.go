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

	"github.com/kailas-cloud/litsearch/internal/domain"
)

// Config holds the litsearch service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Index      IndexConfig      `yaml:"index"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Workers    WorkersConfig    `yaml:"workers"`
	Bootstrap  BootstrapConfig  `yaml:"bootstrap"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys means the API is open.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds the OpenAI-compatible embedding provider settings.
type EmbeddingConfig struct {
	BaseURL       string `yaml:"base_url"`
	APIKey        string `yaml:"api_key"`
	Model         string `yaml:"model"`
	Dimensions    int    `yaml:"dimensions"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	Cache         bool   `yaml:"cache"`
	CacheTTLHours int    `yaml:"cache_ttl_hours"` // 0 = no expiry
}

// ExtractionConfig holds the LLM entity extractor settings.
type ExtractionConfig struct {
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	Model       string   `yaml:"model"`
	TimeoutSec  int      `yaml:"timeout_sec"`
	MaxAttempts int      `yaml:"max_attempts"`
	Labels      []string `yaml:"labels"`
}

// IndexConfig holds the search index layout.
type IndexConfig struct {
	Name            string `yaml:"name"`
	KeyPrefix       string `yaml:"key_prefix"`
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
}

// RetrievalConfig holds the ranking parameters.
type RetrievalConfig struct {
	PRFK           int     `yaml:"prf_k"`
	PRFSize        int     `yaml:"prf_size"`
	AlphaPRF       float64 `yaml:"alpha_prf"`
	AlphaFinal     float64 `yaml:"alpha_final"`
	ExpansionTerms int     `yaml:"expansion_terms"`
	ResultSize     int     `yaml:"result_size"`
	FacetSize      int     `yaml:"facet_size"`
	AbstractBias   float64 `yaml:"abstract_bias"`
	TitleBias      float64 `yaml:"title_bias"`
	ScanPageSize   int     `yaml:"scan_page_size"`
}

// WorkersConfig sizes the shared goroutine pool.
type WorkersConfig struct {
	PoolSize int `yaml:"pool_size"`
}

// BootstrapConfig holds corpus sampling settings for create-index.
type BootstrapConfig struct {
	SampleSize int    `yaml:"sample_size"`
	Seed       uint64 `yaml:"seed"` // 0 = random
	CorpusPath string `yaml:"corpus_path"`
}

// Load reads configuration from a YAML file by environment name (local, docker, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML with ${VAR} substitution, applies defaults and validates.
func Parse(data []byte) (Config, error) {
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
//
//nolint:gocyclo // flat list of independent defaults
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60 // full-corpus scoring plus provider calls
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}

	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = domain.VectorDimensions
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 30
	}
	if c.Extraction.TimeoutSec <= 0 {
		c.Extraction.TimeoutSec = 60
	}
	if c.Extraction.MaxAttempts <= 0 {
		c.Extraction.MaxAttempts = 3
	}
	if len(c.Extraction.Labels) == 0 {
		c.Extraction.Labels = []string{"DISEASE", "CHEMICAL"}
	}

	if c.Index.Name == "" {
		c.Index.Name = "pubmed-tja"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "litsearch:"
	}
	hnsw := domain.DefaultHNSWConfig()
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = hnsw.M
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = hnsw.EFConstruct
	}

	c.Retrieval.applyDefaults()

	if c.Workers.PoolSize <= 0 {
		c.Workers.PoolSize = 32
	}
	if c.Bootstrap.SampleSize <= 0 {
		c.Bootstrap.SampleSize = 5000
	}
	if c.Bootstrap.CorpusPath == "" {
		c.Bootstrap.CorpusPath = "pubmed-tja.json"
	}

	// An unset ${API_KEY} leaves an empty entry behind; it must not count as a key.
	keys := c.Auth.APIKeys[:0]
	for _, k := range c.Auth.APIKeys {
		if k != "" {
			keys = append(keys, k)
		}
	}
	c.Auth.APIKeys = keys
}

// applyDefaults fills unset ranking parameters. Alphas are only defaulted when both
// blend weights are zero, so an explicit 0 next to a set value survives.
func (r *RetrievalConfig) applyDefaults() {
	def := domain.DefaultRetrievalConfig()
	if r.PRFK <= 0 {
		r.PRFK = def.PRFK
	}
	if r.PRFSize <= 0 {
		r.PRFSize = def.PRFSize
	}
	if r.AlphaPRF == 0 && r.AlphaFinal == 0 {
		r.AlphaPRF = def.AlphaPRF
		r.AlphaFinal = def.AlphaFinal
	}
	if r.ExpansionTerms <= 0 {
		r.ExpansionTerms = def.ExpansionTerms
	}
	if r.ResultSize <= 0 {
		r.ResultSize = def.ResultSize
	}
	if r.FacetSize <= 0 {
		r.FacetSize = def.FacetSize
	}
	if r.AbstractBias == 0 && r.TitleBias == 0 {
		r.AbstractBias = def.AbstractBias
		r.TitleBias = def.TitleBias
	}
	if r.ScanPageSize <= 0 {
		r.ScanPageSize = 500
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Driver != "redis" {
		return fmt.Errorf("database.driver must be \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.Dimensions != domain.VectorDimensions {
		return fmt.Errorf("embedding.dimensions must be %d, got %d", domain.VectorDimensions, c.Embedding.Dimensions)
	}
	if c.Extraction.Model == "" {
		return fmt.Errorf("extraction.model is required")
	}
	for name, a := range map[string]float64{
		"retrieval.alpha_prf":   c.Retrieval.AlphaPRF,
		"retrieval.alpha_final": c.Retrieval.AlphaFinal,
	} {
		if a < 0 || a > 1 {
			return fmt.Errorf("%s must be within [0,1], got %g", name, a)
		}
	}
	if c.Retrieval.PRFSize > c.Retrieval.PRFK {
		return fmt.Errorf("retrieval.prf_size (%d) must not exceed retrieval.prf_k (%d)",
			c.Retrieval.PRFSize, c.Retrieval.PRFK)
	}
	return nil
}

// Ranking converts the retrieval section into pipeline parameters.
func (c *Config) Ranking() domain.RetrievalConfig {
	r := c.Retrieval
	return domain.RetrievalConfig{
		PRFK:           r.PRFK,
		PRFSize:        r.PRFSize,
		AlphaPRF:       r.AlphaPRF,
		AlphaFinal:     r.AlphaFinal,
		ExpansionTerms: r.ExpansionTerms,
		ResultSize:     r.ResultSize,
		FacetSize:      r.FacetSize,
		AbstractBias:   r.AbstractBias,
		TitleBias:      r.TitleBias,
	}
}

// HNSW returns the vector graph parameters.
func (c *Config) HNSW() domain.HNSWConfig {
	return domain.HNSWConfig{M: c.Index.HNSWM, EFConstruct: c.Index.HNSWEFConstruct}
}

// EmbeddingTimeout bounds a single embedding call.
func (c *Config) EmbeddingTimeout() time.Duration {
	return time.Duration(c.Embedding.TimeoutSec) * time.Second
}

// ExtractionTimeout bounds a single extraction call.
func (c *Config) ExtractionTimeout() time.Duration {
	return time.Duration(c.Extraction.TimeoutSec) * time.Second
}

// CacheTTL is the embedding cache entry lifetime; zero disables expiry.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Embedding.CacheTTLHours) * time.Hour
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
