package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the audit assistant.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Source     SourceConfig     `yaml:"source"`
	Chunk      ChunkConfig      `yaml:"chunk"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieve   RetrieveConfig   `yaml:"retrieve"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SourceConfig holds document source configuration.
type SourceConfig struct {
	Root     string   `yaml:"root"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ChunkConfig holds chunking configuration.
type ChunkConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// EmbeddingConfig holds embedding backend configuration.
type EmbeddingConfig struct {
	Model       string `yaml:"model"`
	APIKeyEnv   string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL     string `yaml:"base_url"`
	Dimension   int    `yaml:"dimension"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	DelayMs     int    `yaml:"delay_ms"` // Pacing delay between ingest embed calls
}

// GenerationConfig holds generation backend configuration.
type GenerationConfig struct {
	Model           string  `yaml:"model"`
	APIKeyEnv       string  `yaml:"api_key_env"`
	BaseURL         string  `yaml:"base_url"`
	Temperature     float64 `yaml:"temperature"`
	TopK            int     `yaml:"top_k"`
	TopP            float64 `yaml:"top_p"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	TimeoutSecs     int     `yaml:"timeout_secs"`
}

// RetrieveConfig holds retrieval and gating configuration.
type RetrieveConfig struct {
	TopK         int     `yaml:"top_k"`
	MinScore     float64 `yaml:"min_score"` // Results at or below this score are dropped
	GateEnabled  bool    `yaml:"gate_enabled"`
	ConceptsFile string  `yaml:"concepts_file"` // Optional override of the built-in dictionaries
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	RetrievalMaxSize int    `yaml:"retrieval_max_size"`
	RetrievalTTLSecs int    `yaml:"retrieval_ttl_secs"`
	EmbeddingEnabled bool   `yaml:"embedding_enabled"`
	EmbeddingPath    string `yaml:"embedding_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":3001",
		},
		Source: SourceConfig{
			Root:     "documents",
			Includes: []string{"**/*.txt", "**/*.md", "**/*.pdf"},
			Excludes: []string{"**/.*", "**/.*/**"},
		},
		Chunk: ChunkConfig{
			Size:    2000,
			Overlap: 200,
		},
		Embedding: EmbeddingConfig{
			Model:       "embedding-001",
			APIKeyEnv:   "GEMINI_API_KEY",
			BaseURL:     "https://generativelanguage.googleapis.com/v1",
			Dimension:   768,
			TimeoutSecs: 30,
			DelayMs:     200,
		},
		Generation: GenerationConfig{
			Model:           "gemini-1.5-pro",
			APIKeyEnv:       "GEMINI_API_KEY",
			BaseURL:         "https://generativelanguage.googleapis.com/v1",
			Temperature:     0.5,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 4096,
			TimeoutSecs:     60,
		},
		Retrieve: RetrieveConfig{
			TopK:        5,
			MinScore:    0.1,
			GateEnabled: true,
		},
		Cache: CacheConfig{
			RetrievalMaxSize: 100,
			RetrievalTTLSecs: 300,
			EmbeddingEnabled: false, // Opt-in (writes to disk)
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for auditrag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	// Try auditrag.yaml in the directory
	path := filepath.Join(dir, "auditrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Try .auditrag/config.yaml
	path = filepath.Join(dir, ".auditrag", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	// Return defaults
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EmbedCachePath returns the path to the embedding cache database.
func EmbedCachePath(dir string) string {
	return filepath.Join(dir, ".auditrag", "embeddings.db")
}

// EnsureDataDir ensures the .auditrag directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".auditrag"), 0755)
}
