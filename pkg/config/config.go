package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/docportal/docportal/pkg/domain"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Chunker   ChunkerConfig   `mapstructure:"chunker"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Sessions  SessionsConfig  `mapstructure:"sessions"`
}

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type ProviderConfig struct {
	// Default selects the provider variant: "openai" or "ollama".
	Default        string        `mapstructure:"default"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	OpenAI         *OpenAIConfig `mapstructure:"openai"`
	Ollama         *OllamaConfig `mapstructure:"ollama"`
}

type OpenAIConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	LLMModel       string  `mapstructure:"llm_model"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
}

type OllamaConfig struct {
	LLMModel       string  `mapstructure:"llm_model"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens"`
}

type ChunkerConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
	Overlap   int `mapstructure:"overlap"`
}

type RetrievalConfig struct {
	TopK int `mapstructure:"top_k"`
}

type StorageConfig struct {
	// IndexBase holds one index directory per session; UploadBase holds the
	// uploaded source files per session.
	IndexBase  string `mapstructure:"index_base"`
	UploadBase string `mapstructure:"upload_base"`
}

type SessionsConfig struct {
	KeepLatest int `mapstructure:"keep_latest"`
}

// Load reads the TOML config file (portal.toml beside the binary unless a
// path is given), layers environment overrides on top, and validates that
// the selected provider has its credentials. A .env file in the working
// directory is honored the same way the original deployment did.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("%w: resolving config path: %v", domain.ErrConfig, err)
		}
		v.SetConfigFile(abs)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrConfig, abs, err)
		}
	} else {
		v.SetConfigName("portal")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("%w: reading config: %v", domain.ErrConfig, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling config: %v", domain.ErrConfig, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("provider.default", "openai")
	v.SetDefault("provider.timeout_seconds", 60)
	v.SetDefault("chunker.chunk_size", 1000)
	v.SetDefault("chunker.overlap", 200)
	v.SetDefault("retrieval.top_k", 5)
	v.SetDefault("storage.index_base", "data/faiss_index")
	v.SetDefault("storage.upload_base", "data/document_chat")
	v.SetDefault("sessions.keep_latest", 3)
}

func applyEnvOverrides(cfg *Config) {
	if base := os.Getenv("FAISS_BASE"); base != "" {
		cfg.Storage.IndexBase = base
	}
	if base := os.Getenv("UPLOAD_BASE"); base != "" {
		cfg.Storage.UploadBase = base
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if cfg.Provider.OpenAI == nil {
			cfg.Provider.OpenAI = &OpenAIConfig{}
		}
		cfg.Provider.OpenAI.APIKey = key
	}
	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		cfg.Provider.Default = p
	}
}

// Validate fails fast when the selected provider is unknown or is missing
// required credentials. Called at startup; errors here are fatal.
func (c *Config) Validate() error {
	switch c.Provider.Default {
	case "openai":
		if c.Provider.OpenAI == nil || c.Provider.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: provider openai selected but OPENAI_API_KEY is not set", domain.ErrConfig)
		}
	case "ollama":
		if c.Provider.Ollama == nil {
			c.Provider.Ollama = &OllamaConfig{}
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", domain.ErrConfig, c.Provider.Default)
	}
	if c.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", domain.ErrConfig)
	}
	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.ChunkSize {
		return fmt.Errorf("%w: overlap must be in [0, chunk_size)", domain.ErrConfig)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", domain.ErrConfig)
	}
	return nil
}

// Timeout returns the per-call provider deadline.
func (c *Config) Timeout() int {
	if c.Provider.TimeoutSeconds <= 0 {
		return 60
	}
	return c.Provider.TimeoutSeconds
}
