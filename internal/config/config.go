// Package config loads the tutor's layered configuration: defaults, an
// optional tutor.yaml, a .env file, TUTOR_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/corpus"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/generator"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/llm"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/retrieval"
	"github.com/Bilal-Waleed/Ai-Tutor-Platform/internal/tutor"
)

// EnvPrefix prefixes every environment override, e.g. TUTOR_SERVER_ADDR.
const EnvPrefix = "TUTOR"

// Config is the full runtime configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Generation GenerationConfig `mapstructure:"generation"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StoreConfig struct {
	// Path of the SQLite file. Empty uses the per-user default location.
	Path string `mapstructure:"path"`
}

type CorpusConfig struct {
	Dir         string   `mapstructure:"dir"`
	Subjects    []string `mapstructure:"subjects"`
	MaxExamples int      `mapstructure:"max_examples"`
	Strategy    string   `mapstructure:"strategy"`
}

type RetrievalConfig struct {
	MaxChars int `mapstructure:"max_chars"`
	TopK     int `mapstructure:"top_k"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`

	Gemini     VendorConfig `mapstructure:"gemini"`
	Anthropic  VendorConfig `mapstructure:"anthropic"`
	OpenAI     VendorConfig `mapstructure:"openai"`
	OpenRouter VendorConfig `mapstructure:"openrouter"`
}

type VendorConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GenerationConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
	MaxJitter  time.Duration `mapstructure:"max_jitter"`
	Seed       uint64        `mapstructure:"seed"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"addr":      "server.addr",
	"db":        "store.path",
	"corpus":    "corpus.dir",
	"strategy":  "corpus.strategy",
	"provider":  "llm.provider",
	"log-mode":  "log.mode",
	"log-level": "log.level",
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	genDefaults := generator.DefaultConfig()
	tutorDefaults := tutor.DefaultConfig()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("store.path", "")
	v.SetDefault("corpus.dir", "data")
	v.SetDefault("corpus.subjects", corpus.DefaultSubjects)
	v.SetDefault("corpus.max_examples", 5000)
	v.SetDefault("corpus.strategy", string(retrieval.StrategyVector))
	v.SetDefault("retrieval.max_chars", tutorDefaults.MaxContextChars)
	v.SetDefault("retrieval.top_k", tutorDefaults.TopK)
	v.SetDefault("llm.provider", llmDefaults.Provider)
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("generation.max_retries", genDefaults.MaxRetries)
	v.SetDefault("generation.base_delay", genDefaults.BaseDelay)
	v.SetDefault("generation.max_jitter", genDefaults.MaxJitter)
	v.SetDefault("generation.seed", 0)
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.level", "info")
}

// Load resolves the configuration. flags may be nil; flags the user did
// not set do not override lower layers.
func Load(flags *pflag.FlagSet) (Config, error) {
	// A missing .env is normal; existing environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("tutor")
	v.SetConfigType("yaml")
	for _, dir := range searchPaths() {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Corpus.Subjects = splitList(cfg.Corpus.Subjects)
	return cfg, nil
}

func searchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tutor"))
	}
	return append(paths, "/etc/tutor")
}

// splitList accepts "a,b" from the environment as well as YAML lists.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, s := range strings.Split(item, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// ProviderConfig returns the provider configuration, with API keys falling
// back to the standard vendor variables.
func (c Config) ProviderConfig() llm.Config {
	out := llm.Config{
		Provider:   c.LLM.Provider,
		Timeout:    c.LLM.Timeout,
		Gemini:     llm.GeminiConfig{APIKey: c.LLM.Gemini.APIKey, Model: c.LLM.Gemini.Model},
		Anthropic:  llm.AnthropicConfig{APIKey: c.LLM.Anthropic.APIKey, Model: c.LLM.Anthropic.Model},
		OpenAI:     llm.OpenAIConfig{APIKey: c.LLM.OpenAI.APIKey, Model: c.LLM.OpenAI.Model, BaseURL: c.LLM.OpenAI.BaseURL},
		OpenRouter: llm.OpenRouterConfig{APIKey: c.LLM.OpenRouter.APIKey, Model: c.LLM.OpenRouter.Model, BaseURL: c.LLM.OpenRouter.BaseURL},
	}
	out.ApplyVendorKeys()
	return out
}

// GeneratorConfig returns the retry settings. A zero seed is replaced by
// the time-based default.
func (c Config) GeneratorConfig() generator.Config {
	out := generator.DefaultConfig()
	out.MaxRetries = c.Generation.MaxRetries
	out.BaseDelay = c.Generation.BaseDelay
	out.MaxJitter = c.Generation.MaxJitter
	if c.Generation.Seed != 0 {
		out.Seed = c.Generation.Seed
	}
	return out
}

// TutorConfig returns the retrieval bounds used per request.
func (c Config) TutorConfig() tutor.Config {
	return tutor.Config{MaxContextChars: c.Retrieval.MaxChars, TopK: c.Retrieval.TopK}
}

// CorpusOptions returns the index options.
func (c Config) CorpusOptions() corpus.Options {
	return corpus.Options{MaxExamples: c.Corpus.MaxExamples, Vectors: corpus.DefaultVectorConfig()}
}

// Strategy returns the preferred retrieval strategy.
func (c Config) Strategy() retrieval.Strategy {
	if strings.EqualFold(c.Corpus.Strategy, string(retrieval.StrategyLexical)) {
		return retrieval.StrategyLexical
	}
	return retrieval.StrategyVector
}

// Validate checks cross-field constraints and the selected provider.
func (c Config) Validate() error {
	if c.Retrieval.TopK < 0 || c.Retrieval.MaxChars < 0 {
		return errors.New("retrieval.top_k and retrieval.max_chars must not be negative")
	}
	if c.Generation.MaxRetries < 0 {
		return errors.New("generation.max_retries must not be negative")
	}
	return c.ProviderConfig().Validate()
}
