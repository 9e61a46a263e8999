package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/optimapped/optimapped/internal/llm"
)

// EnvPrefix prefixes every environment variable the app reads, with
// dots in keys replaced by underscores (llm.provider → OPTIMAPPED_LLM_PROVIDER).
const EnvPrefix = "OPTIMAPPED"

// Storage backends.
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config is the fully resolved application configuration.
type Config struct {
	// DBPath is the local SQLite database. It always exists: accounts,
	// sessions and LLM request events live there even when documents
	// are stored remotely.
	DBPath string

	Storage StorageConfig
	LLM     llm.Config
	Log     LogConfig
	OAuth   GoogleOAuthConfig

	// CacheDir holds the device-local fallback cache.
	CacheDir string

	// File is the config file that was read, if any.
	File string
}

// StorageConfig selects where user documents are kept.
type StorageConfig struct {
	Backend           string
	FirestoreProject  string
	FirestoreDatabase string
	// CredentialsFile is a service account key. Empty uses application
	// default credentials.
	CredentialsFile   string
}

// LogConfig controls the structured log file.
type LogConfig struct {
	Level string
	File  string
}

// GoogleOAuthConfig holds the desktop OAuth client used for "Continue
// with Google". Sign-in with Google is disabled when ClientID is empty.
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	Port         int
}

// Enabled reports whether Google sign-in is configured.
func (c GoogleOAuthConfig) Enabled() bool { return c.ClientID != "" }

// LoadOptions carries command-line overrides.
type LoadOptions struct {
	// ConfigFile is an explicit config file. When empty the default
	// location is tried and a missing file is not an error.
	ConfigFile string

	// DBPath overrides the db key.
	DBPath string
}

// Load resolves configuration from defaults, the config file and the
// environment, in increasing priority, then applies opts.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		dir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if opts.DBPath != "" {
		v.Set("db", opts.DBPath)
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("db", "")
	v.SetDefault("cache.dir", "")

	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.firestore.project", "")
	v.SetDefault("storage.firestore.database", "(default)")
	v.SetDefault("storage.firestore.credentials_file", "")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", d.Anthropic.Model)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", d.OpenAI.Model)
	v.SetDefault("openai.base_url", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", d.Gemini.Model)
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.model", d.OpenRouter.Model)
	v.SetDefault("openrouter.base_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("oauth.google.client_id", "")
	v.SetDefault("oauth.google.client_secret", "")
	v.SetDefault("oauth.google.port", 0)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DBPath:   v.GetString("db"),
		CacheDir: v.GetString("cache.dir"),
		File:     v.ConfigFileUsed(),
		Storage: StorageConfig{
			Backend:           strings.ToLower(v.GetString("storage.backend")),
			FirestoreProject:  v.GetString("storage.firestore.project"),
			FirestoreDatabase: v.GetString("storage.firestore.database"),
			CredentialsFile:   v.GetString("storage.firestore.credentials_file"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		OAuth: GoogleOAuthConfig{
			ClientID:     v.GetString("oauth.google.client_id"),
			ClientSecret: v.GetString("oauth.google.client_secret"),
			Port:         v.GetInt("oauth.google.port"),
		},
	}

	cfg.LLM = llm.DefaultConfig()
	if p := v.GetString("llm.provider"); p != "" {
		cfg.LLM.Provider = p
	}
	cfg.LLM.Timeout = v.GetDuration("llm.timeout")
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if n := v.GetInt("llm.max_attempts"); n > 0 {
		cfg.LLM.Retry.MaxAttempts = n
	}
	cfg.LLM.Anthropic = llm.AnthropicConfig{
		APIKey: v.GetString("anthropic.api_key"),
		Model:  v.GetString("anthropic.model"),
	}
	cfg.LLM.OpenAI = llm.OpenAIConfig{
		APIKey:  v.GetString("openai.api_key"),
		Model:   v.GetString("openai.model"),
		BaseURL: v.GetString("openai.base_url"),
	}
	cfg.LLM.Gemini = llm.GeminiConfig{
		APIKey: v.GetString("gemini.api_key"),
		Model:  v.GetString("gemini.model"),
	}
	cfg.LLM.OpenRouter = llm.OpenRouterConfig{
		APIKey:  v.GetString("openrouter.api_key"),
		Model:   v.GetString("openrouter.model"),
		BaseURL: v.GetString("openrouter.base_url"),
	}

	// Fall back to vendor env vars when no provider was chosen
	// explicitly and the default has no key.
	if v.GetString("llm.provider") == "" && cfg.LLM.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			discovered.Timeout = cfg.LLM.Timeout
			discovered.Retry = cfg.LLM.Retry
			cfg.LLM = discovered
		}
	}

	switch cfg.Storage.Backend {
	case BackendSQLite:
	case BackendFirestore:
		if cfg.Storage.FirestoreProject == "" {
			return nil, fmt.Errorf("storage.firestore.project is required for the firestore backend")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Storage.Backend)
	}

	if cfg.DBPath == "" {
		p, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = p
	}
	if cfg.CacheDir == "" {
		dir, err := DataDir()
		if err != nil {
			return nil, err
		}
		cfg.CacheDir = dir
	}
	if cfg.Log.File == "" {
		dir, err := StateDir()
		if err != nil {
			return nil, err
		}
		cfg.Log.File = filepath.Join(dir, "optimapped.log")
	}

	return cfg, nil
}
