package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultArtifactsDir       = "files"
	DefaultTranscriptionModel = "whisper-1"
	DefaultRatePerMinute      = 0.50
	DefaultCurrency           = "usd"
	DefaultCacheEntries       = 128
	DefaultConvertTimeout     = 10 * time.Minute
	DefaultTranscribeTimeout  = 30 * time.Minute
	DefaultListenAddr         = ":8501"
	DefaultMaxUploadMB        = 512
	DefaultSuccessURL         = "http://localhost:8501/?session_id={CHECKOUT_SESSION_ID}"
	DefaultCancelURL          = "http://localhost:8501/cancel"
)

type Config struct {
	ArtifactsDir       string // transcripts are stored here
	TempDir            string // scratch space for conversion; system default when empty
	FFmpegPath         string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	TranscriptionModel string
	Language           string
	RatePerMinute      float64
	Currency           string
	StripeSecretKey    string
	RequirePayment     bool
	SuccessURL         string
	CancelURL          string
	CacheEntries       int
	ConvertTimeout     time.Duration
	TranscribeTimeout  time.Duration
	ListenAddr         string
	MaxUploadMB        int
}

type fileConfig struct {
	ArtifactsDir       string   `toml:"artifacts_dir"`
	TempDir            string   `toml:"temp_dir"`
	FFmpegPath         string   `toml:"ffmpeg_path"`
	OpenAIAPIKey       string   `toml:"openai_api_key"`
	OpenAIBaseURL      string   `toml:"openai_base_url"`
	TranscriptionModel string   `toml:"transcription_model"`
	Language           string   `toml:"language"`
	RatePerMinute      *float64 `toml:"rate_per_minute"`
	Currency           string   `toml:"currency"`
	StripeSecretKey    string   `toml:"stripe_secret_key"`
	RequirePayment     bool     `toml:"require_payment"`
	SuccessURL         string   `toml:"checkout_success_url"`
	CancelURL          string   `toml:"checkout_cancel_url"`
	CacheEntries       int      `toml:"cache_entries"`
	ConvertTimeout     string   `toml:"convert_timeout"`
	TranscribeTimeout  string   `toml:"transcribe_timeout"`
	ListenAddr         string   `toml:"listen_addr"`
	MaxUploadMB        int      `toml:"max_upload_mb"`
}

func defaults() *Config {
	return &Config{
		ArtifactsDir:       DefaultArtifactsDir,
		TranscriptionModel: DefaultTranscriptionModel,
		RatePerMinute:      DefaultRatePerMinute,
		Currency:           DefaultCurrency,
		SuccessURL:         DefaultSuccessURL,
		CancelURL:          DefaultCancelURL,
		CacheEntries:       DefaultCacheEntries,
		ConvertTimeout:     DefaultConvertTimeout,
		TranscribeTimeout:  DefaultTranscribeTimeout,
		ListenAddr:         DefaultListenAddr,
		MaxUploadMB:        DefaultMaxUploadMB,
	}
}

// Load builds the configuration from defaults, the TOML config file, a .env
// file in the working directory and AURICLE_* environment variables, in that
// order of increasing precedence.
func Load() (*Config, error) {
	cfg := defaults()

	if configPath := configFilePath(); configPath != "" {
		if err := applyFile(cfg, configPath); err != nil {
			return nil, err
		}
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if fc.ArtifactsDir != "" {
		cfg.ArtifactsDir = expandTilde(fc.ArtifactsDir)
	}
	if fc.TempDir != "" {
		cfg.TempDir = expandTilde(fc.TempDir)
	}
	cfg.FFmpegPath = fc.FFmpegPath
	cfg.OpenAIAPIKey = fc.OpenAIAPIKey
	cfg.OpenAIBaseURL = fc.OpenAIBaseURL
	if fc.TranscriptionModel != "" {
		cfg.TranscriptionModel = fc.TranscriptionModel
	}
	cfg.Language = fc.Language
	if fc.RatePerMinute != nil {
		cfg.RatePerMinute = *fc.RatePerMinute
	}
	if fc.Currency != "" {
		cfg.Currency = fc.Currency
	}
	cfg.StripeSecretKey = fc.StripeSecretKey
	cfg.RequirePayment = fc.RequirePayment
	if fc.SuccessURL != "" {
		cfg.SuccessURL = fc.SuccessURL
	}
	if fc.CancelURL != "" {
		cfg.CancelURL = fc.CancelURL
	}
	if fc.CacheEntries > 0 {
		cfg.CacheEntries = fc.CacheEntries
	}
	if fc.ListenAddr != "" {
		cfg.ListenAddr = fc.ListenAddr
	}
	if fc.MaxUploadMB > 0 {
		cfg.MaxUploadMB = fc.MaxUploadMB
	}

	var err error
	if fc.ConvertTimeout != "" {
		if cfg.ConvertTimeout, err = time.ParseDuration(fc.ConvertTimeout); err != nil {
			return fmt.Errorf("convert_timeout: %w", err)
		}
	}
	if fc.TranscribeTimeout != "" {
		if cfg.TranscribeTimeout, err = time.ParseDuration(fc.TranscribeTimeout); err != nil {
			return fmt.Errorf("transcribe_timeout: %w", err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("AURICLE_ARTIFACTS_DIR"); v != "" {
		cfg.ArtifactsDir = expandTilde(v)
	}
	if v := os.Getenv("AURICLE_TEMP_DIR"); v != "" {
		cfg.TempDir = expandTilde(v)
	}
	if v := os.Getenv("AURICLE_FFMPEG_PATH"); v != "" {
		cfg.FFmpegPath = v
	}
	if v := os.Getenv("AURICLE_OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	} else if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("AURICLE_OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("AURICLE_TRANSCRIPTION_MODEL"); v != "" {
		cfg.TranscriptionModel = v
	}
	if v := os.Getenv("AURICLE_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("AURICLE_STRIPE_SECRET_KEY"); v != "" {
		cfg.StripeSecretKey = v
	}
	if v := os.Getenv("AURICLE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}

	if v := os.Getenv("AURICLE_RATE_PER_MINUTE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("AURICLE_RATE_PER_MINUTE: %w", err)
		}
		cfg.RatePerMinute = f
	}
	if v := os.Getenv("AURICLE_REQUIRE_PAYMENT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AURICLE_REQUIRE_PAYMENT: %w", err)
		}
		cfg.RequirePayment = b
	}
	if v := os.Getenv("AURICLE_CONVERT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AURICLE_CONVERT_TIMEOUT: %w", err)
		}
		cfg.ConvertTimeout = d
	}
	if v := os.Getenv("AURICLE_TRANSCRIBE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AURICLE_TRANSCRIBE_TIMEOUT: %w", err)
		}
		cfg.TranscribeTimeout = d
	}
	return nil
}

func (c *Config) validate() error {
	if c.RatePerMinute < 0 {
		return fmt.Errorf("rate_per_minute must not be negative")
	}
	if c.RequirePayment && c.StripeSecretKey == "" {
		return fmt.Errorf("require_payment is set but no stripe secret key is configured")
	}
	return nil
}

func configFilePath() string {
	if p := os.Getenv("AURICLE_CONFIG"); p != "" {
		return p
	}

	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "auricle")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "auricle")
	} else {
		return ""
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
