package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	OCR        OCRConfig        `mapstructure:"ocr"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings. Addr is a net listen
// address, not a bare port.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// OCRConfig holds the rasterization and OCR engine settings.
type OCRConfig struct {
	// Binary paths; bare names resolve through PATH.
	Pdftoppm  string `mapstructure:"pdftoppm"`
	Tesseract string `mapstructure:"tesseract"`

	// Languages passed to tesseract -l, e.g. "ell+eng".
	Languages string `mapstructure:"languages"`

	// Rasterization resolution. 300 DPI keeps small lab-report fonts legible
	// without blowing up per-page memory.
	DPI int `mapstructure:"dpi"`

	// Page segmentation mode; 6 assumes a uniform block of text.
	PSM int `mapstructure:"psm"`

	TessdataDir string `mapstructure:"tessdata_dir"`
}

// ExtractionConfig holds the orchestrator's fallback policy.
type ExtractionConfig struct {
	FallbackEnabled  bool `mapstructure:"fallback_enabled"`
	FallbackMinTests int  `mapstructure:"fallback_min_tests"`
}

// UploadConfig holds the HTTP upload limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the LABEXTRACT_
// prefix, plus the legacy bare keys the surrounding records backend already
// sets (OCR_FALLBACK_ENABLED, OCR_FALLBACK_MIN_TESTS, TESSERACT_LANGS).
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LABEXTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// OCR defaults
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.languages", "ell+eng")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.psm", 6)
	v.SetDefault("ocr.tessdata_dir", "")

	// Extraction defaults
	v.SetDefault("extraction.fallback_enabled", true)
	v.SetDefault("extraction.fallback_min_tests", 3)

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 50)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.addr":                  "LABEXTRACT_SERVER_ADDR",
		"server.read_timeout":          "LABEXTRACT_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "LABEXTRACT_SERVER_WRITE_TIMEOUT",
		"server.environment":           "LABEXTRACT_SERVER_ENVIRONMENT",
		"ocr.pdftoppm":                 "LABEXTRACT_OCR_PDFTOPPM",
		"ocr.tesseract":                "LABEXTRACT_OCR_TESSERACT",
		"ocr.languages":                "LABEXTRACT_OCR_LANGUAGES",
		"ocr.dpi":                      "LABEXTRACT_OCR_DPI",
		"ocr.psm":                      "LABEXTRACT_OCR_PSM",
		"ocr.tessdata_dir":             "LABEXTRACT_OCR_TESSDATA_DIR",
		"extraction.fallback_enabled":  "LABEXTRACT_EXTRACTION_FALLBACK_ENABLED",
		"extraction.fallback_min_tests": "LABEXTRACT_EXTRACTION_FALLBACK_MIN_TESTS",
		"upload.max_file_size_mb":      "LABEXTRACT_UPLOAD_MAX_FILE_SIZE_MB",
		"log.level":                    "LABEXTRACT_LOG_LEVEL",
		"log.format":                   "LABEXTRACT_LOG_FORMAT",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	// Legacy keys from the records backend apply when the prefixed
	// keys are unset.
	legacyBindings := map[string]string{
		"extraction.fallback_enabled":   "OCR_FALLBACK_ENABLED",
		"extraction.fallback_min_tests": "OCR_FALLBACK_MIN_TESTS",
		"ocr.languages":                 "TESSERACT_LANGS",
		"ocr.dpi":                       "OCR_DPI",
		"ocr.tesseract":                 "TESSERACT_PATH",
		"ocr.pdftoppm":                  "PDFTOPPM_PATH",
	}
	for key, env := range legacyBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if c.OCR.DPI <= 0 {
		return fmt.Errorf("ocr.dpi must be positive, got %d", c.OCR.DPI)
	}
	if c.OCR.PSM < 0 || c.OCR.PSM > 13 {
		return fmt.Errorf("ocr.psm must be in [0,13], got %d", c.OCR.PSM)
	}
	if strings.TrimSpace(c.OCR.Languages) == "" {
		return fmt.Errorf("ocr.languages must not be empty")
	}
	if c.Extraction.FallbackMinTests < 0 {
		return fmt.Errorf("extraction.fallback_min_tests must be >= 0, got %d", c.Extraction.FallbackMinTests)
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		return fmt.Errorf("upload.max_file_size_mb must be positive, got %d", c.Upload.MaxFileSizeMB)
	}
	return nil
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Upload.MaxFileSizeMB << 20
}
