package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"closebook/internal/classify"
	"closebook/internal/logger"
	"closebook/internal/reconciliation"
	"closebook/internal/tax"
)

const (
	DefaultMonthsElapsed = 9
	DefaultDataDir       = "jsons"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// AI collaborator
	GeminiAPIKey string
	OpenAIAPIKey string
	AIProvider   string
	AIModel      string

	// Pipeline
	MonthsElapsed  int
	MatchTolerance int64
	DataDir        string
	FilerProfile   string
	LabelLocale    string

	// Google Sheets export
	GoogleSheetURL        string
	GoogleSheetWorksheet  string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	months, err := getEnvInt("MONTHS_ELAPSED", DefaultMonthsElapsed)
	if err != nil {
		return nil, err
	}
	tolerance, err := getEnvInt("MATCH_TOLERANCE", 0)
	if err != nil {
		return nil, err
	}

	config := &Config{
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		AIProvider:            strings.ToLower(getEnv("AI_PROVIDER", classify.ProviderGemini)),
		AIModel:               getEnv("AI_MODEL", ""),
		MonthsElapsed:         months,
		MatchTolerance:        int64(tolerance),
		DataDir:               getEnv("DATA_DIR", DefaultDataDir),
		FilerProfile:          getEnv("FILER_PROFILE", ""),
		LabelLocale:           getEnv("LABEL_LOCALE", "ko"),
		GoogleSheetURL:        getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetWorksheet:  getEnv("GOOGLE_SHEET_WORKSHEET", "Card Gap"),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate rejects settings the pipeline cannot run with. API keys are
// checked by the commands that need them.
func (c *Config) Validate() error {
	if c.MonthsElapsed < 1 || c.MonthsElapsed > 12 {
		return fmt.Errorf("%w: MONTHS_ELAPSED must be between 1 and 12, got %d", ErrInvalidConfig, c.MonthsElapsed)
	}
	if c.MatchTolerance < 0 {
		return fmt.Errorf("%w: MATCH_TOLERANCE must not be negative, got %d", ErrInvalidConfig, c.MatchTolerance)
	}
	switch c.AIProvider {
	case classify.ProviderGemini, classify.ProviderOpenAI:
	default:
		return fmt.Errorf("%w: AI_PROVIDER must be gemini or openai, got %q", ErrInvalidConfig, c.AIProvider)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// ProviderConfig returns the AI collaborator settings.
func (c *Config) ProviderConfig() classify.ProviderConfig {
	return classify.ProviderConfig{
		Provider:     c.AIProvider,
		GeminiAPIKey: c.GeminiAPIKey,
		OpenAIAPIKey: c.OpenAIAPIKey,
		Model:        c.AIModel,
	}
}

// Labels returns the reconciliation labels for the configured locale.
func (c *Config) Labels() reconciliation.Labels {
	return reconciliation.LabelsFor(c.LabelLocale)
}

// LoadProfile reads the filer constants from a YAML file. An empty path
// yields the zero profile.
func LoadProfile(path string) (tax.Profile, error) {
	const op = "LoadProfile"

	var profile tax.Profile
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("%s: failed to read filer profile: %w", op, err)
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("%s: failed to parse filer profile %s: %w", op, path, err)
	}
	if profile.OtherIncome < 0 || profile.StandardDeduction < 0 || profile.DisallowedAddback < 0 {
		return profile, fmt.Errorf("%s: %w: filer profile amounts must not be negative", op, ErrInvalidConfig)
	}
	return profile, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidConfig, key, value)
	}
	return n, nil
}
