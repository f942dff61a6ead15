package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIKeyPath = "/run/secrets/api_keys/openrouter"
	APIKeyPathEnvVar  = "OPENROUTER_API_KEY_FILE"
	EnvFileEnvVar     = "ONSCREEN_TRANSLATOR_ENV"

	DefaultCaptureTimeoutSec = 5
	DefaultSettleDelayMS     = 100
	DefaultMinCropSize       = 32
)

type LoadOptions struct {
	APIKeyPathOverride string
	ModelOverride      string
	EnvPathOverride    string
}

type Config struct {
	APIKey            string
	APIKeyPath        string
	Model             string
	BaseURL           string
	Providers         []string
	EnableFileLogging bool
	Hotkey            string

	TessdataDir string
	TessdataURL string
	PrefsPath   string

	SettleDelayMS int
	MinCropSize   int

	// Defaults for preferences that have never been set.
	DefaultOCRProvider         string
	DefaultOCRLang             string
	DefaultTranslationProvider string
	DefaultTranslationLang     string

	Settings Settings
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) explicit override, 2) .env in the executable directory,
	// 3) the file named by ONSCREEN_TRANSLATOR_ENV. Real env vars win over all.
	envPath := resolveEnvPath(opts)
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	var providers []string
	if providersStr := os.Getenv("PROVIDERS"); providersStr != "" {
		for _, provider := range strings.Split(providersStr, ",") {
			if trimmed := strings.TrimSpace(provider); trimmed != "" {
				providers = append(providers, trimmed)
			}
		}
	}

	apiKeyPath := resolveAPIKeyPath(opts, dotenvValues)
	model := os.Getenv("MODEL")
	if override := strings.TrimSpace(opts.ModelOverride); override != "" {
		model = override
	}

	cfg := &Config{
		APIKey:            resolveAPIKey(apiKeyPath),
		APIKeyPath:        apiKeyPath,
		Model:             model,
		BaseURL:           os.Getenv("OPENROUTER_BASE_URL"),
		Providers:         providers,
		EnableFileLogging: getEnvBool("ENABLE_FILE_LOGGING", false),
		Hotkey:            getEnvWithDefault("HOTKEY", "Ctrl+Alt+T"),

		TessdataDir: getEnvWithDefault("TESSDATA_DIR", defaultDataPath("tessdata")),
		TessdataURL: os.Getenv("TESSDATA_URL"),
		PrefsPath:   getEnvWithDefault("PREFS_PATH", defaultDataPath("prefs.json")),

		SettleDelayMS: getEnvInt("CAPTURE_SETTLE_MS", DefaultSettleDelayMS, 0),
		MinCropSize:   getEnvInt("MIN_CROP_SIZE", DefaultMinCropSize, 1),

		DefaultOCRProvider:         getEnvWithDefault("DEFAULT_OCR_PROVIDER", "llm_vision"),
		DefaultOCRLang:             getEnvWithDefault("DEFAULT_OCR_LANG", "en"),
		DefaultTranslationProvider: getEnvWithDefault("DEFAULT_TRANSLATION_PROVIDER", "llm"),
		DefaultTranslationLang:     getEnvWithDefault("DEFAULT_TRANSLATION_LANG", "en"),

		Settings: settingsFromEnv(),
	}

	return cfg, nil
}

func resolveEnvPath(opts LoadOptions) string {
	if p := strings.TrimSpace(opts.EnvPathOverride); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

func resolveAPIKeyPath(opts LoadOptions, dotenvValues map[string]string) string {
	keyPath := DefaultAPIKeyPath

	if envPath := strings.TrimSpace(os.Getenv(APIKeyPathEnvVar)); envPath != "" {
		keyPath = envPath
	}

	if dotenvPath := strings.TrimSpace(dotenvValues[APIKeyPathEnvVar]); dotenvPath != "" {
		keyPath = dotenvPath
	}

	if overridePath := strings.TrimSpace(opts.APIKeyPathOverride); overridePath != "" {
		keyPath = overridePath
	}

	return keyPath
}

func resolveAPIKey(keyPath string) string {
	if data, err := os.ReadFile(keyPath); err == nil {
		if fileKey := strings.TrimSpace(string(data)); fileKey != "" {
			return fileKey
		}
	}

	return os.Getenv("OPENROUTER_API_KEY")
}

// defaultDataPath places app data in the user config dir, or the working
// directory when that is unavailable.
func defaultDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "onscreen-translator", name)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue, min int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= min {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}
