package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first env file found among envFilePath (searched upwards
// from the working directory), falling back to ./.env, and then processes
// the environment.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	for _, path := range envFilePath {
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		logger.Info("Environment loaded from file", "path", foundPath)
		return loadFromEnv()
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system environment variables")
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"port", cfg.Server.Port,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"catalog_load_timeout", cfg.Catalog.LoadTimeout,
		"geo_maxmind_db", cfg.Geo.MaxMindDB,
		"geo_default_country", cfg.Geo.DefaultCountry,
		"redis", maskValue(cfg.Redis.URL),
		"binance_url", cfg.Binance.URL,
		"binance_merchant_code", maskValue(cfg.Binance.MerchantCode),
		"binance_proxy", maskValue(cfg.Binance.ProxyURL),
		"transak_url", cfg.Transak.URL,
		"transak_api_key", maskValue(cfg.Transak.APIKey),
		"mtpelerin_url", cfg.MtPelerin.URL,
		"signing_key_set", cfg.Signing.PrivateKey != "",
	)
	return &cfg, nil
}

// FindEnvFile looks for filename in the working directory and its parents.
// An empty filename means .env.
func FindEnvFile(filename string) (string, error) {
	if filename == "" {
		filename = ".env"
	}
	curr, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(curr, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(curr)
		if parent == curr {
			return "", os.ErrNotExist
		}
		curr = parent
	}
}

func maskValue(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
