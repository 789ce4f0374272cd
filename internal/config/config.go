package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Model   ModelConfig
	Dataset DatasetConfig
	Store   StoreConfig
	Logger  LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// ModelConfig locates the pipeline artifact. The local path is always
// tried first; the hub source is added when HubRepo is set.
type ModelConfig struct {
	LocalPath       string
	CacheDir        string
	HubURL          string
	HubRepo         string
	HubRevision     string
	HubFilename     string
	HubTimeout      time.Duration
	SchemaPath      string
	ResultCacheSize int
}

type DatasetConfig struct {
	Path string
}

type StoreConfig struct {
	DBPath string
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("MODEL_LOCAL_PATH", "models/shipping_pipeline.bin")
	v.SetDefault("MODEL_CACHE_DIR", "models/cache")
	v.SetDefault("MODEL_HUB_URL", "https://huggingface.co")
	v.SetDefault("MODEL_HUB_REPO", "")
	v.SetDefault("MODEL_HUB_REVISION", "main")
	v.SetDefault("MODEL_HUB_FILENAME", "shipping_pipeline.bin")
	v.SetDefault("MODEL_HUB_TIMEOUT", "30s")
	v.SetDefault("MODEL_SCHEMA_PATH", "")
	v.SetDefault("MODEL_RESULT_CACHE_SIZE", 256)
	v.SetDefault("DATASET_PATH", "shipping.csv")
	v.SetDefault("STORE_DB_PATH", "predictions.db")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("MODEL_HUB_TIMEOUT"))
	if err != nil {
		timeout = 30 * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Model: ModelConfig{
			LocalPath:       v.GetString("MODEL_LOCAL_PATH"),
			CacheDir:        v.GetString("MODEL_CACHE_DIR"),
			HubURL:          v.GetString("MODEL_HUB_URL"),
			HubRepo:         v.GetString("MODEL_HUB_REPO"),
			HubRevision:     v.GetString("MODEL_HUB_REVISION"),
			HubFilename:     v.GetString("MODEL_HUB_FILENAME"),
			HubTimeout:      timeout,
			SchemaPath:      v.GetString("MODEL_SCHEMA_PATH"),
			ResultCacheSize: v.GetInt("MODEL_RESULT_CACHE_SIZE"),
		},
		Dataset: DatasetConfig{
			Path: v.GetString("DATASET_PATH"),
		},
		Store: StoreConfig{
			DBPath: v.GetString("STORE_DB_PATH"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
