package core

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageMemory   = "memory"
)

type Config struct {
	Env            string        `yaml:"env" env:"ENV" env-default:"local"`
	TelegramApiKey string        `yaml:"telegram_api_key" env:"TELEGRAM_API_KEY" env-default:""`
	OpenAIApiKey   string        `yaml:"openai_api_key" env:"OPENAI_API_KEY" env-default:""`
	OpenAIBaseURL  string        `yaml:"openai_base_url" env:"OPENAI_BASE_URL" env-default:""`
	ChatModel      string        `yaml:"chat_model" env:"CHAT_MODEL" env-default:"gpt-4o-mini"`
	ImageModel     string        `yaml:"image_model" env:"IMAGE_MODEL" env-default:"dall-e-3"`
	ImageSize      string        `yaml:"image_size" env:"IMAGE_SIZE" env-default:"1024x1024"`
	SystemPrompt   string        `yaml:"system_prompt" env:"SYSTEM_PROMPT" env-default:"You are a helpful assistant."`
	HistoryLimit   int           `yaml:"history_limit" env:"HISTORY_LIMIT" env-default:"20"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"90s"`
	TempDir        string        `yaml:"temp_dir" env:"TEMP_DIR" env-default:""`
	Storage        struct {
		Driver      string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
		SQLitePath  string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"data/duet.db"`
		PostgresURL string `yaml:"postgres_url" env:"POSTGRES_URL" env-default:""`
	} `yaml:"storage"`
	Mongo struct {
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"duet"`
	} `yaml:"mongo"`
	Archive struct {
		Enabled   bool   `yaml:"enabled" env:"ARCHIVE_ENABLED" env-default:"false"`
		Endpoint  string `yaml:"endpoint" env:"ARCHIVE_ENDPOINT" env-default:""`
		AccessKey string `yaml:"access_key" env:"ARCHIVE_ACCESS_KEY" env-default:""`
		SecretKey string `yaml:"secret_key" env:"ARCHIVE_SECRET_KEY" env-default:""`
		Bucket    string `yaml:"bucket" env:"ARCHIVE_BUCKET" env-default:""`
		Region    string `yaml:"region" env:"ARCHIVE_REGION" env-default:""`
		Insecure  bool   `yaml:"insecure" env:"ARCHIVE_INSECURE" env-default:"false"`
	} `yaml:"archive"`
}

// Load reads the YAML file at path with environment overrides. A missing
// file is not an error: the configuration then comes from the environment.
func Load(path string) (*Config, error) {
	conf := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, conf)
	} else {
		err = cleanenv.ReadEnv(conf)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("config: %s; %s", err, desc)
	}

	if err = conf.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return conf, nil
}

func MustLoad(path string) *Config {
	conf, err := Load(path)
	if err != nil {
		log.Fatal(err)
	}
	return conf
}

func (c *Config) Validate() error {
	if c.TelegramApiKey == "" {
		return errors.New("telegram_api_key is required")
	}
	if c.OpenAIApiKey == "" {
		return errors.New("openai_api_key is required")
	}
	if c.HistoryLimit < 2 {
		return fmt.Errorf("history_limit must be at least 2, got %d", c.HistoryLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	switch c.Storage.Driver {
	case StorageSQLite, StorageMemory, StorageMongo:
	case StoragePostgres:
		if c.Storage.PostgresURL == "" {
			return errors.New("storage.postgres_url is required for postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.Bucket == "") {
		return errors.New("archive.endpoint and archive.bucket are required when archive is enabled")
	}
	return nil
}

// MongoURI builds the connection string from the mongo section.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		c.Mongo.User, c.Mongo.Password,
		c.Mongo.Host, c.Mongo.Port)
}
