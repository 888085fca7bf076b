package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Storage  StorageConfig
	JWT      JWTConfig
	YouTube  YouTubeConfig
	Uploads  UploadsConfig
	Log      LogConfig
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port string
	// PublicBaseURL is the externally visible origin, used for OAuth
	// redirects and QR code payloads.
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// DatabaseConfig PostgreSQL settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// KafkaConfig event broker settings. The service runs without Kafka when
// no broker is reachable.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// StorageConfig MinIO settings for the optional raw-upload archive.
type StorageConfig struct {
	Enabled    bool
	Endpoint   string
	BucketName string `mapstructure:"bucket_name"`
	AccessKey  string `mapstructure:"access_key"`
	SecretKey  string `mapstructure:"secret_key"`
	UseSSL     bool   `mapstructure:"use_ssl"`
}

// JWTConfig token signing settings.
type JWTConfig struct {
	Secret      string
	ExpiryHours int `mapstructure:"expiry_hours"`
}

// YouTubeConfig external video host credentials and the initially
// configured channel.
type YouTubeConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	APIKey       string `mapstructure:"api_key"`
	ChannelID    string `mapstructure:"channel_id"`
	ChannelName  string `mapstructure:"channel_name"`
}

// UploadsConfig local staging directory for raw testimony uploads.
type UploadsConfig struct {
	TempDir   string `mapstructure:"temp_dir"`
	MaxSizeMB int64  `mapstructure:"max_size_mb"`
}

// LogConfig logger settings.
type LogConfig struct {
	Level      string
	FilePath   string `mapstructure:"file_path"`
	JSONFormat bool   `mapstructure:"json_format"`
}

// LoadConfig reads the YAML config file and applies environment
// overrides and defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "5000"
	}
	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = "http://localhost:" + cfg.Server.Port
	}

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "default-jwt-secret-key"
	}
	if cfg.JWT.ExpiryHours <= 0 {
		cfg.JWT.ExpiryHours = 24
	}

	if cfg.Uploads.TempDir == "" {
		cfg.Uploads.TempDir = "uploads/temp"
	}
	if cfg.Uploads.MaxSizeMB <= 0 {
		cfg.Uploads.MaxSizeMB = 2048
	}

	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "testimony-events"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	// Host credentials may come from the environment in deployments that
	// keep secrets out of the config file.
	if cfg.YouTube.ClientID == "" {
		cfg.YouTube.ClientID = os.Getenv("YOUTUBE_CLIENT_ID")
	}
	if cfg.YouTube.ClientSecret == "" {
		cfg.YouTube.ClientSecret = os.Getenv("YOUTUBE_CLIENT_SECRET")
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.YouTube.ChannelID == "" {
		cfg.YouTube.ChannelID = os.Getenv("YOUTUBE_CHANNEL_ID")
	}

	return &cfg, nil
}

// Validate reports the names of missing YouTube credentials. The server
// still starts without them; host-backed endpoints fail at call time.
func (c *YouTubeConfig) Validate() []string {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "YOUTUBE_CLIENT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "YOUTUBE_CLIENT_SECRET")
	}
	if c.APIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	return missing
}
