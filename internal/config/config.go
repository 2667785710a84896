package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig selects the backing store. Driver is "mongo" or "memory".
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type OAuthConfig struct {
	Google OAuthProviderConfig `mapstructure:"google"`
}

// OAuthProviderConfig configures one federated identity provider.
// A provider with an empty ClientID is disabled.
type OAuthProviderConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
	UserInfoURL  string `mapstructure:"user_info_url"`
}

type GatewayConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret must be set")
	}
	switch c.Database.Driver {
	case "mongo", "memory":
	default:
		return errors.New("database.driver must be mongo or memory")
	}
	if c.S3.Enabled && c.S3.BucketName == "" {
		return errors.New("s3.bucket_name must be set when s3 is enabled")
	}
	return nil
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "workout_tracker")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("oauth.google.client_id", "")
	v.SetDefault("oauth.google.client_secret", "")
	v.SetDefault("oauth.google.redirect_url", "")
	v.SetDefault("oauth.google.user_info_url", "https://openidconnect.googleapis.com/v1/userinfo")
	v.SetDefault("gateway.timeout", "10s")
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	err = v.ReadInConfig()
	// A missing file is fine; env vars and defaults still apply.
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}
