package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Required: HS* algorithms need jwt_secret_key, RS256 needs jwt_private_key
	JWTSecretKey  string `mapstructure:"jwt_secret_key"`
	JWTPrivateKey string `mapstructure:"jwt_private_key"` // path to a PEM RSA key

	// Optional JWT settings
	JWTAlgorithm  string        `mapstructure:"jwt_algorithm"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`

	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional logging settings
	LogLevel string `mapstructure:"log_level"`

	// Storage
	DBPath string `mapstructure:"db_path"`

	ConfigPath string
}

const (
	DefaultConfigPath    = "/etc/accountd/config.yml"
	DefaultDBPath        = "/var/lib/accountd/db.sqlite3"
	DefaultAPIHost       = "0.0.0.0"
	DefaultAPIPort       = 8337
	DefaultLogLevel      = "info"
	DefaultJWTAlgorithm  = "HS256"
	DefaultTokenLifetime = time.Hour
)

var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
	"RS256": true,
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Set defaults
	viper.SetDefault("db_path", DefaultDBPath)
	viper.SetDefault("api_host", DefaultAPIHost)
	viper.SetDefault("api_port", DefaultAPIPort)
	viper.SetDefault("log_level", DefaultLogLevel)
	viper.SetDefault("jwt_algorithm", DefaultJWTAlgorithm)
	viper.SetDefault("token_lifetime", DefaultTokenLifetime)

	// Allow environment variable overrides
	viper.AutomaticEnv()
	viper.SetEnvPrefix("ACCOUNTD")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ConfigPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if !supportedAlgorithms[c.JWTAlgorithm] {
		return fmt.Errorf("jwt_algorithm must be one of HS256, HS384, HS512, RS256")
	}

	if c.JWTAlgorithm == "RS256" {
		if c.JWTPrivateKey == "" {
			return fmt.Errorf("jwt_private_key is required for RS256")
		}
		if _, err := os.Stat(c.JWTPrivateKey); os.IsNotExist(err) {
			return fmt.Errorf("jwt_private_key file does not exist: %s", c.JWTPrivateKey)
		}
	} else if c.JWTSecretKey == "" {
		return fmt.Errorf("jwt_secret_key is required")
	}

	if c.TokenLifetime <= 0 {
		return fmt.Errorf("token_lifetime must be positive")
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("ACCOUNTD_DEV_MODE") == "1"
}
