package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all the configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Recaptcha RecaptchaConfig
	JWT       JWTConfig
	App       AppConfig
}

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig holds the Redis configuration.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// RecaptchaConfig holds the secret used to verify bot-check tokens.
type RecaptchaConfig struct {
	SecretKey string `mapstructure:"secretkey"`
}

// JWTConfig holds the signing secret and claim values for session tokens.
// The secret is required; there is no in-source fallback.
type JWTConfig struct {
	Secret   string `mapstructure:"secret"`
	Issuer   string `mapstructure:"issuer"`
	Audience string `mapstructure:"audience"`
}

// AppConfig holds application-level settings such as the public base URL
// embedded in verification and password-reset links.
type AppConfig struct {
	BaseURL string `mapstructure:"baseurl"`
}

// Load creates a new Config object from environment variables.
func Load() *Config {
	// --- Set up Viper ---
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Load .env into process environment for BindEnv to work with file-based envs
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ godotenv could not load .env: %v", err)
	}

	// Bind structured keys to environment variables
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("database.url", "DATABASE_URL")
	_ = viper.BindEnv("redis.url", "REDIS_URL")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.issuer", "JWT_ISSUER")
	_ = viper.BindEnv("jwt.audience", "JWT_AUDIENCE")
	_ = viper.BindEnv("smtp.host", "SMTP_HOST")
	_ = viper.BindEnv("smtp.port", "SMTP_PORT")
	_ = viper.BindEnv("smtp.username", "SMTP_USERNAME")
	_ = viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	_ = viper.BindEnv("smtp.from", "SMTP_FROM")
	_ = viper.BindEnv("recaptcha.secretkey", "RECAPTCHA_SECRET_KEY")
	_ = viper.BindEnv("app.baseurl", "APP_BASE_URL")

	// --- Read Configuration ---
	if err := viper.ReadInConfig(); err != nil {
		// Only log a warning if the .env file is not found.
		// We can still proceed if all config is set via environment variables.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("❌ Error reading config file: %s", err)
		} else {
			log.Printf("⚠️ .env file not found, relying on environment variables")
		}
	}

	// --- Unmarshal configuration into our struct ---
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("❌ Unable to decode config into struct: %v", err)
	}

	// --- Required values and defaults ---
	if cfg.JWT.Secret == "" {
		log.Fatal("❌ JWT_SECRET environment variable is not set")
	}
	if cfg.Recaptcha.SecretKey == "" {
		log.Fatal("❌ RECAPTCHA_SECRET_KEY environment variable is not set")
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "beewords.ir"
	}
	if cfg.App.BaseURL == "" {
		cfg.App.BaseURL = "http://localhost:3000"
	}

	log.Println("✅ Configuration loaded successfully")
	return &cfg
}
