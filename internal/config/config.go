package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults applied when the environment leaves a value unset
const (
	DefaultEnvironment    = "development"
	DefaultPort           = "3001"
	DefaultRegion         = "ap-south-1"
	DefaultServiceName    = "mirror-api"
	DefaultFrontendOrigin = "http://localhost:5173"
	DefaultLogLevel       = "info"
	DefaultMaxBodyBytes   = 10 << 20
	DefaultRateLimitBurst = 20
)

// Config holds all configuration for the application
type Config struct {
	Environment    string `validate:"required"`
	Port           string `validate:"required,numeric"`
	Region         string `validate:"required"`
	ServiceName    string `validate:"required"`
	FrontendOrigin string `validate:"omitempty,url"`
	Log            LogConfig
	Limits         LimitsConfig
	Serverless     ServerlessConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"loglevel"`
	Format string `validate:"oneof=text json"`
}

// LimitsConfig holds request limits applied by the local listener
type LimitsConfig struct {
	MaxBodyBytes   int64   `validate:"gt=0"`
	RateLimitRPS   float64 `validate:"gte=0"`
	RateLimitBurst int     `validate:"gte=1"`
}

// flagKeys maps command line flag names to configuration keys
var flagKeys = map[string]string{
	"env":             "ENVIRONMENT",
	"port":            "PORT",
	"region":          "AWS_REGION",
	"log-level":       "LOG_LEVEL",
	"frontend-origin": "FRONTEND_ORIGIN",
}

// environmentAliases maps common shorthands onto canonical environment names.
// Anything else is kept as given and treated as non-production.
var environmentAliases = map[string]string{
	"dev":     "development",
	"local":   "development",
	"testing": "test",
	"stage":   "staging",
	"stg":     "staging",
	"prod":    "production",
	"prd":     "production",
}

// lambdaIgnored lists fields only the local listener reads. A bad value there
// must not stop a Lambda cold start; logging falls back to info on its own.
var lambdaIgnored = []string{"Port", "FrontendOrigin", "Limits", "Log"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := logrus.ParseLevel(fl.Field().String())
		return err == nil
	})
	return v
}

// Load loads configuration from environment variables and the optional .env file.
// Flags that were set explicitly take precedence over the environment; flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENVIRONMENT", DefaultEnvironment)
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("AWS_REGION", DefaultRegion)
	v.SetDefault("SERVICE_NAME", DefaultServiceName)
	v.SetDefault("FRONTEND_ORIGIN", DefaultFrontendOrigin)
	v.SetDefault("LOG_LEVEL", DefaultLogLevel)
	v.SetDefault("MAX_BODY_BYTES", DefaultMaxBodyBytes)
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", DefaultRateLimitBurst)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		Environment:    normalizeEnvironment(v.GetString("ENVIRONMENT")),
		Port:           v.GetString("PORT"),
		Region:         v.GetString("AWS_REGION"),
		ServiceName:    v.GetString("SERVICE_NAME"),
		FrontendOrigin: v.GetString("FRONTEND_ORIGIN"),
		Log: LogConfig{
			Level:  normalize(v.GetString("LOG_LEVEL")),
			Format: normalize(v.GetString("LOG_FORMAT")),
		},
		Limits: LimitsConfig{
			MaxBodyBytes:   v.GetInt64("MAX_BODY_BYTES"),
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Serverless: DetectServerless(),
	}

	cfg = AdaptConfigForServerless(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values. Inside Lambda only
// the fields the handler reads are checked.
func (c *Config) Validate() error {
	var err error
	if c.Serverless.IsLambda {
		err = validate.StructExcept(c, lambdaIgnored...)
	} else {
		err = validate.Struct(c)
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeEnvironment(env string) string {
	env = normalize(env)
	if env == "" {
		return DefaultEnvironment
	}
	if canonical, ok := environmentAliases[env]; ok {
		return canonical
	}
	return env
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
