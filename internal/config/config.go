// Package config resolves the service configuration from, in increasing
// priority, built-in defaults, a JSON config file, environment variables
// (optionally loaded from .env) and command-line flags.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	RunAddr             string        `env:"SERVER_ADDRESS" validate:"hostname_port"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" validate:"filepath"`
	DatabaseDSN         string        `env:"DATABASE_DSN"`
	MongoURI            string        `env:"MONGODB_URI"`
	MongoDatabase       string        `env:"MONGODB_DATABASE" validate:"required"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	TrustedSubnet       string        `env:"TRUSTED_SUBNET" validate:"omitempty,cidr"`
	ConfigFile          string        `env:"CONFIG"`
}

// fileConfig mirrors Config in the JSON config file. Durations are strings
// such as "15s".
type fileConfig struct {
	RunAddr             string `json:"server_address"`
	LogLevel            string `json:"log_level"`
	DBFileName          string `json:"file_storage_path"`
	DatabaseDSN         string `json:"database_dsn"`
	MongoURI            string `json:"mongodb_uri"`
	MongoDatabase       string `json:"mongodb_database"`
	DBConnectionTimeout string `json:"db_connection_timeout"`
	ShutdownTimeout     string `json:"shutdown_timeout"`
	TrustedSubnet       string `json:"trusted_subnet"`
}

var defaultConfig = Config{
	RunAddr:             ":8080",
	LogLevel:            "info",
	DBFileName:          "",
	DatabaseDSN:         "",
	MongoURI:            "",
	MongoDatabase:       "exercisetracker",
	DBConnectionTimeout: 10 * time.Second,
	ShutdownTimeout:     10 * time.Second,
	TrustedSubnet:       "",
}

type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing makes New ignore os.Args. Tests use it.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":  true,
		"info":   true,
		"warn":   true,
		"error":  true,
		"dpanic": true,
		"panic":  true,
		"fatal":  true,
	}

	return allowedLogLevels[value]
}

func (c *Config) validate() error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(c)
}

func applyDefaults(values *Config, defaults Config) {
	if values.RunAddr == "" {
		values.RunAddr = defaults.RunAddr
	}
	if values.LogLevel == "" {
		values.LogLevel = defaults.LogLevel
	}
	if values.DBFileName == "" {
		values.DBFileName = defaults.DBFileName
	}
	if values.DatabaseDSN == "" {
		values.DatabaseDSN = defaults.DatabaseDSN
	}
	if values.MongoURI == "" {
		values.MongoURI = defaults.MongoURI
	}
	if values.MongoDatabase == "" {
		values.MongoDatabase = defaults.MongoDatabase
	}
	if values.DBConnectionTimeout == 0 {
		values.DBConnectionTimeout = defaults.DBConnectionTimeout
	}
	if values.ShutdownTimeout == 0 {
		values.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if values.TrustedSubnet == "" {
		values.TrustedSubnet = defaults.TrustedSubnet
	}
}

// overrideWith copies every non-zero field of source into c.
func (c *Config) overrideWith(source Config) {
	applyDefaults(&source, *c)
	source.ConfigFile = c.ConfigFile
	*c = source
}

func loadFileConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("in internal/config/config.go/loadFileConfig(): error while `os.ReadFile()` calling: %w", err)
	}

	var raw fileConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("in internal/config/config.go/loadFileConfig(): error while `json.Unmarshal()` calling: %w", err)
	}

	result := Config{
		RunAddr:       raw.RunAddr,
		LogLevel:      raw.LogLevel,
		DBFileName:    raw.DBFileName,
		DatabaseDSN:   raw.DatabaseDSN,
		MongoURI:      raw.MongoURI,
		MongoDatabase: raw.MongoDatabase,
		TrustedSubnet: raw.TrustedSubnet,
	}

	if raw.DBConnectionTimeout != "" {
		result.DBConnectionTimeout, err = time.ParseDuration(raw.DBConnectionTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("db_connection_timeout: %w", err)
		}
	}

	if raw.ShutdownTimeout != "" {
		result.ShutdownTimeout, err = time.ParseDuration(raw.ShutdownTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("shutdown_timeout: %w", err)
		}
	}

	return result, nil
}

func parseFlags(arguments []string) (Config, error) {
	var result Config

	flags := flag.NewFlagSet("exercisetracker", flag.ContinueOnError)
	flags.StringVar(&result.RunAddr, "a", "", "address and port to run server")
	flags.StringVar(&result.LogLevel, "l", "", "logger level")
	flags.StringVar(&result.DBFileName, "f", "", "JSON file name with database")
	flags.StringVar(&result.DatabaseDSN, "d", "", "PostgreSQL connection string")
	flags.StringVar(&result.MongoURI, "m", "", "MongoDB connection URI")
	flags.StringVar(&result.TrustedSubnet, "t", "", "CIDR allowed to read /metrics")
	flags.StringVar(&result.ConfigFile, "c", "", "JSON config file")

	if err := flags.Parse(arguments); err != nil {
		return Config{}, err
	}

	return result, nil
}

// New builds the configuration. Later sources override earlier ones:
// defaults, JSON file, environment, flags.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Unable to load .env file: %v", err)
	}

	var valuesFromFlags Config
	if !options.disableFlagsParsing {
		valuesFromFlags, err = parseFlags(os.Args[1:])
		if err != nil {
			return nil, err
		}
	}

	var valuesFromEnv Config
	if err := env.Parse(&valuesFromEnv); err != nil {
		return nil, err
	}

	values := defaultConfig
	values.ConfigFile = valuesFromEnv.ConfigFile
	if valuesFromFlags.ConfigFile != "" {
		values.ConfigFile = valuesFromFlags.ConfigFile
	}

	if values.ConfigFile != "" {
		valuesFromFile, err := loadFileConfig(values.ConfigFile)
		if err != nil {
			return nil, err
		}
		values.overrideWith(valuesFromFile)
	}

	values.overrideWith(valuesFromEnv)
	values.overrideWith(valuesFromFlags)

	if err := values.validate(); err != nil {
		return nil, err
	}

	return &values, nil
}
