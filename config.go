package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string         `yaml:"git_commit" envconfig:"DPAP_GIT_COMMIT"`
	GitTag                  string         `yaml:"git_tag" envconfig:"DPAP_GIT_TAG"`
	BuildTime               string         `yaml:"build_time" envconfig:"DPAP_BUILD_TIME"`
	IsProduction            bool           `yaml:"is_production" envconfig:"DPAP_IS_PRODUCTION"`
	LogLevel                zapcore.Level  `yaml:"log_level" envconfig:"DPAP_LOG_LEVEL"`
	LogFile                 string         `yaml:"log_file" envconfig:"DPAP_LOG_FILE"`
	OpsEndpointsEnable      bool           `yaml:"ops_endpoints_enable" envconfig:"DPAP_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool           `yaml:"profiler_endpoints_enable" envconfig:"DPAP_PROFILER_ENDPOINTS_ENABLE"`
	Server                  ServerConfig   `yaml:"server"`
	Postgres                PostgresConfig `yaml:"postgres"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"DPAP_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"DPAP_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"DPAP_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"DPAP_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"DPAP_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"DPAP_SERVER_SHUTDOWN_TIMEOUT"`
}

type PostgresConfig struct {
	Host           string        `yaml:"host" envconfig:"DPAP_POSTGRES_HOST"`
	Port           string        `yaml:"port" envconfig:"DPAP_POSTGRES_PORT"`
	User           string        `yaml:"user" envconfig:"DPAP_POSTGRES_USER"`
	Password       string        `yaml:"password" envconfig:"DPAP_POSTGRES_PASSWORD"`
	Database       string        `yaml:"database" envconfig:"DPAP_POSTGRES_DATABASE"`
	SSLMode        string        `yaml:"ssl_mode" envconfig:"DPAP_POSTGRES_SSL_MODE"`
	MaxConns       int32         `yaml:"max_conns" envconfig:"DPAP_POSTGRES_MAX_CONNS"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"DPAP_POSTGRES_CONNECT_TIMEOUT"`
}

// DSN builds the connection string consumed by the pgx pool.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(pc.User),
		url.QueryEscape(pc.Password),
		pc.Host,
		pc.Port,
		pc.Database,
		pc.SSLMode,
	)
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Postgres.Host) == 0 || len(config.Postgres.Port) == 0 {
		return errors.New("make sure to set valid postgres address and port in configuration file")
	}

	if len(config.Postgres.SSLMode) == 0 {
		config.Postgres.SSLMode = "disable"
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `DPAP`.
	err = LoadConfigEnvs("DPAP", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
