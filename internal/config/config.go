package config

import (
	"errors"
	"fmt"
	"os"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

type environment string

const (
	production  environment = "production"
	staging     environment = "staging"
	development environment = "development"
)

type Config struct {
	cloudSQLUnixSocketPath string
	dBPassword             string
	dBUsername             string
	sentryDSN              string
	redisURL               string
	port                   string
	timezoneName           string
	googleCloudProject     string
	env                    environment
}

func (c *Config) CloudSQLUnixSocketPath() string {
	return c.cloudSQLUnixSocketPath
}

func (c *Config) DBPassword() string {
	return c.dBPassword
}

func (c *Config) DBUsername() string {
	return c.dBUsername
}

func (c *Config) SentryDSN() string {
	return c.sentryDSN
}

func (c *Config) RedisURL() string {
	return c.redisURL
}

func (c *Config) Port() string {
	return c.port
}

// TimezoneName is the IANA name of the club's local timezone. Calendar
// boundaries for streaks are computed in this location.
func (c *Config) TimezoneName() string {
	return c.timezoneName
}

// GoogleCloudProject is optional. When set, log records are annotated with
// trace ids in the format Cloud Logging correlates on.
func (c *Config) GoogleCloudProject() string {
	return c.googleCloudProject
}

func (c *Config) IsProduction() bool {
	return c.env == production
}

func (c *Config) IsStaging() bool {
	return c.env == staging
}

func (c *Config) IsDevelopment() bool {
	return c.env == development
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf("Config{env: %s, port: %s, timezone: %s, ...}", string(c.env), c.port, c.timezoneName)
}

func ConfigFromEnv() (Config, error) {
	missingKey := func(key string) (Config, error) {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingRequiredValue, key)
	}

	var env environment
	rawEnv, ok := os.LookupEnv("TEELINE_ENVIRONMENT")
	if !ok {
		return missingKey("TEELINE_ENVIRONMENT")
	}
	switch rawEnv {
	case "production":
		env = production
	case "staging":
		env = staging
	case "development":
		env = development
	default:
		return Config{}, fmt.Errorf("%w: TEELINE_ENVIRONMENT (%s)", ErrInvalidValue, rawEnv)
	}
	if string(env) == "" {
		panic("logic error: env is empty")
	}

	cloudSQLUnixSocketPath := os.Getenv("CLOUDSQL_UNIX_SOCKET")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbUsername := os.Getenv("DB_USERNAME")
	sentryDSN := os.Getenv("SENTRY_DSN")
	redisURL := os.Getenv("REDIS_URL")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	timezoneName := os.Getenv("TEELINE_TIMEZONE")
	if timezoneName == "" {
		timezoneName = "Europe/Oslo"
	}

	googleCloudProject := os.Getenv("GOOGLE_CLOUD_PROJECT")

	if env == production || env == staging {
		if cloudSQLUnixSocketPath == "" {
			return missingKey("CLOUDSQL_UNIX_SOCKET")
		}
		if dbUsername == "" {
			return missingKey("DB_USERNAME")
		}
		if dbPassword == "" {
			return missingKey("DB_PASSWORD")
		}
		if sentryDSN == "" {
			return missingKey("SENTRY_DSN")
		}
		if redisURL == "" {
			return missingKey("REDIS_URL")
		}
	}

	return Config{
		cloudSQLUnixSocketPath: cloudSQLUnixSocketPath,
		dBPassword:             dbPassword,
		dBUsername:             dbUsername,
		sentryDSN:              sentryDSN,
		redisURL:               redisURL,
		port:                   port,
		timezoneName:           timezoneName,
		googleCloudProject:     googleCloudProject,
		env:                    env,
	}, nil
}
