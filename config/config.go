package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/drblury/swiftmove/logging"
	"github.com/drblury/swiftmove/store"
)

// Flag names. Each one is also readable from the environment variables listed
// in Flags.
const (
	FlagPort             = "port"
	FlagHost             = "host"
	FlagEnv              = "env"
	FlagLogLevel         = "log-level"
	FlagLogFormat        = "log-format"
	FlagPublicURL        = "public-url"
	FlagDBDriver         = "db-driver"
	FlagDatabaseURL      = "database-url"
	FlagDBHost           = "db-host"
	FlagDBPort           = "db-port"
	FlagDBUser           = "db-user"
	FlagDBPassword       = "db-password"
	FlagDBName           = "db-name"
	FlagDBMaxOpenConns   = "db-max-open-conns"
	FlagDBQueryTimeout   = "db-query-timeout"
	FlagDBConnectTimeout = "db-connect-timeout"
	FlagCORSOrigins      = "cors-origins"
	FlagRequestTimeout   = "request-timeout"
	FlagRateLimit        = "rate-limit"
	FlagRateLimitBurst   = "rate-limit-burst"
	FlagValidateRequests = "validate-requests"
	FlagShutdownTimeout  = "shutdown-timeout"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	FormatJSON = logging.FormatJSON
	FormatText = logging.FormatText

	defaultPort = 5000
)

// Config is the complete runtime configuration of the service.
type Config struct {
	Port      int
	Host      string
	Env       string
	LogLevel  slog.Level
	LogFormat string
	PublicURL string

	Database Database

	CORSOrigins      []string
	RequestTimeout   time.Duration
	RateLimit        float64
	RateLimitBurst   int
	ValidateRequests bool
	ShutdownTimeout  time.Duration
}

// Database holds the connection settings. URL, when set, wins over the
// individual parts.
type Database struct {
	Driver         string
	URL            string
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	MaxOpenConns   int
	QueryTimeout   time.Duration
	ConnectTimeout time.Duration
}

// Default returns the configuration used when no flag or variable is set.
func Default() Config {
	return Config{
		Port:      defaultPort,
		Env:       EnvProduction,
		LogLevel:  slog.LevelInfo,
		LogFormat: FormatJSON,
		PublicURL: "http://localhost:5000",
		Database: Database{
			Driver:         store.DriverMySQL,
			Host:           "localhost",
			User:           "root",
			Name:           "swiftmove",
			MaxOpenConns:   10,
			QueryTimeout:   5 * time.Second,
			ConnectTimeout: 5 * time.Second,
		},
		CORSOrigins:     []string{"*"},
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}

// Flags returns the command line flags that populate Config.
func Flags() []cli.Flag {
	def := Default()
	return []cli.Flag{
		&cli.IntFlag{
			Name:    FlagPort,
			Usage:   "TCP port to listen on",
			Sources: cli.EnvVars("PORT"),
			Value:   def.Port,
		},
		&cli.StringFlag{
			Name:    FlagHost,
			Usage:   "interface to bind (empty binds all)",
			Sources: cli.EnvVars("HOST"),
		},
		&cli.StringFlag{
			Name:    FlagEnv,
			Usage:   "runtime environment; development adds stack traces to error responses",
			Sources: cli.EnvVars("APP_ENV", "NODE_ENV"),
			Value:   def.Env,
		},
		&cli.StringFlag{
			Name:    FlagLogLevel,
			Usage:   "log level (debug, info, warn, error)",
			Sources: cli.EnvVars("LOG_LEVEL"),
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    FlagLogFormat,
			Usage:   "log output format (json, text)",
			Sources: cli.EnvVars("LOG_FORMAT"),
			Value:   def.LogFormat,
		},
		&cli.StringFlag{
			Name:    FlagPublicURL,
			Usage:   "base URL advertised in the OpenAPI document",
			Sources: cli.EnvVars("PUBLIC_URL"),
			Value:   def.PublicURL,
		},
		&cli.StringFlag{
			Name:    FlagDBDriver,
			Usage:   "database driver (" + strings.Join(store.SupportedDrivers(), ", ") + ")",
			Sources: cli.EnvVars("DB_DRIVER"),
			Value:   def.Database.Driver,
		},
		&cli.StringFlag{
			Name:    FlagDatabaseURL,
			Usage:   "database connection string or URL",
			Sources: cli.EnvVars("DATABASE_URL", "MYSQL_URL"),
		},
		&cli.StringFlag{
			Name:    FlagDBHost,
			Usage:   "database host",
			Sources: cli.EnvVars("DB_HOST"),
			Value:   def.Database.Host,
		},
		&cli.IntFlag{
			Name:    FlagDBPort,
			Usage:   "database port (driver default when zero)",
			Sources: cli.EnvVars("DB_PORT"),
		},
		&cli.StringFlag{
			Name:    FlagDBUser,
			Usage:   "database user",
			Sources: cli.EnvVars("DB_USER"),
			Value:   def.Database.User,
		},
		&cli.StringFlag{
			Name:    FlagDBPassword,
			Usage:   "database password",
			Sources: cli.EnvVars("DB_PASSWORD"),
		},
		&cli.StringFlag{
			Name:    FlagDBName,
			Usage:   "database name, or file path for sqlite3",
			Sources: cli.EnvVars("DB_NAME"),
			Value:   def.Database.Name,
		},
		&cli.IntFlag{
			Name:    FlagDBMaxOpenConns,
			Usage:   "connection pool size",
			Sources: cli.EnvVars("DB_MAX_OPEN_CONNS"),
			Value:   def.Database.MaxOpenConns,
		},
		&cli.DurationFlag{
			Name:    FlagDBQueryTimeout,
			Usage:   "upper bound for a single statement",
			Sources: cli.EnvVars("DB_QUERY_TIMEOUT"),
			Value:   def.Database.QueryTimeout,
		},
		&cli.DurationFlag{
			Name:    FlagDBConnectTimeout,
			Usage:   "upper bound for the startup ping",
			Sources: cli.EnvVars("DB_CONNECT_TIMEOUT"),
			Value:   def.Database.ConnectTimeout,
		},
		&cli.StringSliceFlag{
			Name:    FlagCORSOrigins,
			Usage:   "allowed CORS origins (comma separated, * for any)",
			Sources: cli.EnvVars("CORS_ORIGINS"),
			Value:   def.CORSOrigins,
		},
		&cli.DurationFlag{
			Name:    FlagRequestTimeout,
			Usage:   "per-request handler timeout (0 disables)",
			Sources: cli.EnvVars("REQUEST_TIMEOUT"),
			Value:   def.RequestTimeout,
		},
		&cli.FloatFlag{
			Name:    FlagRateLimit,
			Usage:   "requests per second accepted across all clients (0 disables)",
			Sources: cli.EnvVars("RATE_LIMIT"),
		},
		&cli.IntFlag{
			Name:    FlagRateLimitBurst,
			Usage:   "rate limiter burst size",
			Sources: cli.EnvVars("RATE_LIMIT_BURST"),
		},
		&cli.BoolFlag{
			Name:    FlagValidateRequests,
			Usage:   "validate /api/ requests against the OpenAPI document",
			Sources: cli.EnvVars("VALIDATE_REQUESTS"),
		},
		&cli.DurationFlag{
			Name:    FlagShutdownTimeout,
			Usage:   "grace period for in-flight requests on shutdown",
			Sources: cli.EnvVars("SHUTDOWN_TIMEOUT"),
			Value:   def.ShutdownTimeout,
		},
	}
}

// FromCommand reads the parsed flags of cmd into a validated Config.
func FromCommand(cmd *cli.Command) (Config, error) {
	cfg := Config{
		Port:      cmd.Int(FlagPort),
		Host:      cmd.String(FlagHost),
		Env:       strings.ToLower(strings.TrimSpace(cmd.String(FlagEnv))),
		LogFormat: strings.ToLower(strings.TrimSpace(cmd.String(FlagLogFormat))),
		PublicURL: strings.TrimRight(cmd.String(FlagPublicURL), "/"),
		Database: Database{
			Driver:         cmd.String(FlagDBDriver),
			URL:            cmd.String(FlagDatabaseURL),
			Host:           cmd.String(FlagDBHost),
			Port:           cmd.Int(FlagDBPort),
			User:           cmd.String(FlagDBUser),
			Password:       cmd.String(FlagDBPassword),
			Name:           cmd.String(FlagDBName),
			MaxOpenConns:   cmd.Int(FlagDBMaxOpenConns),
			QueryTimeout:   cmd.Duration(FlagDBQueryTimeout),
			ConnectTimeout: cmd.Duration(FlagDBConnectTimeout),
		},
		CORSOrigins:      splitList(cmd.StringSlice(FlagCORSOrigins)),
		RequestTimeout:   cmd.Duration(FlagRequestTimeout),
		RateLimit:        cmd.Float(FlagRateLimit),
		RateLimitBurst:   cmd.Int(FlagRateLimitBurst),
		ValidateRequests: cmd.Bool(FlagValidateRequests),
		ShutdownTimeout:  cmd.Duration(FlagShutdownTimeout),
	}

	level, err := logging.ParseLevel(cmd.String(FlagLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", cmd.String(FlagLogLevel), err)
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Development reports whether error responses may carry internal detail.
func (c Config) Development() bool {
	return c.Env == EnvDevelopment
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	switch c.LogFormat {
	case FormatJSON, FormatText:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if !store.IsSupportedDriver(c.Database.Driver) {
		errs = append(errs, fmt.Errorf("unsupported database driver %q (want one of %s)",
			c.Database.Driver, strings.Join(store.SupportedDrivers(), ", ")))
	} else if c.Database.URL == "" && c.Database.Name == "" {
		errs = append(errs, errors.New("database URL or name is required"))
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("database port %d out of range", c.Database.Port))
	}
	if c.Database.MaxOpenConns < 0 {
		errs = append(errs, errors.New("database pool size cannot be negative"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, errors.New("rate limit cannot be negative"))
	}
	if c.RequestTimeout < 0 || c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("timeouts cannot be negative"))
	}
	return errors.Join(errs...)
}

// Store converts the database settings into the gateway configuration.
func (c Config) Store() (store.Config, error) {
	dsn, err := c.Database.DSN()
	if err != nil {
		return store.Config{}, err
	}
	return store.Config{
		Driver:         c.Database.Driver,
		DSN:            dsn,
		MaxOpenConns:   c.Database.MaxOpenConns,
		QueryTimeout:   c.Database.QueryTimeout,
		ConnectTimeout: c.Database.ConnectTimeout,
	}, nil
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// redactURL hides the password of a connection URL for logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
