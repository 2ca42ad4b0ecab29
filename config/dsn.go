package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/drblury/swiftmove/store"
)

const (
	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432
)

// DSN returns the driver specific connection string.
//
// For mysql a mysql:// URL or a native go-sql-driver DSN is accepted; either
// way parseTime and clientFoundRows are forced on so updates that rewrite
// identical values still count as a match. For pgx the URL is passed through
// (postgres:// or key=value). For sqlite3 URL or Name is used as the file path.
func (d Database) DSN() (string, error) {
	switch d.Driver {
	case store.DriverMySQL:
		return d.mysqlDSN()
	case store.DriverPostgres:
		return d.postgresDSN(), nil
	case store.DriverSQLite:
		if d.URL != "" {
			return d.URL, nil
		}
		return d.Name, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}

// Redacted is DSN with credentials masked, safe to log.
func (d Database) Redacted() string {
	if d.URL != "" {
		if strings.Contains(d.URL, "://") {
			return redactURL(d.URL)
		}
		if d.Driver == store.DriverMySQL {
			if cfg, err := mysql.ParseDSN(d.URL); err == nil {
				cfg.Passwd = ""
				return cfg.FormatDSN()
			}
		}
		return "[REDACTED]"
	}
	masked := d
	if masked.Password != "" {
		masked.Password = "xxxxx"
	}
	dsn, err := masked.DSN()
	if err != nil {
		return ""
	}
	return dsn
}

func (d Database) mysqlDSN() (string, error) {
	var cfg *mysql.Config
	switch {
	case strings.HasPrefix(d.URL, "mysql://"):
		parsed, err := mysqlConfigFromURL(d.URL)
		if err != nil {
			return "", err
		}
		cfg = parsed
	case d.URL != "":
		parsed, err := mysql.ParseDSN(d.URL)
		if err != nil {
			return "", fmt.Errorf("invalid mysql DSN: %w", err)
		}
		cfg = parsed
	default:
		cfg = mysql.NewConfig()
		cfg.User = d.User
		cfg.Passwd = d.Password
		cfg.Net = "tcp"
		cfg.Addr = hostPort(d.Host, d.Port, defaultMySQLPort)
		cfg.DBName = d.Name
	}

	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

func mysqlConfigFromURL(raw string) (*mysql.Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql URL: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = hostPort(u.Hostname(), portOf(u), defaultMySQLPort)
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	params := u.Query()
	if len(params) > 0 {
		cfg.Params = make(map[string]string, len(params))
		for key := range params {
			cfg.Params[key] = params.Get(key)
		}
	}
	return cfg, nil
}

func (d Database) postgresDSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   hostPort(d.Host, d.Port, defaultPostgresPort),
		Path:   "/" + d.Name,
	}
	switch {
	case d.User != "" && d.Password != "":
		u.User = url.UserPassword(d.User, d.Password)
	case d.User != "":
		u.User = url.User(d.User)
	}
	return u.String()
}

func hostPort(host string, port, fallback int) string {
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = fallback
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func portOf(u *url.URL) int {
	p, err := strconv.Atoi(u.Port())
	if err != nil {
		return 0
	}
	return p
}
