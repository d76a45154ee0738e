// Package config loads ocsreport settings from flags, environment, .env files,
// and an optional YAML config file.
//
// Precedence, highest first:
//  1. Explicit overrides passed by the CLI (flags)
//  2. Environment variables (OCSREPORT_DATABASE_HOST, OCSREPORT_EMAIL_USE_TLS, ...)
//  3. .env and .env.local in the working directory
//  4. Config file (--config, else ./ocsreport.yaml or ~/.config/ocsreport/ocsreport.yaml)
//  5. Defaults
package config

import (
	"errors"
	"fmt"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/logging"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "OCSREPORT"

// Supported database/sql driver names.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Config holds the complete ocsreport configuration.
type Config struct {
	Database DatabaseConfig
	Baseline BaselineConfig
	Snapshot SnapshotConfig
	Email    EmailConfig
	Log      logging.Config

	// ConfigFile is the config file actually read, or "" if none was found.
	ConfigFile string
}

// DatabaseConfig points at the OCS Inventory NG database.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// DSN overrides the individual fields when set. Required for sqlite3.
	DSN string
}

// BaselineConfig points at the database holding detected_software_history.
// Empty fields fall back to the Database section.
type BaselineConfig struct {
	Driver string
	DSN    string
}

// SnapshotConfig selects an alternative snapshot source.
type SnapshotConfig struct {
	// File is a YAML snapshot export; when set the OCS database is not queried.
	File string
}

// EmailConfig holds SMTP settings for the new-software report.
type EmailConfig struct {
	Enabled       bool
	SenderEmail   string
	SenderName    string
	Recipients    []string
	SMTPServer    string
	SMTPPort      int
	UseTLS        bool
	Username      string
	Password      string
	SubjectPrefix string
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// ConfigFile is an explicit config path (the --config flag).
	ConfigFile string

	// EnvFiles are dotenv files loaded before reading the environment.
	// Nil means .env and .env.local; an empty slice disables dotenv loading.
	EnvFiles []string

	// Overrides are applied last, keyed by config key (e.g. "log.level").
	Overrides map[string]any
}

var defaultEnvFiles = []string{".env", ".env.local"}

// Load reads and validates configuration.
// Every failure is reported as inventory.ErrCodeConfigInvalid.
func Load(opts LoadOptions) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = defaultEnvFiles
	}
	for _, f := range envFiles {
		// Missing dotenv files are normal; godotenv never overrides variables already set.
		_ = godotenv.Load(f)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, inventory.ConfigInvalid("read config file", err)
		}
	} else {
		v.SetConfigName("ocsreport")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "ocsreport"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, inventory.ConfigInvalid("read config file", err)
			}
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverMySQL)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.dsn", "")

	v.SetDefault("baseline.driver", "")
	v.SetDefault("baseline.dsn", "")

	v.SetDefault("snapshot.file", "")

	v.SetDefault("email.enabled", true)
	v.SetDefault("email.sender_email", "")
	v.SetDefault("email.sender_name", "OCS Inventory NG")
	v.SetDefault("email.recipient_email", "")
	v.SetDefault("email.smtp_server", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.use_tls", true)
	v.SetDefault("email.smtp_username", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.subject_prefix", "[NEW SOFTWARE]")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.no_color", os.Getenv("NO_COLOR") != "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	dbPort, err := intValue(v, "database.port")
	if err != nil {
		return nil, err
	}
	smtpPort, err := intValue(v, "email.smtp_port")
	if err != nil {
		return nil, err
	}

	return &Config{
		Database: DatabaseConfig{
			Driver:   strings.ToLower(v.GetString("database.driver")),
			Host:     v.GetString("database.host"),
			Port:     dbPort,
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Name:     v.GetString("database.name"),
			DSN:      v.GetString("database.dsn"),
		},
		Baseline: BaselineConfig{
			Driver: strings.ToLower(v.GetString("baseline.driver")),
			DSN:    v.GetString("baseline.dsn"),
		},
		Snapshot: SnapshotConfig{
			File: v.GetString("snapshot.file"),
		},
		Email: EmailConfig{
			Enabled:       v.GetBool("email.enabled"),
			SenderEmail:   v.GetString("email.sender_email"),
			SenderName:    v.GetString("email.sender_name"),
			Recipients:    recipients(v.Get("email.recipient_email")),
			SMTPServer:    v.GetString("email.smtp_server"),
			SMTPPort:      smtpPort,
			UseTLS:        v.GetBool("email.use_tls"),
			Username:      v.GetString("email.smtp_username"),
			Password:      v.GetString("email.smtp_password"),
			SubjectPrefix: v.GetString("email.subject_prefix"),
		},
		Log: logging.Config{
			Level:   v.GetString("log.level"),
			Format:  v.GetString("log.format"),
			Output:  v.GetString("log.output"),
			NoColor: v.GetBool("log.no_color"),
		},
		ConfigFile: v.ConfigFileUsed(),
	}, nil
}

// intValue reads key as an int, rejecting values viper would silently turn into 0.
func intValue(v *viper.Viper, key string) (int, error) {
	switch raw := v.Get(key).(type) {
	case int:
		return raw, nil
	case int64:
		return int(raw), nil
	case float64:
		return int(raw), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, inventory.ConfigInvalid("parse "+key, fmt.Errorf("%q is not a number", raw))
		}
		return n, nil
	default:
		return v.GetInt(key), nil
	}
}

// recipients accepts a YAML list or a comma-separated string.
func recipients(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = strings.Split(val, ",")
	case []string:
		parts = val
	case []any:
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks configuration for correctness.
func (c *Config) Validate() error {
	if c.Snapshot.File == "" {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	baseline := c.BaselineDatabase()
	if err := baseline.validate("baseline"); err != nil {
		return err
	}

	if c.Email.Enabled {
		if err := c.Email.validate(); err != nil {
			return err
		}
	}

	if !logging.ValidLevel(c.Log.Level) {
		return invalid("log.level %q is not a valid level", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "json", "console", "pretty":
	default:
		return invalid("log.format must be auto, json, or console, got %q", c.Log.Format)
	}

	return nil
}

// BaselineDatabase resolves where the history table lives.
func (c *Config) BaselineDatabase() DatabaseConfig {
	if c.Baseline.Driver == "" && c.Baseline.DSN == "" {
		return c.Database
	}
	db := DatabaseConfig{Driver: c.Baseline.Driver, DSN: c.Baseline.DSN}
	if db.Driver == "" {
		db.Driver = c.Database.Driver
	}
	return db
}

// DataSourceName returns the driver-specific DSN.
func (d DatabaseConfig) DataSourceName() string {
	if d.DSN != "" || d.Driver != DriverMySQL {
		return d.DSN
	}
	mc := mysql.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	mc.DBName = d.Name
	mc.ParseTime = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

func (d DatabaseConfig) validate(section string) error {
	switch d.Driver {
	case DriverMySQL:
		if d.DSN != "" {
			if _, err := mysql.ParseDSN(d.DSN); err != nil {
				return invalid("%s.dsn is not a valid MySQL DSN: %v", section, err)
			}
			return nil
		}
		if d.Host == "" {
			return invalid("%s.host is required", section)
		}
		if d.Name == "" {
			return invalid("%s.name is required", section)
		}
		if d.Port < 1 || d.Port > 65535 {
			return invalid("%s.port must be between 1 and 65535, got %d", section, d.Port)
		}
	case DriverSQLite:
		if d.DSN == "" {
			return invalid("%s.dsn is required for the sqlite3 driver", section)
		}
	default:
		return invalid("%s.driver must be %q or %q, got %q", section, DriverMySQL, DriverSQLite, d.Driver)
	}
	return nil
}

func (e EmailConfig) validate() error {
	if e.SMTPServer == "" {
		return invalid("email.smtp_server is required when email is enabled")
	}
	if e.SMTPPort < 1 || e.SMTPPort > 65535 {
		return invalid("email.smtp_port must be between 1 and 65535, got %d", e.SMTPPort)
	}
	if e.SenderEmail == "" {
		return invalid("email.sender_email is required when email is enabled")
	}
	if _, err := mail.ParseAddress(e.SenderEmail); err != nil {
		return invalid("email.sender_email %q: %v", e.SenderEmail, err)
	}
	if len(e.Recipients) == 0 {
		return invalid("email.recipient_email is required when email is enabled")
	}
	for _, r := range e.Recipients {
		if _, err := mail.ParseAddress(r); err != nil {
			return invalid("email.recipient_email %q: %v", r, err)
		}
	}
	if e.Password != "" && e.Username == "" {
		return invalid("email.smtp_password is set but email.smtp_username is empty")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return inventory.ConfigInvalid("validate config", fmt.Errorf(format, args...))
}
