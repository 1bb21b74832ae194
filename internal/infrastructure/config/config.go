package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	ERP      ERPConfig
	Sync     SyncConfig
	Log      LogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// ERPConfig holds the external provider connection settings. The provider
// issues separate accounts for the document interface and the stock
// interface, hence the two credential pairs.
type ERPConfig struct {
	BaseURL string

	DocumentsUsername string
	DocumentsPassword string
	StocksUsername    string
	StocksPassword    string

	TokenTTL          time.Duration
	TokenSafetyMargin time.Duration
	PageSize          int
	TimeoutSeconds    int

	// Per-installation overrides for the provider's remote method names.
	// Empty values fall back to the built-in defaults.
	ReceivingMethod     string
	ShippingMethod      string
	StockPartnersMethod string
	StockItemsMethod    string

	// DefaultWarehouse is applied as the client-side warehouse filter when
	// a sync request does not name one.
	DefaultWarehouse string
}

// SyncConfig holds the periodic sync settings
type SyncConfig struct {
	Enabled    bool
	Interval   time.Duration
	JobTimeout time.Duration
	Persist    bool
	// DateWindowDays is how many days back the periodic document sync
	// reaches on each run.
	DateWindowDays int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with WMS_ prefix (e.g., WMS_ERP_DOCUMENTS_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("WMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		ERP: ERPConfig{
			BaseURL:             v.GetString("erp.base_url"),
			DocumentsUsername:   v.GetString("erp.documents_username"),
			DocumentsPassword:   v.GetString("erp.documents_password"),
			StocksUsername:      v.GetString("erp.stocks_username"),
			StocksPassword:      v.GetString("erp.stocks_password"),
			TokenTTL:            v.GetDuration("erp.token_ttl"),
			TokenSafetyMargin:   v.GetDuration("erp.token_safety_margin"),
			PageSize:            v.GetInt("erp.page_size"),
			TimeoutSeconds:      v.GetInt("erp.timeout_seconds"),
			ReceivingMethod:     v.GetString("erp.receiving_method"),
			ShippingMethod:      v.GetString("erp.shipping_method"),
			StockPartnersMethod: v.GetString("erp.stock_partners_method"),
			StockItemsMethod:    v.GetString("erp.stock_items_method"),
			DefaultWarehouse:    v.GetString("erp.default_warehouse"),
		},
		Sync: SyncConfig{
			Enabled:        v.GetBool("sync.enabled"),
			Interval:       v.GetDuration("sync.interval"),
			JobTimeout:     v.GetDuration("sync.job_timeout"),
			Persist:        v.GetBool("sync.persist"),
			DateWindowDays: v.GetInt("sync.date_window_days"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
	}

	// Persist defaults to true; GetBool reports false for unset keys, so
	// the default is applied only when the key is absent.
	if !v.IsSet("sync.persist") {
		cfg.Sync.Persist = true
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "wms-sync"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "wms"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.ERP.TokenTTL == 0 {
		cfg.ERP.TokenTTL = 55 * time.Minute
	}
	if cfg.ERP.TokenSafetyMargin == 0 {
		cfg.ERP.TokenSafetyMargin = time.Minute
	}
	if cfg.ERP.PageSize == 0 {
		cfg.ERP.PageSize = 500
	}
	if cfg.ERP.TimeoutSeconds == 0 {
		cfg.ERP.TimeoutSeconds = 30
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = 15 * time.Minute
	}
	if cfg.Sync.JobTimeout == 0 {
		cfg.Sync.JobTimeout = 10 * time.Minute
	}
	if cfg.Sync.DateWindowDays == 0 {
		cfg.Sync.DateWindowDays = 7
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.ERP.PageSize <= 0 {
		return fmt.Errorf("erp.page_size must be positive")
	}
	if c.ERP.TokenSafetyMargin >= c.ERP.TokenTTL {
		return fmt.Errorf("erp.token_safety_margin (%s) must be shorter than erp.token_ttl (%s)",
			c.ERP.TokenSafetyMargin, c.ERP.TokenTTL)
	}
	if c.Sync.Enabled && c.Sync.JobTimeout >= c.Sync.Interval {
		return fmt.Errorf("sync.job_timeout (%s) must be shorter than sync.interval (%s)",
			c.Sync.JobTimeout, c.Sync.Interval)
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.ERP.BaseURL == "" {
			return fmt.Errorf("erp.base_url is required in production")
		}
		if c.ERP.DocumentsUsername == "" || c.ERP.DocumentsPassword == "" {
			return fmt.Errorf("erp.documents_username and erp.documents_password are required in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
