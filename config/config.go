package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farellandr/certportal/internal/repository"
)

const MinJWTSecretLength = 32

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Env      string `env:"CERTPORTAL_ENV" envDefault:"development"`
	LogLevel string `env:"CERTPORTAL_LOG_LEVEL" envDefault:"info"`

	Database DatabaseConfig

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"12h"`

	// Cache backend for the state snapshot and revoked tokens. Empty RedisURL
	// keeps both in memory.
	RedisURL    string `env:"REDIS_URL"`
	CachePrefix string `env:"CACHE_PREFIX" envDefault:"certportal:"`
	// StateFile stores the snapshot on disk instead of in the cache.
	StateFile string `env:"STATE_FILE"`

	Locale            string `env:"CERTPORTAL_LOCALE" envDefault:"pt-BR"`
	ExportScale       int    `env:"CERTPORTAL_EXPORT_SCALE" envDefault:"2"`
	SanitizeTemplates bool   `env:"CERTPORTAL_SANITIZE_TEMPLATES" envDefault:"false"`
	MaxImportBytes    int64  `env:"CERTPORTAL_MAX_IMPORT_BYTES" envDefault:"5242880"`
	MaxImageBytes     int64  `env:"CERTPORTAL_MAX_IMAGE_BYTES" envDefault:"5242880"`

	// PublicBaseURL, when set, stamps exports with a QR code of their link.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	FinderRateLimit float64 `env:"FINDER_RATE_LIMIT" envDefault:"1"`
	FinderBurst     int     `env:"FINDER_BURST" envDefault:"5"`
	LoginRateLimit  float64 `env:"LOGIN_RATE_LIMIT" envDefault:"0.2"`
	LoginBurst      int     `env:"LOGIN_BURST" envDefault:"5"`

	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"postgres"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"certportal"`
	Path     string `env:"DB_PATH" envDefault:"./data/certportal.db"`
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes long, got %d", MinJWTSecretLength, len(c.JWTSecret))
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.ExportScale < 1 || c.ExportScale > 4 {
		return fmt.Errorf("CERTPORTAL_EXPORT_SCALE must be between 1 and 4, got %d", c.ExportScale)
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// NewLogger builds the process logger: JSON outside development, text in it.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func openDialector(cfg DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		return sqlite.Open(cfg.Path + "?_foreign_keys=on&_busy_timeout=5000"), nil
	case DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

// InitDatabase opens the configured database and migrates the schema.
func InitDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverPostgres {
		if err := enableUUIDExtension(db); err != nil {
			return nil, err
		}
	}
	if cfg.Driver == DriverSQLite {
		// One writer at a time; concurrent sqlite writers fail with SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := repository.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}
