package infrastructure

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"user-record-service/internal/adapter/db/sqlstore"
	"user-record-service/internal/config"
	apperrors "user-record-service/pkg/errors"
	"user-record-service/pkg/logger"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"

	sqliteMemory      = "sqlite::memory:"
	sqliteBusyTimeout = "_pragma=busy_timeout(5000)"
)

// Target is a parsed connect string.
type Target struct {
	Driver string
	DSN    string
	Memory bool
}

// ParseConnectString resolves a connect string into a driver and DSN. Nothing
// is opened here, so an unsupported scheme fails before any connection attempt.
func ParseConnectString(s string) (Target, error) {
	switch {
	case s == sqliteMemory:
		return Target{Driver: driverSQLite, DSN: ":memory:", Memory: true}, nil
	case strings.HasPrefix(s, "sqlite://"):
		path := strings.TrimPrefix(s, "sqlite://")
		if path == "" {
			return Target{}, apperrors.NewValidationError("connect_string", "sqlite connect string has no path")
		}
		return Target{Driver: driverSQLite, DSN: withBusyTimeout(path)}, nil
	case strings.HasPrefix(s, "file:"):
		return Target{Driver: driverSQLite, DSN: withBusyTimeout(s)}, nil
	case strings.HasPrefix(s, "postgres://"), strings.HasPrefix(s, "postgresql://"):
		return Target{Driver: driverPostgres, DSN: s}, nil
	default:
		return Target{}, apperrors.NewValidationError("connect_string",
			fmt.Sprintf("unsupported connect string %q: expected sqlite://, sqlite::memory:, file:, postgres:// or postgresql://", redact(s)))
	}
}

// withBusyTimeout makes concurrent writers wait on the file lock instead of
// failing with SQLITE_BUSY. DSNs that already carry parameters are left alone.
func withBusyTimeout(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?" + sqliteBusyTimeout
}

// redact drops anything that looks like credentials from a connect string.
func redact(s string) string {
	if at := strings.LastIndex(s, "@"); at >= 0 {
		if scheme := strings.Index(s, "://"); scheme >= 0 && scheme < at {
			return s[:scheme+3] + "***" + s[at:]
		}
	}
	return s
}

func (t Target) dialector() gorm.Dialector {
	if t.Driver == driverPostgres {
		return pgdriver.Open(t.DSN)
	}
	return sqlite.Open(t.DSN)
}

// NewDatabase creates a new database connection with GORM configuration and
// ensures the user table exists.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	target, err := ParseConnectString(cfg.DB.ConnectString)
	if err != nil {
		return nil, err
	}

	// Configure GORM logger
	gormLogger := logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	db, err := gorm.Open(target.dialector(), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, apperrors.NewStorageError("connect", err)
	}

	// Get underlying sql.DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if target.Memory {
		// Every connection to :memory: is a separate database, so the pool
		// holds exactly one connection that never expires.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DB.ConnMaxLifetime) * time.Second)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DB.ConnMaxIdleTime) * time.Second)
	}

	if err := db.AutoMigrate(&sqlstore.UserSchema{}); err != nil {
		_ = sqlDB.Close()
		return nil, apperrors.NewStorageError("create user table", err)
	}

	l.Info("database connected successfully",
		zap.String("driver", target.Driver),
		zap.Int("max_open_conns", cfg.DB.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.DB.MaxIdleConns),
		zap.Int("conn_max_lifetime_seconds", cfg.DB.ConnMaxLifetime),
		zap.Int("conn_max_idle_time_seconds", cfg.DB.ConnMaxIdleTime),
	)

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
