package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/IWTDPLZZZ/Habit-Tracker/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
)

// Open подключается к SQLite или PostgreSQL по cfg.Storage.Driver и мигрирует
// таблицу kv_entries. К Postgres повторяем попытки, пока стартует контейнер.
func Open(cfg *config.Config, zl *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	attempts := 1
	if cfg.Storage.Driver == config.DriverPostgres {
		attempts = maxRetries
	}

	var conn *gorm.DB
	for i := 0; i < attempts; i++ {
		conn, err = connect(dialector, gormLogger)
		if err == nil {
			break
		}
		zl.Warn("waiting_for_database",
			zap.String("driver", cfg.Storage.Driver),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if i+1 < attempts {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
	}

	if err := conn.AutoMigrate(&KVEntry{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	zl.Info("database_connected", zap.String("driver", cfg.Storage.Driver))
	return conn, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return postgres.Open(cfg.PostgresDSN()), nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Storage.SQLitePath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return sqlite.Open(cfg.Storage.SQLitePath), nil
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.Storage.Driver)
	}
}

func connect(dialector gorm.Dialector, gormLogger logger.Interface) (*gorm.DB, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return conn, nil
}
