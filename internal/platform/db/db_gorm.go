// Package db はGORMによるデータベース接続（SQLite / PostgreSQL）を提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// retryInterval is the pause between connection attempts.
const retryInterval = 500 * time.Millisecond

// Config holds database connection settings.
type Config struct {
	Driver   string // "sqlite" or "postgres"
	Path     string // SQLite file path
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Opener opens a gorm.DB for a DSN.
type Opener func(dsn string) (*gorm.DB, error)

var gormConfig = &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

// BuildDSN はPostgreSQL用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// OpenDB はドライバーに応じてデータベースを開きます。
// SQLiteは親ディレクトリを作成してから開き、PostgreSQLは timeout の間リトライします。
func OpenDB(cfg Config, timeout time.Duration) (*gorm.DB, error) {
	switch cfg.Driver {
	case "", "sqlite":
		path := cfg.Path
		if path == "" {
			path = "data/dashboard.db"
		}
		if path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return ConnectWithRetry(path, timeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gormConfig)
		})
	case "postgres":
		return ConnectWithRetry(BuildDSN(cfg), timeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig)
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// ConnectWithRetry は接続に成功するか timeout を超えるまで open を繰り返します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	if open == nil {
		return nil, errors.New("db: nil opener")
	}
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		slog.Warn("DB connect failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(retryInterval)
	}
}

// Migrate はモデルのテーブルを作成・更新します。
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
