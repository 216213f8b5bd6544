package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var PostgresDB *gorm.DB

// PostgresPool sizes the connection pool. A full rematch sweep holds one
// connection per recompute, request traffic shares the rest.
type PostgresPool struct {
	MaxOpen       int
	MaxIdle       int
	MaxLifetime   time.Duration
	SlowThreshold time.Duration
}

func LoadPostgresPool() (PostgresPool, error) {
	p := PostgresPool{MaxOpen: 50, MaxIdle: 10}
	var err error
	if p.MaxOpen, err = intEnv("POSTGRES_MAX_OPEN_CONNS", p.MaxOpen); err != nil {
		return p, err
	}
	if p.MaxIdle, err = intEnv("POSTGRES_MAX_IDLE_CONNS", p.MaxIdle); err != nil {
		return p, err
	}
	if p.MaxLifetime, err = durationEnv("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return p, err
	}
	// match upserts are single-row; anything slower is worth a warning
	if p.SlowThreshold, err = durationEnv("POSTGRES_SLOW_QUERY", 200*time.Millisecond); err != nil {
		return p, err
	}
	if p.MaxIdle > p.MaxOpen {
		p.MaxIdle = p.MaxOpen
	}
	return p, nil
}

func InitPostgres(log *logrus.Logger) error {
	uri := os.Getenv("POSTGRES_URI")
	if uri == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}
	pool, err := LoadPostgresPool()
	if err != nil {
		return err
	}

	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{
		// unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
		// the engine repeats the same upsert and delete per pair
		PrepareStmt: true,
		Logger: gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             pool.SlowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)

	PostgresDB = db
	return nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}
