package database

import (
	"database/sql"
	"fmt"
	"kings-admin/config"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open открывает подключение к журналу модерации через lib/pq
func Open(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть подключение к базе данных: %w", err)
	}

	// Проверяем подключение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	return db, nil
}

// NewGorm оборачивает готовое подключение в GORM
func NewGorm(sqlDB *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных через GORM: %w", err)
	}
	return db, nil
}

// Connect открывает подключение и сразу оборачивает его в GORM
func Connect(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	sqlDB, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	db, err := NewGorm(sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}
