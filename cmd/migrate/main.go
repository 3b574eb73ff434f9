package main

import (
	"fmt"
	"log"

	"kings-admin/config"
	"kings-admin/database"
	"kings-admin/repositories"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}

	fmt.Printf("✓ Подключено к БД: %s\n", cfg.Database.DBName)

	if err := repositories.NewDecisionRepository(db).Migrate(); err != nil {
		log.Fatalf("Ошибка миграции: %v", err)
	}

	fmt.Println("✓ Миграция успешно применена!")
	fmt.Println("✓ Таблицы moderation_decisions и latest_decisions созданы через GORM")
}
