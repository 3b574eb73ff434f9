package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kings-admin/config"
	"kings-admin/database"
	"kings-admin/handlers"
	"kings-admin/logger"
	"kings-admin/repositories"
	"kings-admin/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	// Журнал модерации подключается только по флагу
	var recorder services.DecisionRecorder
	var journal handlers.Journal
	if cfg.Audit.Enabled {
		db, err := database.Connect(&cfg.Database)
		if err != nil {
			log.Fatalf("Ошибка подключения к базе данных: %v", err)
		}
		repo := repositories.NewDecisionRepository(db)
		if err := repo.Migrate(); err != nil {
			log.Fatalf("Ошибка миграции: %v", err)
		}
		recorder = repo
		journal = repo
		logger.Info("Журнал модерации включён", "database", cfg.Database.DBName)
	}

	client := services.NewRegistryClient(cfg.API.BaseURL, cfg.API.Timeout)
	store := services.NewRecordStore(client, recorder)
	view := services.NewListView(cfg.View.PageSize)

	webHandler, err := handlers.NewWebHandler(store, view, journal, cfg)
	if err != nil {
		log.Fatalf("Ошибка разбора шаблонов: %v", err)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handlers.NewRouter(webHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Первая загрузка списка, как при открытии страницы
	go store.Load(ctx)

	go func() {
		logger.Info("Веб-сервер запущен", "address", "http://localhost"+addr, "api", cfg.API.BaseURL, "page_size", cfg.View.PageSize)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска веб-сервера: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка веб-сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки веб-сервера", "error", err)
	}
}
