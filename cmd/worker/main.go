package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/arcthaneaidelta/Docx-generation-with-database/config"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/generator"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/service/submission"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/store"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/queue"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/worker"
)

func main() {
	// init logger
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	if cfg.Redis.Addr == "" {
		log.Fatal("REDIS_ADDR is required for the worker process")
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path, log)
	if err != nil {
		log.Fatal("Failed to open submission store", logger.Error(err))
	}
	defer st.Close()

	gen := generator.NewClient(generator.Config{
		GenerateURL: cfg.Webhook.GenerateURL,
		ChatURL:     cfg.Webhook.ChatURL,
		Timeout:     cfg.Webhook.Timeout,
	}, log)

	dispatcher := queue.NewAsynqDispatcher(queue.AsynqConfig{
		RedisAddr: cfg.Redis.Addr,
		RedisDB:   cfg.Redis.DB,
		Timeout:   cfg.Webhook.Timeout,
	})
	defer dispatcher.Close()

	svc := submission.NewService(st, gen, dispatcher, log)

	w, err := worker.NewLetterWorker(&worker.Config{
		RedisAddr:   cfg.Redis.Addr,
		RedisDB:     cfg.Redis.DB,
		Concurrency: cfg.Worker.Concurrency,
		Queues:      map[string]int{"default": 1},
	}, svc, log)
	if err != nil {
		log.Fatal("Failed to create worker", logger.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		log.Fatal("Failed to start worker", logger.Error(err))
	}
	log.Info("Worker started",
		logger.String("redis", cfg.Redis.Addr),
		logger.Int("concurrency", cfg.Worker.Concurrency),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")
	cancel()
	if err := w.Stop(); err != nil {
		log.Error("Worker shutdown error", logger.Error(err))
	}
}
