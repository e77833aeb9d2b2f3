package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arcthaneaidelta/Docx-generation-with-database/api/handlers"
	"github.com/arcthaneaidelta/Docx-generation-with-database/api/routes"
	"github.com/arcthaneaidelta/Docx-generation-with-database/config"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/docx"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/generator"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/service/submission"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/store"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/queue"
)

func main() {
	// init logger
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

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

	// Without Redis the background units run in-process.
	var dispatcher queue.Dispatcher
	var local *queue.LocalDispatcher
	if cfg.Redis.Addr != "" {
		asynqDispatcher := queue.NewAsynqDispatcher(queue.AsynqConfig{
			RedisAddr: cfg.Redis.Addr,
			RedisDB:   cfg.Redis.DB,
			Timeout:   cfg.Webhook.Timeout,
		})
		defer asynqDispatcher.Close()
		dispatcher = asynqDispatcher
	} else {
		log.Warn("REDIS_ADDR not set, running background generation in-process")
		local = queue.NewLocalDispatcher()
		dispatcher = local
	}

	svc := submission.NewService(st, gen, dispatcher, log)
	if local != nil {
		local.Bind(svc.Process)
	}

	renderer := docx.NewRenderer(cfg.Template.Path)
	if !renderer.Info().Exists {
		log.Warn("Template file not found, letter rendering will be degraded",
			logger.String("path", cfg.Template.Path),
		)
	}

	h := handlers.NewHandlers(svc, renderer, log)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.SetupRoutes(r, h)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	// start server
	go func() {
		log.Info("Server starting", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}

	if local != nil {
		// Let in-process generation units finish before the store closes.
		local.Wait()
	}
}
