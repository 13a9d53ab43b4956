package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wellscreen/config"
	"wellscreen/internal/cache"
	"wellscreen/internal/catalog"
	"wellscreen/internal/repository"
	"wellscreen/internal/service"
	"wellscreen/internal/transport/rest"
	"wellscreen/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Reference catalog: fixed questionnaire data, injected everywhere
	cat := catalog.Default()
	log.Printf("Catalog loaded: %d questions, %d programs", cat.Size(), len(cat.Programs()))

	// WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Repositories and caches
	sessionRepo := repository.NewSessionRepo(db)
	resultCache := cache.NewResultCache(rdb)

	// Services
	sessionSvc := service.NewSessionService(sessionRepo, cat)
	resultSvc := service.NewResultService(sessionRepo, resultCache, cat)

	// Inject notifier (wsHub implements service.Notifier)
	sessionSvc.SetNotifier(wsHub)
	resultSvc.SetNotifier(wsHub)

	// Router
	container := &rest.Container{
		SessionService: sessionSvc,
		ResultService:  resultSvc,
		WSHub:          wsHub,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/sessions")
		log.Println("  GET  /v1/sessions/{id}")
		log.Println("  POST /v1/sessions/{id}/answers")
		log.Println("  POST /v1/sessions/{id}/previous")
		log.Println("  POST /v1/sessions/{id}/finish")
		log.Println("  GET  /v1/sessions/{id}/status")
		log.Println("  GET  /v1/sessions/{id}/result")
		log.Println("  POST /v1/sessions/{id}/result/recalculate")
		log.Println("  WS   /v1/ws/dashboard")
		log.Println("  WS   /v1/ws/sessions/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
