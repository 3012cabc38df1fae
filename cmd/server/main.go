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
	"go.uber.org/zap"

	"github.com/opsych/ophtheon/internal/cache"
	"github.com/opsych/ophtheon/internal/config"
	"github.com/opsych/ophtheon/internal/protocol"
	"github.com/opsych/ophtheon/internal/repository"
	"github.com/opsych/ophtheon/internal/service"
	"github.com/opsych/ophtheon/internal/transport/rest"
	"github.com/opsych/ophtheon/internal/transport/ws"
	"github.com/opsych/ophtheon/internal/tts"
)

// @title Ophtheon Interview API
// @version 1.0
// @description Comparison-question interview protocol and exam narration server
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	ttsConfig := config.DefaultTTSConfig()
	if ttsConfig.IsEnabled() {
		logger.Info("speech synthesis configured",
			zap.String("voice", ttsConfig.Voice), zap.String("language", ttsConfig.Language))
	} else {
		logger.Warn("TTS_API_KEY not set, narration uses duration estimates only")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	logger.Info("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("Failed to ping Redis", zap.Error(err))
	}
	logger.Info("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	logger.Info("WebSocket hub started")

	// Initialize repositories
	interviewRepo := repository.NewInterviewRepo(db)
	examRepo := repository.NewExamRepo(db)

	// Initialize caches
	sessionCache := cache.NewSessionCache(rdb)
	examCache := cache.NewExamCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(cfg)
	machine := protocol.NewMachine(cfg.Protocol, nil)
	interviewSvc := service.NewInterviewService(machine, sessionCache, interviewRepo, logger)
	synth := tts.NewClient(ttsConfig, logger)
	examSvc := service.NewExamService(examCache, examRepo, synth, cfg.Protocol, logger)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	examSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:      authSvc,
		InterviewService: interviewSvc,
		ExamService:      examSvc,
		WSHub:            wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Abort in-flight exam runs before closing listeners
	examSvc.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
