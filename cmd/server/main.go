package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizagent/internal/cache"
	"quizagent/internal/config"
	"quizagent/internal/repository"
	"quizagent/internal/service"
	"quizagent/internal/transport/rest"
	"quizagent/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	aiConfig := config.DefaultAIConfig()
	ttsConfig := config.DefaultTTSConfig()

	log.Printf("LLM Config:")
	log.Printf("  Chat:     %s", aiConfig.Models.Chat)
	log.Printf("  Judge:    %s", aiConfig.Models.Judge)
	log.Printf("  Classify: %s", aiConfig.Models.Classify)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:  configured")
	} else {
		log.Println("  API Key:  NOT SET (chat and judging run on fallbacks)")
	}
	if ttsConfig.IsEnabled() {
		log.Println("TTS: configured")
	} else {
		log.Println("TTS: NOT SET (responses carry no audio)")
	}

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

	db := mongoClient.Database(cfg.MongoDatabase)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Repositories and caches
	questionRepo := repository.NewQuestionRepo(db)
	userRepo := repository.NewUserRepo(db)
	sessionCache := cache.NewSessionCache(rdb)

	// Services
	sessionStore := service.NewSessionStore(userRepo, sessionCache)
	llmClient := service.NewHTTPLLMClient(aiConfig)
	ttsClient := service.TTSClient(service.NoopTTSClient{})
	if ttsConfig.IsEnabled() {
		if err := os.MkdirAll(cfg.AudioDir, 0o755); err != nil {
			log.Fatal("Failed to create audio dir:", err)
		}
		ttsClient = service.NewHTTPTTSClient(ttsConfig, cfg.AudioDir)
	}

	authSvc := service.NewAuthService()
	judgeSvc := service.NewJudgeService(llmClient, aiConfig)
	reactionSvc := service.NewReactionService(rand.NewSource(time.Now().UnixNano()))
	quizSvc := service.NewQuizService(questionRepo, sessionStore, judgeSvc, reactionSvc, cfg.TotalQuestions)
	chatSvc := service.NewChatService(sessionStore, llmClient, aiConfig, ttsClient, quizSvc)

	// Router
	container := &rest.Container{
		AuthService:  authSvc,
		ChatService:  chatSvc,
		QuizService:  quizSvc,
		QuestionRepo: questionRepo,
		WSHandler:    ws.NewHandler(chatSvc),
		AudioDir:     cfg.AudioDir,
	}
	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/chat/session")
		log.Println("  POST /v1/chat/send")
		log.Println("  GET  /v1/chat/history/{userId}")
		log.Println("  POST /v1/quiz/start")
		log.Println("  POST /v1/quiz/answer")
		log.Println("  POST /v1/quiz/next")
		log.Println("  WS   /v1/ws/chat/{userId}")

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
