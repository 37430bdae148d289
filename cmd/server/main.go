package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studymate-backend/internal/config"
	"studymate-backend/internal/database"
	"studymate-backend/internal/handlers"
	"studymate-backend/internal/middleware"
	"studymate-backend/internal/repository"
	"studymate-backend/internal/router"
	"studymate-backend/internal/services"
	"studymate-backend/internal/websocket"
	"studymate-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting StudyMate Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	docRepo := repository.NewDocumentRepo(pool)
	flashcardRepo := repository.NewFlashcardRepo(pool)
	studySessionRepo := repository.NewStudySessionRepo(pool)
	quizRepo := repository.NewQuizRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, emailService)
	jobService := services.NewJobService(jobRepo, redisClients.Queue)
	attemptService := services.NewAttemptService(quizRepo)
	studySessionService := services.NewStudySessionService(studySessionRepo, flashcardRepo)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo, authService)
	documentHandler := handlers.NewDocumentHandler(docRepo, jobService, cfg.StoragePath, cfg.MaxUploadSize)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardRepo)
	studySessionHandler := handlers.NewStudySessionHandler(studySessionService)
	quizHandler := handlers.NewQuizHandler(quizRepo)
	quizAttemptHandler := handlers.NewQuizAttemptHandler(attemptService)
	jobHandler := handlers.NewJobHandler(jobService)

	// ──── Step 5: Start Job Worker Pool ────
	workerPool := worker.NewPool(redisClients.Queue, jobRepo, docRepo, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		userHandler,
		documentHandler,
		flashcardHandler,
		studySessionHandler,
		quizHandler,
		quizAttemptHandler,
		jobHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ StudyMate Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
