package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studymate-backend/internal/handlers"
	"studymate-backend/internal/middleware"
	"studymate-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	documentHandler *handlers.DocumentHandler,
	flashcardHandler *handlers.FlashcardHandler,
	studySessionHandler *handlers.StudySessionHandler,
	quizHandler *handlers.QuizHandler,
	quizAttemptHandler *handlers.QuizAttemptHandler,
	jobHandler *handlers.JobHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── User Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.Me)
			r.Put("/me", userHandler.UpdateProfile)
			r.Put("/password", userHandler.ChangePassword)
			r.Get("/stats", userHandler.Stats)
		})

		// ──── Document Routes ────
		r.Route("/documents", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", documentHandler.Upload)
			r.Get("/", documentHandler.List)
			r.Get("/{id}", documentHandler.Get)
			r.Put("/{id}", documentHandler.Update)
			r.Delete("/{id}", documentHandler.Delete)
			r.Post("/{id}/process", documentHandler.Process)
			r.Get("/{id}/summaries", documentHandler.ListSummaries)
			r.Post("/{id}/summaries", documentHandler.GenerateSummary)
		})

		// ──── Flashcard Routes ────
		r.Route("/flashcard-sets", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", flashcardHandler.CreateSet)
			r.Get("/", flashcardHandler.ListSets)
			r.Get("/{id}", flashcardHandler.GetSet)
			r.Put("/{id}", flashcardHandler.UpdateSet)
			r.Delete("/{id}", flashcardHandler.DeleteSet)
			r.Post("/{id}/cards", flashcardHandler.CreateCard)
			r.Put("/{id}/cards/{cardID}", flashcardHandler.UpdateCard)
			r.Delete("/{id}/cards/{cardID}", flashcardHandler.DeleteCard)
		})

		// ──── Study Session Routes ────
		r.Route("/study-sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", studySessionHandler.Start)
			r.Get("/{id}", studySessionHandler.Get)
			r.Post("/{id}/review", studySessionHandler.Review)
			r.Post("/{id}/complete", studySessionHandler.Complete)
		})

		// ──── Quiz Routes ────
		r.Route("/quizzes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", quizHandler.Create)
			r.Get("/", quizHandler.List)
			r.Get("/{id}", quizHandler.Get)
			r.Put("/{id}", quizHandler.Update)
			r.Delete("/{id}", quizHandler.Delete)
			r.Post("/{id}/questions", quizHandler.CreateQuestion)
			r.Put("/{id}/questions/{questionID}", quizHandler.UpdateQuestion)
			r.Delete("/{id}/questions/{questionID}", quizHandler.DeleteQuestion)
			r.Post("/{id}/attempts", quizAttemptHandler.Start)
		})

		r.Route("/quiz-attempts", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/{id}/answers", quizAttemptHandler.SubmitAnswer)
			r.Post("/{id}/complete", quizAttemptHandler.Complete)
			r.Get("/{id}/results", quizAttemptHandler.Results)
		})

		// ──── Job Routes ────
		r.Route("/jobs", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/{id}", jobHandler.Get)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
