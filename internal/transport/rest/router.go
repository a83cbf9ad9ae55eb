package rest

import (
	"net/http"
	"os"

	"quizagent/internal/repository"
	"quizagent/internal/service"
	"quizagent/internal/transport/rest/handler"
	"quizagent/internal/transport/rest/middleware"
	"quizagent/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService  *service.AuthService
	ChatService  *service.ChatService
	QuizService  *service.QuizService
	QuestionRepo repository.QuestionRepo
	WSHandler    *ws.Handler
	AudioDir     string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	chatHandler := handler.NewChatHandler(c.ChatService)
	quizHandler := handler.NewQuizHandler(c.QuizService)
	questionHandler := handler.NewQuestionHandler(c.QuestionRepo)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/chat/session", chatHandler.CreateSession).Methods("POST", "OPTIONS")
	v1.HandleFunc("/chat/send", chatHandler.Send).Methods("POST", "OPTIONS")
	v1.HandleFunc("/chat/history/{userId}", chatHandler.History).Methods("GET", "OPTIONS")
	v1.HandleFunc("/chat/history/{userId}/clear", chatHandler.ClearHistory).Methods("POST", "OPTIONS")
	v1.HandleFunc("/chat/session/{userId}", chatHandler.DeleteSession).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/chat/personas", chatHandler.Personas).Methods("GET", "OPTIONS")

	v1.HandleFunc("/quiz/start", quizHandler.Start).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/answer", quizHandler.Answer).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/next", quizHandler.Next).Methods("POST", "OPTIONS")
	v1.HandleFunc("/quiz/end", quizHandler.End).Methods("POST", "OPTIONS")

	// WebSocket chat
	if c.WSHandler != nil {
		v1.HandleFunc("/ws/chat/{userId}", c.WSHandler.ChatWS).Methods("GET")
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// TTS audio files
	r.PathPrefix("/static/audio/").Handler(
		http.StripPrefix("/static/audio/", http.FileServer(http.Dir(c.AudioDir))))

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{id}", questionHandler.Get).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
