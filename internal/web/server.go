// Package web serves the rental company's customer-facing site: car
// browsing and booking, reservation management, and the conversational
// support assistant.
package web

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/agent"
	"github.com/Doumiri-Ali/AI-AGENTS-Costumer-Support-demo/internal/rental"
)

// Responder produces the assistant's reply for one prompt on a thread.
type Responder interface {
	Respond(ctx context.Context, threadID, prompt string) string
}

// WebServer holds the handlers and shared state for the site.
type WebServer struct {
	store     *rental.Store
	threads   *agent.ThreadStore
	responder Responder
	sessions  *sessionStore
	templates map[string]*template.Template
	logger    *slog.Logger
}

// NewWebServer creates the web server. responder may be nil when the
// assistant is not configured; the support page then reports that.
func NewWebServer(store *rental.Store, threads *agent.ThreadStore, responder Responder, logger *slog.Logger) *WebServer {
	return &WebServer{
		store:     store,
		threads:   threads,
		responder: responder,
		sessions:  newSessionStore(),
		templates: loadTemplates(),
		logger:    logger,
	}
}

// Routes returns the site's routing table.
func (s *WebServer) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /register", s.handleRegisterPage)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.HandleFunc("GET /", s.requireUser(s.handleHome))
	mux.HandleFunc("POST /book", s.requireUser(s.handleBook))

	mux.HandleFunc("GET /reservations", s.requireUser(s.handleReservations))
	mux.HandleFunc("POST /reservations/confirm", s.requireUser(s.handleConfirm))
	mux.HandleFunc("POST /reservations/cancel", s.requireUser(s.handleCancel))
	mux.HandleFunc("POST /reservations/update", s.requireUser(s.handleUpdate))

	mux.HandleFunc("GET /support", s.requireUser(s.handleSupportPage))
	mux.HandleFunc("POST /support", s.requireUser(s.handleSupportMessage))

	mux.HandleFunc("GET /faq", s.requireUser(s.handleFAQ))
	mux.HandleFunc("GET /contact", s.requireUser(s.handleContactPage))
	mux.HandleFunc("POST /contact", s.requireUser(s.handleContact))

	return s.withLogging(mux)
}

// withLogging logs each request with its duration.
func (s *WebServer) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
