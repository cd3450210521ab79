package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/promptmux/relay/app"
	"github.com/promptmux/relay/handlers"
	"github.com/promptmux/relay/middleware"
	"github.com/promptmux/relay/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()
	cfg := deps.Config

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(chimiddleware.RequestSize(cfg.Relay.MaxBodyBytes))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	multi := deps.MultiProvider()

	completionHandler := handlers.NewCompletionHandler(deps.Relay, multi, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Health, multi, deps.Logger)
	rootHandler := handlers.NewRootHandler(deps.Registry.Names(), multi, deps.Logger)

	r.Get("/", rootHandler.HandleRoot)
	r.Post("/", completionHandler.HandleCompletion)
	r.Get("/health", healthHandler.HandleHealth)

	// The smoke-test endpoint only exists when failover is in play.
	if multi {
		testHandler := handlers.NewTestHandler(deps.Relay, deps.Logger)
		r.Get("/test", testHandler.HandleTest)
	}

	// 404 handler. Unmatched methods get the same body so clients see one
	// not-found shape regardless of how they missed.
	notFound := func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "")
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}
