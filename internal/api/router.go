package api

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/task-manager-be/internal/api/handlers"
	"github.com/isdelr/task-manager-be/internal/auth"
	"github.com/isdelr/task-manager-be/internal/metrics"
	"github.com/isdelr/task-manager-be/internal/models"
	"github.com/isdelr/task-manager-be/internal/services"
	"github.com/prometheus/client_golang/prometheus"
)

// Dependencies are the collaborators the router wires into handlers.
// Metrics, Gatherer, Docs and Static are optional.
type Dependencies struct {
	UserService services.UserServiceProvider
	TaskService services.TaskServiceProvider
	Tokens      *auth.TokenService
	Guard       *auth.Guard
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Docs        *handlers.DocsHandler
	Static      fs.FS
	CORSOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(deps.UserService, deps.Tokens)
	taskHandler := handlers.NewTaskHandler(deps.TaskService)

	r.Get("/health", handlers.Health)
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}
	if deps.Docs != nil {
		r.Get("/api-docs", deps.Docs.UI)
		r.Get("/api-docs/openapi.json", deps.Docs.JSON)
	}

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", handlers.Welcome)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(deps.Guard.Authenticate).Get("/me", authHandler.GetMe)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(deps.Guard.Authenticate)

			r.Get("/", taskHandler.GetAll)
			r.Post("/", taskHandler.Create)
			r.With(auth.RequireRole(models.RoleAdmin)).Get("/admin/all", taskHandler.GetAllAdmin)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Put("/", taskHandler.Update)
				r.Delete("/", taskHandler.Delete)
			})
		})
	})

	if deps.Static != nil {
		mountFrontend(r, deps.Static)
	}

	return r
}

// mountFrontend serves index.html at the root and the asset directory
// below /assets.
func mountFrontend(r chi.Router, static fs.FS) {
	files := http.FileServer(http.FS(static))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, static, "index.html")
	})
	r.Get("/assets/*", files.ServeHTTP)
}
