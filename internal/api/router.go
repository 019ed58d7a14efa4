package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/inkwell/blog-api/internal/api/handlers"
	"github.com/inkwell/blog-api/internal/auth"
	"github.com/inkwell/blog-api/internal/metrics"
	"github.com/inkwell/blog-api/internal/services"
)

// Dependencies are the collaborators the router wires into handlers.
// Authentication strategies are passed in here rather than registered
// anywhere global.
type Dependencies struct {
	Users          services.UserServiceProvider
	Articles       services.ArticleServiceProvider
	Local          *auth.LocalStrategy
	Bearer         *auth.BearerStrategy
	Tokens         *auth.TokenService
	Metrics        *metrics.Metrics
	DB             handlers.Pinger
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(deps.Metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users, deps.Metrics)
	authHandler := handlers.NewAuthHandler(deps.Local, deps.Tokens, deps.Metrics)
	articleHandler := handlers.NewArticleHandler(deps.Articles, deps.Metrics)
	requireBearer := deps.Bearer.Middleware()

	r.Get("/healthz", handlers.Healthz(deps.DB))
	r.Method("GET", "/metrics", deps.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Register)
			r.With(requireBearer).Get("/me", userHandler.GetMe)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.With(requireBearer).Post("/refresh", authHandler.Refresh)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Use(requireBearer)
			r.Get("/", articleHandler.GetAll)
			r.Post("/", articleHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", articleHandler.Get)
				r.Put("/", articleHandler.Update)
				r.Delete("/", articleHandler.Delete)
			})
		})
	})

	return r
}
