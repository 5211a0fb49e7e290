package rest

import (
	"net/http"

	"socialgram-backend/infrastructure/di"
	"socialgram-backend/interfaces/http/rest/handlers"
	"socialgram-backend/interfaces/http/rest/middleware"
	pkgerrors "socialgram-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{container: container}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	c := rt.container
	logger := c.Logger

	errorHandler := pkgerrors.NewErrorHandler(logger, c.Config.IsDevelopment())

	authHandler := handlers.NewAuthHandler(c.AccountService, errorHandler, logger)
	userHandler := handlers.NewUserHandler(c.AccountService, c.GraphService, c.MediaStore, errorHandler, logger)
	postHandler := handlers.NewPostHandler(c.PostService, errorHandler, logger)
	feedHandler := handlers.NewFeedHandler(c.FeedService, c.AccountService, errorHandler, logger)

	authenticate := middleware.Authenticate(c.TokenService, logger)

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(logger))

	if c.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	router.Route("/api", func(r chi.Router) {
		// Registration and login take no token
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/profile/{accountID}", userHandler.GetProfile)
			r.Put("/update", userHandler.UpdateProfile)
			r.Post("/follows/{accountID}", userHandler.Follow)
			r.Post("/unfollows/{accountID}", userHandler.Unfollow)
			r.Get("/followers", userHandler.Followers)
			r.Get("/following", userHandler.Following)
			r.Get("/{accountID}", userHandler.GetUser)
		})

		r.Route("/post", func(r chi.Router) {
			// Single posts and comment lists are readable without a token
			r.Get("/get/{postID}", postHandler.Get)
			r.Get("/{postID}/comments", postHandler.ListComments)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/add", postHandler.Create)
				r.Get("/user/{accountID}", postHandler.ListByOwner)
				r.Put("/update/{postID}", postHandler.Update)
				r.Delete("/delete/{postID}", postHandler.Delete)
				r.Put("/likes/{postID}", postHandler.Like)
				r.Put("/dislikes/{postID}", postHandler.Unlike)
				r.Post("/{postID}/comment", postHandler.AddComment)
			})
		})

		r.Route("/feed", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/get", feedHandler.Feed)
			r.Get("/popular", feedHandler.Popular)
			r.Get("/explore", feedHandler.Explore)
			r.Get("/search", feedHandler.Search)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
