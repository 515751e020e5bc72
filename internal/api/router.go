package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/baharkarakas/taskmanager-backend/internal/api/handlers"
	"github.com/baharkarakas/taskmanager-backend/internal/config"
	"github.com/baharkarakas/taskmanager-backend/internal/metrics"
	"github.com/baharkarakas/taskmanager-backend/internal/middleware"
	"github.com/baharkarakas/taskmanager-backend/internal/services"
)

func NewRouter(cfg config.Config, us *services.UserService, ts *services.TaskService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	uh := handlers.NewUserHandler(us, cfg.AvatarMaxBytes)
	th := handlers.NewTaskHandler(ts)
	authn := middleware.NewAuthMiddleware(us)

	// ---------- public ----------
	r.Post("/users", uh.Signup)
	r.Post("/users/login", uh.Login)
	r.Get("/users/{id}/avatar", uh.Avatar)

	// ---------- authenticated ----------
	r.Group(func(r chi.Router) {
		r.Use(authn.Auth)

		r.Post("/users/logout", uh.Logout)
		r.Post("/users/logoutAll", uh.LogoutAll)
		r.Get("/users/me", uh.Me)
		r.Patch("/users/me", uh.UpdateMe)
		r.Delete("/users/me", uh.DeleteMe)
		r.Post("/users/me/avatar", uh.UploadAvatar)
		r.Delete("/users/me/avatar", uh.DeleteAvatar)

		r.Post("/tasks", th.Create)
		r.Get("/tasks", th.List)
		r.Get("/tasks/{id}", th.Get)
		r.Patch("/tasks/{id}", th.Update)
		r.Delete("/tasks/{id}", th.Delete)
	})

	return r
}
