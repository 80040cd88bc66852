package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/accounts-api/internal/api"
	apiMiddleware "github.com/phrazzld/accounts-api/internal/api/middleware"
	"github.com/phrazzld/accounts-api/internal/service"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)

	authHandler := api.NewAuthHandler(app.accounts)
	accountHandler := api.NewAccountHandler(app.accounts)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Shared across the endpoints that send mail to arbitrary addresses.
	mailLimiter := apiMiddleware.NewRateLimiter(app.config.Server.RateLimitPerMinute)

	// Public endpoints
	r.Post("/register", authHandler.Register)
	r.Get("/activate/{token}", authHandler.Activate)
	r.Post("/login", authHandler.Login)
	r.Post("/token/refresh", authHandler.RefreshToken)
	r.Put("/reset-password/{uid}/{token}", authHandler.ConfirmPasswordReset)

	r.Group(func(r chi.Router) {
		r.Use(mailLimiter.Handler)
		r.Get("/resend-activation/{email}", authHandler.ResendActivation)
		r.Post("/reset-password", authHandler.RequestPasswordReset)
	})

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/user", accountHandler.GetUser)
		r.Put("/change-first-name", accountHandler.ChangeField(service.FieldFirstName))
		r.Put("/change-last-name", accountHandler.ChangeField(service.FieldLastName))
		r.Put("/change-username", accountHandler.ChangeField(service.FieldUsername))
		r.Put("/change-phone-number", accountHandler.ChangeField(service.FieldPhoneNumber))
		r.Put("/change-password", accountHandler.ChangePassword)
		r.Post("/change-email", accountHandler.RequestEmailChange)
		r.Put("/change-email/{uid}/{token}", accountHandler.ConfirmEmailChange)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
