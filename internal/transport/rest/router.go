package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/peerconnect/pairing-service/internal/pairing"
	"github.com/peerconnect/pairing-service/internal/subscription"
	"github.com/peerconnect/pairing-service/internal/transport/middleware"
	"github.com/peerconnect/pairing-service/internal/transport/swagger"
	"github.com/peerconnect/pairing-service/internal/user"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, subscriptionHandler *subscription.Handler, userHandler *user.Handler, pairingHandler *pairing.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if subscriptionHandler != nil {
			r.Route("/subscriptions", func(sr chi.Router) {
				sr.Get("/", subscriptionHandler.GetSubscriptions)
				sr.Post("/", subscriptionHandler.CreateSubscription)
				sr.Get("/{id}", subscriptionHandler.GetSubscription)
				sr.Put("/{id}", subscriptionHandler.UpdateSubscription)
				sr.Delete("/{id}", subscriptionHandler.DeactivateSubscription)

				if pairingHandler != nil {
					sr.Post("/{id}/runs", pairingHandler.TriggerRun)
					sr.Get("/{id}/meetings", pairingHandler.GetMeetings)
				}
			})
		}

		if userHandler != nil {
			r.Route("/users", func(ur chi.Router) {
				ur.Get("/", userHandler.GetUsers)
				ur.Post("/", userHandler.CreateUser)
				ur.Get("/{id}", userHandler.GetUser)
				ur.Post("/{id}/subscriptions", userHandler.Subscribe)
				ur.Delete("/{id}/subscriptions/{subscriptionID}", userHandler.Unsubscribe)
			})
		}
	})
}
