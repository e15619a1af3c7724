package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/beewords/beewords-api/internal/config"
	"github.com/beewords/beewords-api/internal/middleware"
	"github.com/beewords/beewords-api/internal/modules/user"
	"github.com/beewords/beewords-api/internal/session"
)

// New creates and configures a new server instance.
func New(cfg *config.Config, log *slog.Logger, userHandler *user.Handler, tokens *user.TokenIssuer, revoker session.Revoker) chi.Router {
	// Create a new Chi router and Huma API.
	router := chi.NewMux()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.ClientIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	apiConfig := huma.DefaultConfig("BeeWords API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(router, apiConfig)

	authMW := middleware.JWTAuthHuma(tokens, revoker, log)
	userHandler.RegisterRoutes(api, authMW)

	// Register a simple health check endpoint.
	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health Check",
		Description: "Responds with the server's health status.",
	}, func(ctx context.Context, input *struct{}) (*struct {
		Body struct {
			Status string `json:"status"`
		}
	}, error) {
		resp := &struct {
			Body struct {
				Status string `json:"status"`
			}
		}{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	return router
}
