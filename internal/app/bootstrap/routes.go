// internal/app/bootstrap/routes.go
package bootstrap

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	activitiesfeature "github.com/unimove/unimove/internal/app/features/activities"
	commentsfeature "github.com/unimove/unimove/internal/app/features/comments"
	healthfeature "github.com/unimove/unimove/internal/app/features/health"
	ordersfeature "github.com/unimove/unimove/internal/app/features/orders"
	usersfeature "github.com/unimove/unimove/internal/app/features/users"
	activitystore "github.com/unimove/unimove/internal/app/store/activities"
	commentstore "github.com/unimove/unimove/internal/app/store/comments"
	orderstore "github.com/unimove/unimove/internal/app/store/orders"
	userstore "github.com/unimove/unimove/internal/app/store/users"
	"github.com/unimove/unimove/internal/app/system/auth"
	"github.com/unimove/unimove/internal/app/system/httplog"
	"github.com/unimove/unimove/internal/app/system/respond"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. UniMove builds the token manager, the
// bearer-auth verifier, one store per collection, and mounts the feature
// routers under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTIssuer, appCfg.JWTExpiry, appCfg.JWTRefreshExpiry)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.UniMoveMongoDatabase
	users := userstore.New(db)
	activities := activitystore.New(db)
	orders := orderstore.New(db)
	comments := commentstore.New(db)

	// The verifier fetches the user fresh on every request so role
	// changes and disabled accounts take effect immediately.
	verifier := auth.NewVerifier(tokens, users, logger)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.Middleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", serveRoot)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.UniMoveMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/users", usersfeature.Routes(usersfeature.NewHandler(users, tokens, logger), verifier))
		r.Mount("/activities", activitiesfeature.Routes(activitiesfeature.NewHandler(activities, users, logger), verifier))
		r.Mount("/orders", ordersfeature.Routes(ordersfeature.NewHandler(orders, activities, users, logger), verifier))
		r.Mount("/comments", commentsfeature.Routes(commentsfeature.NewHandler(comments, activities, orders, users, logger), verifier))
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respond.NotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r, nil
}

const apiVersion = "1.0.0"

// serveRoot answers GET / with basic service info so a bare probe of the
// server gets something better than a 404.
func serveRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "UniMove API Server",
		"version": apiVersion,
		"docs":    "/health",
	})
}
