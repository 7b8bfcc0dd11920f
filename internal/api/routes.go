package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"regportal/internal/models"
	"regportal/internal/ratelimit"
)

// RouteOption configures optional route behavior.
type RouteOption func(*mux.Router)

// WithOTelMiddleware adds OpenTelemetry HTTP instrumentation middleware.
func WithOTelMiddleware(serviceName string) RouteOption {
	return func(r *mux.Router) {
		r.Use(otelmux.Middleware(serviceName,
			otelmux.WithFilter(func(r *http.Request) bool {
				return r.URL.Path != "/health" &&
					r.URL.Path != "/api/v1/health" &&
					r.URL.Path != "/metrics"
			}),
		))
	}
}

// SetupRoutes configures the HTTP routes for the portal API. The registry
// may be nil, in which case rate limiting middleware passes through.
func SetupRoutes(handlers *Handlers, config *models.Config, registry *ratelimit.Registry, opts ...RouteOption) *mux.Router {
	router := mux.NewRouter()

	for _, opt := range opts {
		opt(router)
	}

	limited := func(rule ratelimit.Rule, handler http.HandlerFunc) http.Handler {
		return ratelimit.Middleware(registry, rule)(handler)
	}

	api := router.PathPrefix("/api/v1").Subrouter()

	// Auth endpoints. Each carries its own quota; the tightest ones guard
	// email-sending operations.
	authAPI := api.PathPrefix("/auth").Subrouter()
	authAPI.Handle("/register", limited(ratelimit.RuleRegister, handlers.Register)).Methods("POST")
	authAPI.Handle("/login", limited(ratelimit.RuleLogin, handlers.Login)).Methods("POST")
	authAPI.Handle("/verify-email", limited(ratelimit.RuleVerifyEmail, handlers.VerifyEmail)).Methods("POST")
	authAPI.Handle("/resend-verification", limited(ratelimit.RuleResendVerification, handlers.ResendVerification)).Methods("POST")
	authAPI.Handle("/forgot-password", limited(ratelimit.RuleForgotPassword, handlers.ForgotPassword)).Methods("POST")
	authAPI.Handle("/reset-password", limited(ratelimit.RuleForgotPassword, handlers.ResetPassword)).Methods("POST")
	authAPI.HandleFunc("/logout", handlers.Logout).Methods("POST")

	// Session-authenticated account endpoints.
	meAPI := api.PathPrefix("/auth").Subrouter()
	meAPI.Use(sessionMiddleware(handlers.authService))
	meAPI.HandleFunc("/me", handlers.Me).Methods("GET")
	meAPI.HandleFunc("/locale", handlers.UpdateLocale).Methods("PUT")

	// Public company register endpoints.
	companiesAPI := api.PathPrefix("/companies").Subrouter()
	companiesAPI.Handle("/search", limited(ratelimit.RuleSearch, handlers.SearchCompanies)).Methods("GET")
	companiesAPI.Handle("/compare", limited(ratelimit.RuleCompare, handlers.CompareCompanies)).Methods("POST")
	companiesAPI.Handle("/batch", limited(ratelimit.RuleBatch, handlers.BatchCompanies)).Methods("POST")
	companiesAPI.Handle("/{id}", limited(ratelimit.RuleCompanyDetail, handlers.GetCompany)).Methods("GET")

	api.HandleFunc("/cron/cleanup", handlers.CronCleanup).Methods("POST")

	router.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	router.HandleFunc("/api/v1/health", handlers.HealthCheck).Methods("GET")

	router.Use(maintenanceMiddleware(config.App.SiteEnabled))
	router.Use(loggingMiddleware)
	router.Use(recoveryMiddleware)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		errorResp := models.NewErrorResponse("Method not allowed", models.ErrorCodeBadRequest)
		json.NewEncoder(w).Encode(errorResp)
	})

	return router
}
