// Package httpapi exposes the engine over a JSON HTTP surface. Mutating
// routes require a bearer token; the token's subject becomes the
// authenticated principal the engine checks against. Query routes are public.
package httpapi

import (
	"net/http"
	"time"

	"github.com/airtimehq/airtime/internal/logging"
	"github.com/airtimehq/airtime/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the engine's operations onto an http.ServeMux.
type Router struct {
	mux           *http.ServeMux
	svc           *services.Service
	secretKey     string
	tokenValidity time.Duration
	logger        logging.Logger
	now           func() uint64
}

// NewRouter builds the full route table. gatherer feeds the /metrics
// endpoint; pass the registry the event metrics publisher was registered on.
func NewRouter(svc *services.Service, secretKey string, tokenValidity time.Duration,
	gatherer prometheus.Gatherer, logger logging.Logger) *Router {
	r := &Router{
		mux:           http.NewServeMux(),
		svc:           svc,
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
		logger:        logger,
		now:           func() uint64 { return uint64(time.Now().Unix()) },
	}

	r.mux.HandleFunc("GET /healthz", r.handleHealth)
	r.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.mux.HandleFunc("POST /api/tokens", r.handleIssueToken)

	r.mux.HandleFunc("PUT /api/packages/{id}", r.handleSetPackage)
	r.mux.HandleFunc("GET /api/packages/{id}", r.handleGetPackage)
	r.mux.HandleFunc("GET /api/packages", r.handleListPackages)

	r.mux.HandleFunc("POST /api/orders", r.handleBuyOrder)
	r.mux.HandleFunc("POST /api/users/{owner}/orders/{id}/grant", r.handleGrant)
	r.mux.HandleFunc("GET /api/users/{owner}/orders", r.handleListOrders)
	r.mux.HandleFunc("GET /api/users/{owner}/packages", r.handleUserPackages)

	r.mux.HandleFunc("POST /api/session/start", r.handleStart)
	r.mux.HandleFunc("POST /api/session/pause", r.handlePause)
	r.mux.HandleFunc("POST /api/orders/{id}/start", r.handleStartOrder)
	r.mux.HandleFunc("POST /api/orders/{id}/pause", r.handlePauseOrder)

	r.mux.HandleFunc("GET /api/users/{owner}/session", r.handleGetSession)
	r.mux.HandleFunc("GET /api/users/{owner}/orders/{id}/session", r.handleGetOrderSession)
	r.mux.HandleFunc("GET /api/users/{owner}/remaining", r.handleRemaining)
	r.mux.HandleFunc("GET /api/users/{owner}/orders/{id}/remaining", r.handleRemainingByOrder)
	r.mux.HandleFunc("GET /api/users/{owner}/active", r.handleIsActive)
	r.mux.HandleFunc("GET /api/users/{owner}/orders/{id}/active", r.handleIsOrderActive)
	r.mux.HandleFunc("GET /api/users/{owner}/orders/active", r.handleActiveOrders)
	r.mux.HandleFunc("GET /api/users/{owner}/access", r.handleGetAccess)

	return r
}

// Handler returns the mux wrapped in the bearer token and request logging
// middleware.
func (r *Router) Handler() http.Handler {
	return r.withRequestLog(r.withBearerSubject(r.mux))
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
