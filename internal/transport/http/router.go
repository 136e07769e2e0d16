// Package httptransport is the thin HTTP layer over the registry services.
// Handlers decode, delegate, and translate; no business rule lives here.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recrusearch/internal/platform/metrics"
	"recrusearch/internal/platform/middleware"
)

const requestTimeout = 30 * time.Second

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Identity IdentityService
	Study    StudyService
	Consent  ConsentService
	Wallet   WalletService
	Privacy  PrivacyService
	Tokens   TokenService

	Validator middleware.JWTValidator
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// NewRouter wires every public endpoint. The token endpoint is the only
// unauthenticated route besides health and metrics; everything else requires
// a proven authority.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Latency(d.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	auth := newAuthHandler(d.Tokens, d.Validator, d.Logger)
	auth.Register(r)

	api := chi.NewRouter()
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.RequireAuth(d.Validator, d.Logger))

	newIdentityHandler(d.Identity, d.Logger).Register(api)
	newStudyHandler(d.Study, d.Logger).Register(api)
	newConsentHandler(d.Consent, d.Logger).Register(api)
	newWalletHandler(d.Wallet, d.Logger).Register(api)
	newPrivacyHandler(d.Privacy, d.Logger).Register(api)

	r.Mount("/v1", api)
	return r
}
