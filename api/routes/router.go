package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/packfinderz-loyalty/api/controllers"
	"github.com/angelmondragon/packfinderz-loyalty/api/middleware"
	"github.com/angelmondragon/packfinderz-loyalty/internal/accounts"
	checkoutsvc "github.com/angelmondragon/packfinderz-loyalty/internal/checkout"
	"github.com/angelmondragon/packfinderz-loyalty/internal/ledger"
	"github.com/angelmondragon/packfinderz-loyalty/internal/loyalty"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/config"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/logger"
	"github.com/angelmondragon/packfinderz-loyalty/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	policy loyalty.Policy,
	checkoutService checkoutsvc.Service,
	accountsService accounts.Service,
	ledgerService ledger.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.Checkout.RateLimitWindow,
		cfg.Checkout.RateLimitPerIP,
		cfg.Checkout.RateLimitPerCustomer,
	)

	readiness := map[string]controllers.Pinger{"database": dbP}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/loyalty", func(r chi.Router) {
			r.Post("/accrual", controllers.LoyaltyAccrual(logg))
			r.Post("/discount", controllers.LoyaltyDiscount(policy, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			finalize := chi.Chain()
			if redisClient != nil {
				r.Use(middleware.RateLimit(checkoutPolicy, redisClient, logg))
				finalize = chi.Chain(middleware.Idempotency(redisClient, middleware.FinalizeReplayTTL, logg))
			}
			r.Post("/quote", controllers.CheckoutQuote(checkoutService, logg))
			r.With(finalize...).Post("/finalize", controllers.CheckoutFinalize(checkoutService, logg))
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/points", controllers.PointsBalance(accountsService, logg))
			r.Get("/history/purchases", controllers.PurchaseHistory(ledgerService, logg))
			r.Get("/history/points", controllers.PointsHistory(ledgerService, logg))
		})
	})

	return r
}
