package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/swipebay/marketplace-service/internal/platform/logger"
)

// Manager holds the service's Prometheus metrics.
type Manager struct {
	Registry *prometheus.Registry

	ListingsCreatedTotal prometheus.Counter
	ListingsSoldTotal    prometheus.Counter
	FeedConsumesTotal    *prometheus.CounterVec // labeled by decision
	FeedUndosTotal       prometheus.Counter
	WishlistAddsTotal    prometheus.Counter
	APIErrorsTotal       *prometheus.CounterVec
	APILatency           *prometheus.HistogramVec
}

// NewManager initializes and registers the service metrics on a private
// registry. Hyphens in the namespace are mapped to underscores so a service
// name like "marketplace-service" yields legal metric names.
func NewManager(namespace string) *Manager {
	namespace = strings.ReplaceAll(namespace, "-", "_")
	registry := prometheus.NewRegistry()

	listingsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	})
	listingsSold := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listings_sold_total",
		Help:      "Total number of listings marked as sold.",
	})
	feedConsumes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_consumes_total",
		Help:      "Total number of feed cards consumed, by decision.",
	}, []string{"decision"})
	feedUndos := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_undos_total",
		Help:      "Total number of feed consume undos.",
	})
	wishlistAdds := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wishlist_adds_total",
		Help:      "Total number of wishlist additions.",
	})
	apiErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_errors_total",
		Help:      "Total number of API errors by route and status.",
	}, []string{"route", "status"})
	apiLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_latency_seconds",
		Help:      "Latency of API requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		listingsCreated,
		listingsSold,
		feedConsumes,
		feedUndos,
		wishlistAdds,
		apiErrors,
		apiLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:             registry,
		ListingsCreatedTotal: listingsCreated,
		ListingsSoldTotal:    listingsSold,
		FeedConsumesTotal:    feedConsumes,
		FeedUndosTotal:       feedUndos,
		WishlistAddsTotal:    wishlistAdds,
		APIErrorsTotal:       apiErrors,
		APILatency:           apiLatency,
	}
}

// StartServer exposes the registry on /metrics. Blocks until the server exits.
func StartServer(port string, log *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		log.Info("metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	log.Info("metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
