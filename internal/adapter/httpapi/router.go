package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/swipebay/marketplace-service/internal/platform/logger"
	"github.com/swipebay/marketplace-service/internal/platform/metrics"
)

type RouterDeps struct {
	Auth     *AuthHandler
	Feed     *FeedHandler
	Wishlist *WishlistHandler
	Listings *ListingHandler
	Profile  *ProfileHandler
	Verifier TokenVerifier
	Metrics  *metrics.Manager
	Logger   *logger.Logger
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(Observe(deps.Logger, deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", deps.Auth.Register)
		r.Post("/login", deps.Auth.Login)
	})

	// Anonymous browsing is allowed; swipes made without a token stay local.
	r.Route("/feed", func(r chi.Router) {
		r.Use(OptionalAuth(deps.Verifier, deps.Logger))
		r.Get("/", deps.Feed.GetFeed)
		r.Put("/filters", deps.Feed.SetFilters)
		r.Delete("/filters", deps.Feed.ClearFilters)
		r.Post("/consume", deps.Feed.Consume)
		r.Post("/undo", deps.Feed.Undo)
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Use(RequireAuth(deps.Verifier, deps.Logger))
		r.Get("/", deps.Wishlist.Get)
		r.Post("/", deps.Wishlist.Add)
		r.Delete("/{listingID}", deps.Wishlist.Remove)
	})

	r.Route("/listings", func(r chi.Router) {
		r.Get("/{listingID}", deps.Listings.Get)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(deps.Verifier, deps.Logger))
			r.Post("/", deps.Listings.Create)
			r.Get("/mine", deps.Listings.Mine)
			r.Put("/{listingID}", deps.Listings.Update)
			r.Delete("/{listingID}", deps.Listings.Delete)
			r.Post("/{listingID}/sold", deps.Listings.MarkAsSold)
			r.Post("/{listingID}/photos", deps.Listings.UploadPhoto)
		})
	})

	r.Route("/profile", func(r chi.Router) {
		r.Use(RequireAuth(deps.Verifier, deps.Logger))
		r.Get("/", deps.Profile.Get)
		r.Put("/", deps.Profile.Update)
		r.Post("/image", deps.Profile.UploadImage)
	})

	return r
}
