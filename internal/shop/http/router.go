package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/service"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/pkg/httpx"
	"github.com/aussiebroadwan/fruitshop/pkg/metrics"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"

	_ "github.com/aussiebroadwan/fruitshop/api/shop" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	sessions *session.Manager
	metrics  *metrics.Metrics

	// TrustProxyHeaders takes the client IP from X-Forwarded-For or
	// X-Real-IP. Only set it behind a proxy that overwrites them.
	TrustProxyHeaders bool

	CatalogService   *service.CatalogService
	PricingService   *service.PricingService
	CheckoutService  *service.CheckoutService
	AuthService      *service.AuthService
	OrderService     *service.OrderService
	ReviewService    *service.ReviewService
	PromotionService *service.PromotionService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	sessions *session.Manager,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		sessions:     sessions,
		metrics:      m,
		logger:       logger,
	}

	// Set default middleware chain. The metrics middleware must be last so
	// it wraps the mux and sees the matched pattern.
	r.middlewares = []httpx.Middleware{
		r.clientIP,
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
	}
	if m != nil {
		r.middlewares = append(r.middlewares, m.Middleware)
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerShop()
	r.registerCheckout()
	r.registerAuth()
	r.registerOrders()
	r.registerReviews()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("GET /static/", httpx.Chain(StaticHandler(),
		httpx.RateLimitByIP(httpx.PublicLimit),
	))
	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Fruit Shop API
//	@version		0.1.0
//	@description	JSON endpoints behind the Fruit Shop cart. Pages and account forms are HTML and are not described here.
//	@description
//	@description	Checkout uses the browser session cookie set by the login flow.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/fruitshop
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// clientIP reads TrustProxyHeaders per request, so it may be set after
// NewRouter.
func (r *Router) clientIP(next http.Handler) http.Handler {
	return httpx.ClientIP(r.TrustProxyHeaders)(next)
}

// session loads the visitor's session; every page handler needs it.
func (r *Router) session() httpx.Middleware {
	return SessionMiddleware(r.sessions)
}

func (r *Router) registerShop() {
	h := &CatalogHandler{CatalogService: r.CatalogService}

	// GET / - public page, shows the balance of signed-in shoppers
	r.Mux.Handle("GET /{$}",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.PublicLimit),
			r.session(),
			CurrentUser(r.CatalogService),
		),
	)
}

func (r *Router) registerCheckout() {
	h := &CheckoutHandler{
		PricingService:  r.PricingService,
		CheckoutService: r.CheckoutService,
	}

	// POST /checkout/preview - lenient rate limit, called on every cart change
	r.Mux.Handle("POST /checkout/preview",
		httpx.Chain(http.HandlerFunc(h.HandlePreview),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /checkout - moderate rate limit by user (spends the balance)
	r.Mux.Handle("POST /checkout",
		httpx.Chain(http.HandlerFunc(h.HandleCheckout),
			r.session(),
			RequireUser(r.CatalogService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	form := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RateLimitByIP(httpx.LenientLimit),
			r.session(),
			CurrentUser(r.CatalogService),
		)
	}

	// Form pages - lenient rate limit
	r.Mux.Handle("GET /login", form(h.HandleLoginPage))
	r.Mux.Handle("GET /login/2fa", form(h.HandleLoginOTPPage))
	r.Mux.Handle("GET /register", form(h.HandleRegisterPage))
	r.Mux.Handle("GET /register/2fa", form(h.HandleRegisterOTPPage))

	// POST /login - strict rate limit by IP + username to slow password guessing
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
			r.session(),
		),
	)

	// POST /register - strict rate limit by IP
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
			r.session(),
		),
	)

	// OTP submissions - strict rate limit by IP, one at a time per session
	// so the attempt counter cannot be raced
	for _, route := range []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"POST /login/2fa", h.HandleLoginOTP},
		{"POST /register/2fa", h.HandleRegisterOTP},
	} {
		r.Mux.Handle(route.pattern,
			httpx.Chain(route.handler,
				httpx.RateLimitByIP(httpx.StrictLimit),
				SerializeSession(r.sessions),
				r.session(),
			),
		)
	}

	// GET|POST /logout - lenient rate limit
	logout := httpx.Chain(http.HandlerFunc(h.HandleLogout),
		httpx.RateLimitByIP(httpx.LenientLimit),
		r.session(),
	)
	r.Mux.Handle("GET /logout", logout)
	r.Mux.Handle("POST /logout", logout)
}

func (r *Router) registerOrders() {
	h := &OrderHandler{
		OrderService:  r.OrderService,
		ReviewService: r.ReviewService,
	}

	secured := func(fn http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(fn,
			r.session(),
			RequireUser(r.CatalogService),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("GET /orders", secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /orders/{id}", secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("GET /orders/{id}/review", secured(h.HandleReviewPage, httpx.LenientLimit))
	r.Mux.Handle("POST /orders/{id}/review", secured(h.HandleReview, httpx.ModerateLimit))
}

func (r *Router) registerReviews() {
	h := &ReviewsHandler{ReviewService: r.ReviewService}

	// Public review wall - public rate limit
	reviews := httpx.Chain(h,
		httpx.RateLimitByIP(httpx.PublicLimit),
		r.session(),
		CurrentUser(r.CatalogService),
	)
	r.Mux.Handle("GET /reviews", reviews)
	r.Mux.Handle("GET /reviews/{page}", reviews)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{PromotionService: r.PromotionService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			r.session(),
			RequireAdmin(r.CatalogService),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /admin", secured(h.HandleIndex))
	r.Mux.Handle("POST /admin/promo", secured(h.HandleCreatePromo))
	r.Mux.Handle("POST /admin/promo/{id}/delete", secured(h.HandleDeletePromo))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.sessions),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
