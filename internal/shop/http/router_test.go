package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	shophttp "github.com/aussiebroadwan/fruitshop/internal/shop/http"
	"github.com/aussiebroadwan/fruitshop/internal/shop/service"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/storetest"
	"github.com/aussiebroadwan/fruitshop/pkg/cryptox"
	"github.com/aussiebroadwan/fruitshop/pkg/metrics"
	"github.com/aussiebroadwan/fruitshop/pkg/shopsdk"
)

const (
	adminPassword = "correct horse battery staple"
	adminSecret   = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"

	appleID      = 1
	watermelonID = 9
)

func TestMain(m *testing.M) {
	cryptox.SetPepper("http-test-pepper")
	os.Exit(m.Run())
}

// newShop serves a freshly seeded shop and returns its base URL.
func newShop(t *testing.T) string {
	t.Helper()

	st := storetest.NewSQLite(t)
	_, err := (&service.SeedService{
		Store:         st,
		AdminUsername: "admin",
		AdminPassword: adminPassword,
		AdminSecret:   adminSecret,
	}).Seed(t.Context())
	require.NoError(t, err)

	sessions, err := session.NewManager(session.NewSQLStore(st), []byte("http-test-session-secret-32bytes"), session.Options{TTL: time.Hour})
	require.NoError(t, err)

	m := metrics.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := shophttp.NewRouter("test", st, sessions, m, logger)
	r.CatalogService = &service.CatalogService{Store: st}
	r.PricingService = &service.PricingService{Store: st}
	r.CheckoutService = &service.CheckoutService{Store: st, Metrics: m}
	r.AuthService = &service.AuthService{Store: st, Metrics: m}
	r.OrderService = &service.OrderService{Store: st}
	r.ReviewService = &service.ReviewService{Store: st}
	r.PromotionService = &service.PromotionService{Store: st}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func code(t *testing.T, secret string) string {
	t.Helper()
	c, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return c
}

// register signs up and logs in a new shopper.
func register(t *testing.T, ctx context.Context, c *shopsdk.SDKClient, username string) {
	t.Helper()

	enrollment, err := c.Register(ctx, username, "hunter22")
	require.NoError(t, err)
	require.NoError(t, c.SubmitRegistrationOTP(ctx, code(t, enrollment.Secret)))

	require.NoError(t, c.Login(ctx, username, "hunter22"))
	landing, err := c.SubmitLoginOTP(ctx, code(t, enrollment.Secret))
	require.NoError(t, err)
	require.Equal(t, "/", landing)
}

// postForm submits an HTML form and returns the page it landed on.
func postForm(t *testing.T, ctx context.Context, c *shopsdk.SDKClient, path string, form url.Values) (string, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.Request.URL.Path, string(body)
}

func TestCatalogPage(t *testing.T) {
	c := shopsdk.NewSDKClient(newShop(t))

	final, body, err := c.Page(t.Context(), "/")
	require.NoError(t, err)
	require.Equal(t, "/", final)
	require.Contains(t, body, "Watermelon")
	require.Contains(t, body, `data-name="Apple"`)
	require.Contains(t, body, `href="/login"`)
}

func TestPreview(t *testing.T) {
	c := shopsdk.NewSDKClient(newShop(t))
	ctx := t.Context()

	t.Run("with promo", func(t *testing.T) {
		q, err := c.Preview(ctx, shopsdk.NewCartRequest(map[int64]int64{appleID: 3}, "10OFF"))
		require.NoError(t, err)
		require.Equal(t, "5.97", q.Subtotal.String())
		require.Equal(t, "0.60", q.Discount.String())
		require.Equal(t, "5.37", q.Total.String())
		require.NotNil(t, q.Promo)
		require.Equal(t, "10OFF", *q.Promo)
	})

	t.Run("unknown promo is ignored", func(t *testing.T) {
		q, err := c.Preview(ctx, shopsdk.NewCartRequest(map[int64]int64{appleID: 1}, "NOPE"))
		require.NoError(t, err)
		require.Equal(t, "1.99", q.Total.String())
		require.Nil(t, q.Promo)
	})

	t.Run("unknown fruit", func(t *testing.T) {
		_, err := c.Preview(ctx, shopsdk.NewCartRequest(map[int64]int64{404: 1}, ""))
		var apiErr *shopsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "Invalid fruit id.", apiErr.Message)
	})

	t.Run("bad quantity", func(t *testing.T) {
		_, err := c.Preview(ctx, shopsdk.NewCartRequest(map[int64]int64{appleID: 0}, ""))
		var apiErr *shopsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "Invalid quantity.", apiErr.Message)
	})

	t.Run("items are checked before quantities", func(t *testing.T) {
		apple := strconv.FormatInt(appleID, 10)
		tests := map[string]struct {
			items map[string]json.Number
			want  string
		}{
			"malformed id and fractional quantity": {map[string]json.Number{"abc": "1", apple: "1.5"}, "Invalid fruit id."},
			"unknown id with fractional quantity":  {map[string]json.Number{"999": "1.5"}, "Invalid fruit id."},
			"known id with fractional quantity":    {map[string]json.Number{apple: "1.5"}, "Invalid quantity."},
		}
		for name, tc := range tests {
			t.Run(name, func(t *testing.T) {
				for range 10 {
					_, err := c.Preview(ctx, shopsdk.CartRequest{Items: tc.items})
					var apiErr *shopsdk.APIError
					require.ErrorAs(t, err, &apiErr)
					require.Equal(t, tc.want, apiErr.Message)
				}
			})
		}
	})
}

func TestCheckoutRequiresLogin(t *testing.T) {
	c := shopsdk.NewSDKClient(newShop(t))

	_, err := c.Checkout(t.Context(), shopsdk.NewCartRequest(map[int64]int64{appleID: 1}, ""))
	require.ErrorIs(t, err, shopsdk.ErrLoginRequired)
}

func TestShopperJourney(t *testing.T) {
	c := shopsdk.NewSDKClient(newShop(t))
	ctx := t.Context()
	register(t, ctx, c, "alice")

	_, body, err := c.Page(ctx, "/")
	require.NoError(t, err)
	require.Contains(t, body, "alice ($5.00)")

	out, err := c.Checkout(ctx, shopsdk.NewCartRequest(map[int64]int64{appleID: 2}, "10OFF"))
	require.NoError(t, err)
	require.True(t, out.Success)

	_, body, err = c.Page(ctx, "/")
	require.NoError(t, err)
	require.Contains(t, body, "Order placed.")
	require.Contains(t, body, "alice ($1.42)")

	t.Run("insufficient balance", func(t *testing.T) {
		_, err := c.Checkout(ctx, shopsdk.NewCartRequest(map[int64]int64{watermelonID: 1}, ""))
		var apiErr *shopsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		require.Equal(t, "You do not have enough balance for this purchase.", apiErr.Message)
	})

	t.Run("unknown promo", func(t *testing.T) {
		_, err := c.Checkout(ctx, shopsdk.NewCartRequest(map[int64]int64{appleID: 1}, "NOPE"))
		var apiErr *shopsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "This promo code does not exist.", apiErr.Message)
	})

	orderPath := "/orders/" + strconv.FormatInt(out.OrderID, 10)

	_, body, err = c.Page(ctx, orderPath)
	require.NoError(t, err)
	require.Contains(t, body, "Apple")
	require.Contains(t, body, "(10OFF)")

	final, body := postForm(t, ctx, c, orderPath+"/review", url.Values{
		"title":    {"Crisp <b>apples</b>"},
		"comments": {"Would buy again."},
	})
	require.Equal(t, "/reviews", final)
	require.Contains(t, body, "Thank you for your review!")
	require.Contains(t, body, "Crisp &lt;b&gt;apples&lt;/b&gt;")

	t.Run("second review is refused", func(t *testing.T) {
		final, body := postForm(t, ctx, c, orderPath+"/review", url.Values{
			"title":    {"Again"},
			"comments": {"Twice."},
		})
		require.Equal(t, orderPath, final)
		require.Contains(t, body, "You have already reviewed this order.")
	})
}

func TestOrdersOfOthersAreHidden(t *testing.T) {
	base := newShop(t)
	ctx := t.Context()

	alice := shopsdk.NewSDKClient(base)
	register(t, ctx, alice, "alice")
	out, err := alice.Checkout(ctx, shopsdk.NewCartRequest(map[int64]int64{appleID: 1}, ""))
	require.NoError(t, err)

	bob := shopsdk.NewSDKClient(base)
	register(t, ctx, bob, "bob")
	final, _, err := bob.Page(ctx, "/orders/"+strconv.FormatInt(out.OrderID, 10))
	require.NoError(t, err)
	require.Equal(t, "/orders", final)
}

func TestLogin(t *testing.T) {
	base := newShop(t)
	ctx := t.Context()

	t.Run("wrong password", func(t *testing.T) {
		c := shopsdk.NewSDKClient(base)
		require.ErrorIs(t, c.Login(ctx, "admin", "wrong"), shopsdk.ErrRejected)

		_, body, err := c.Page(ctx, "/login")
		require.NoError(t, err)
		require.NotContains(t, body, "Incorrect username or password.", "flash is shown once")
	})

	t.Run("wrong otp keeps the pending login", func(t *testing.T) {
		c := shopsdk.NewSDKClient(base)
		require.NoError(t, c.Login(ctx, "admin", adminPassword))

		final, err := c.SubmitLoginOTP(ctx, "000000x")
		require.ErrorIs(t, err, shopsdk.ErrRejected)
		require.Equal(t, "/login/2fa", final)

		landing, err := c.SubmitLoginOTP(ctx, code(t, adminSecret))
		require.NoError(t, err)
		require.Equal(t, "/admin", landing)
	})

	t.Run("otp page without a pending login", func(t *testing.T) {
		c := shopsdk.NewSDKClient(base)
		final, _, err := c.Page(ctx, "/login/2fa")
		require.NoError(t, err)
		require.Equal(t, "/login", final)
	})
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	c := shopsdk.NewSDKClient(newShop(t))

	_, err := c.Register(t.Context(), "admin", "hunter22")
	require.ErrorIs(t, err, shopsdk.ErrRejected)
}

func TestGuards(t *testing.T) {
	base := newShop(t)
	ctx := t.Context()

	visitor := shopsdk.NewSDKClient(base)
	for _, path := range []string{"/orders", "/admin"} {
		final, _, err := visitor.Page(ctx, path)
		require.NoError(t, err)
		require.Equal(t, "/login", final, path)
	}

	shopper := shopsdk.NewSDKClient(base)
	register(t, ctx, shopper, "carol")
	final, body, err := shopper.Page(ctx, "/admin")
	require.NoError(t, err)
	require.Equal(t, "/", final)
	require.NotContains(t, body, `href="/admin"`)
}

func TestAdminPromotions(t *testing.T) {
	c := shopsdk.NewSDKClient(newShop(t))
	ctx := t.Context()

	require.NoError(t, c.Login(ctx, "admin", adminPassword))
	_, err := c.SubmitLoginOTP(ctx, code(t, adminSecret))
	require.NoError(t, err)

	final, body := postForm(t, ctx, c, "/admin/promo", url.Values{
		"code":      {"HALF"},
		"discount":  {"50"},
		"uses_left": {"1"},
	})
	require.Equal(t, "/admin", final)
	require.Contains(t, body, "Promo code added.")
	require.Contains(t, body, "HALF")
	require.Contains(t, body, "50.00%")

	_, body = postForm(t, ctx, c, "/admin/promo", url.Values{"code": {""}, "discount": {"x"}, "uses_left": {"1"}})
	require.Contains(t, body, "Invalid input.")

	_, body = postForm(t, ctx, c, "/admin/promo/999/delete", nil)
	require.Contains(t, body, "Promo code not found.")
}

func TestReviewsPageOutOfRange(t *testing.T) {
	c := shopsdk.NewSDKClient(newShop(t))

	final, body, err := c.Page(t.Context(), "/reviews/99")
	require.NoError(t, err)
	require.Equal(t, "/reviews", final)
	require.Contains(t, body, "Page not found.")
}

func TestHealth(t *testing.T) {
	c := shopsdk.NewSDKClient(newShop(t))
	ctx := t.Context()

	live, err := c.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := c.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Sessions)
}

func TestStaticAndMetrics(t *testing.T) {
	base := newShop(t)

	resp, err := http.Get(base + "/static/js/cart.js")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "/checkout/preview")

	resp, err = http.Get(base + "/static/css/shop.css")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/css")

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `fruitshop_http_requests_total{method="GET",route="GET /static/",status="200"}`)
}
