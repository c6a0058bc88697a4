package views

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestLayoutShowsFlashesAndVisitorNav(t *testing.T) {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p id="body">hi</p>`)
		return err
	})
	got := renderString(t, Layout(Page{
		Title:   "Login",
		Flashes: []session.Flash{{Kind: session.FlashError, Message: "Invalid OTP code."}},
	}, body))

	require.Contains(t, got, "<title>Login | Fruit Shop</title>")
	require.Contains(t, got, `class="flash flash-error"`)
	require.Contains(t, got, "Invalid OTP code.")
	require.Contains(t, got, `<p id="body">hi</p>`)
	require.Contains(t, got, `href="/login"`)
	require.NotContains(t, got, `href="/admin"`)
}

func TestLayoutShowsBalanceAndAdminLink(t *testing.T) {
	u := &domain.User{Username: "admin", Role: domain.RoleAdmin, Balance: decimal.RequireFromString("4.5")}
	got := renderString(t, Layout(Page{User: u, Scripts: []string{CartScript}}, Catalog(nil)))

	require.Contains(t, got, "admin ($4.50)")
	require.Contains(t, got, `href="/admin"`)
	require.Contains(t, got, `action="/logout"`)
	require.Contains(t, got, `<script src="/static/js/cart.js"></script>`)
	require.Contains(t, got, `<link rel="stylesheet" href="/static/css/shop.css">`)
}

func TestRegisterOTPKeepsOTPAuthLink(t *testing.T) {
	uri := "otpauth://totp/Fruit%20Shop:alice?issuer=Fruit+Shop&secret=JBSWY3DPEHPK3PXP"
	got := renderString(t, RegisterOTP("JBSWY3DPEHPK3PXP", uri, "data:image/png;base64,AAAA"))

	require.Contains(t, got, `href="otpauth://totp/Fruit%20Shop:alice?issuer=Fruit+Shop&amp;secret=JBSWY3DPEHPK3PXP"`)
	require.Contains(t, got, `src="data:image/png;base64,AAAA"`)
	require.Contains(t, got, `<code id="otp-secret">JBSWY3DPEHPK3PXP</code>`)
	require.Contains(t, got, `action="/register/2fa"`)
}

func TestOrdersLinkEachOrder(t *testing.T) {
	got := renderString(t, Orders([]domain.Order{{ID: 12, Total: decimal.NewFromInt(2)}}))

	require.Contains(t, got, `href="/orders/12"`)
	require.Contains(t, got, ">#12</a>")
}

func TestReviewsEscapeUserText(t *testing.T) {
	got := renderString(t, Reviews([]domain.ReviewListing{{
		OrderID:   1,
		Title:     "<b>great</b>",
		Comments:  `<script>alert("x")</script>`,
		CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Username:  "mallory",
		ItemNames: []string{"Apple", "Kiwi"},
	}}, 1, 2))

	require.NotContains(t, got, "<script>")
	require.NotContains(t, got, "<b>great</b>")
	require.Contains(t, got, "&lt;script&gt;")
	require.Contains(t, got, "<li>Apple</li><li>Kiwi</li>")
	require.Contains(t, got, "Written on January 02 2026")
	require.Contains(t, got, "Page 1 of 2")
	require.Contains(t, got, `href="/reviews/2"`)
	require.NotContains(t, got, "Previous")
}

func TestCatalogCarriesFruitData(t *testing.T) {
	got := renderString(t, Catalog([]domain.Fruit{{ID: 7, Name: `Dragon "fruit"`, Price: decimal.RequireFromString("3")}}))

	require.Contains(t, got, `data-id="7"`)
	require.Contains(t, got, `data-name="Dragon &#34;fruit&#34;"`)
	require.Contains(t, got, "$3.00")
	require.Contains(t, got, `id="checkoutButton"`)
}

func TestOrderShowsPromoAndReviewLink(t *testing.T) {
	got := renderString(t, Order(domain.OrderDetail{
		Order: domain.Order{
			ID:        3,
			PromoCode: "10OFF",
			Subtotal:  decimal.RequireFromString("5.97"),
			Discount:  decimal.RequireFromString("0.6"),
			Total:     decimal.RequireFromString("5.37"),
		},
		Lines: []domain.OrderLine{{Name: "Apple", UnitPrice: decimal.RequireFromString("1.99"), Quantity: 3}},
	}))

	require.Contains(t, got, "-$0.60 (10OFF)")
	require.Contains(t, got, "$5.97")
	require.Contains(t, got, `href="/orders/3/review"`)
}

func TestAdminListsPromotions(t *testing.T) {
	got := renderString(t, Admin([]domain.Promotion{{ID: 4, Code: "10OFF", Discount: decimal.NewFromInt(10), UsesLeft: 2}}))

	require.Contains(t, got, "10.00%")
	require.Contains(t, got, `action="/admin/promo/4/delete"`)
}
