package http

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/http/reqctx"
	"github.com/aussiebroadwan/fruitshop/internal/shop/service"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/aussiebroadwan/fruitshop/pkg/httpx"
	"github.com/aussiebroadwan/fruitshop/pkg/shopsdk"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"
)

const maxCartBody = 64 << 10

var errInvalidBody = errors.New("invalid request body")

// CheckoutHandler prices and places carts sent by the cart script.
type CheckoutHandler struct {
	PricingService  *service.PricingService
	CheckoutService *service.CheckoutService
}

// HandlePreview godoc
//
//	@Summary		Price a cart
//	@Description	Prices the cart with the promo code applied if it exists and still has uses left.
//	@Description	Unknown or spent codes are ignored and reported as a null promo.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			cart	body		shopsdk.CartRequest		true	"Fruit id to quantity, and an optional promo code"
//	@Success		200		{object}	shopsdk.Quote			"subtotal, discount, total, applied promo"
//	@Failure		400		{object}	shopsdk.ErrorResponse	"Invalid fruit id, quantity or body"
//	@Router			/checkout/preview [post]
func (h *CheckoutHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	cart, code, err := decodeCart(w, r)
	if err != nil {
		h.handleCheckoutError(w, r, err)
		return
	}

	quote, err := h.PricingService.Preview(r.Context(), cart, code)
	if err != nil {
		h.handleCheckoutError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, quoteResponse(quote))
}

// HandleCheckout godoc
//
//	@Summary		Place an order
//	@Description	Places the cart for the signed-in shopper: the promo use, the order and the balance debit
//	@Description	happen in one transaction. Visitors who are not signed in are redirected to /login.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			cart	body		shopsdk.CartRequest			true	"Fruit id to quantity, and an optional promo code"
//	@Success		200		{object}	shopsdk.CheckoutResponse	"Order placed"
//	@Success		303		{string}	string						"Not signed in, redirect to /login"
//	@Failure		400		{object}	shopsdk.ErrorResponse		"Cart rejected"	example({"error":"You do not have enough balance for this purchase."})
//	@Router			/checkout [post]
func (h *CheckoutHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	rc := reqctx.From(r.Context())

	cart, code, err := decodeCart(w, r)
	if err != nil {
		h.handleCheckoutError(w, r, err)
		return
	}

	order, err := h.CheckoutService.Checkout(r.Context(), rc.User.ID, cart, code)
	if err != nil {
		h.handleCheckoutError(w, r, err)
		return
	}

	rc.Session.AddFlash(session.FlashInfo, "Order placed.")
	if !saveSession(w, r) {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shopsdk.CheckoutResponse{Success: true, OrderID: order.ID})
}

func (h *CheckoutHandler) handleCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	var msg string
	switch {
	case errors.Is(err, errInvalidBody):
		msg = "Invalid request body."
	case errors.Is(err, service.ErrEmptyCart):
		msg = "Cart is empty."
	case errors.Is(err, service.ErrInvalidItem):
		msg = "Invalid fruit id."
	case errors.Is(err, service.ErrInvalidQuantity):
		msg = "Invalid quantity."
	case errors.Is(err, service.ErrUnknownPromo):
		msg = "This promo code does not exist."
	case errors.Is(err, service.ErrExpiredPromo):
		msg = "This promo code has expired."
	case errors.Is(err, service.ErrInsufficientBalance):
		msg = "You do not have enough balance for this purchase."
	default:
		slogx.FromContext(r.Context()).Error("checkout request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}
	httpx.WriteError(w, http.StatusBadRequest, msg)
}

// decodeCart reads the cart script's JSON body. Ids that are not integers,
// or name the same fruit twice, are invalid items. Ids are checked before
// any quantity, in sorted order, so the reported error does not depend on
// map order. A quantity that is not an integer is kept as 0 and rejected
// by pricing once the items have been checked against the catalog.
func decodeCart(w http.ResponseWriter, r *http.Request) (domain.Cart, string, error) {
	var req shopsdk.CartRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCartBody)).Decode(&req); err != nil {
		return nil, "", errInvalidBody
	}

	keys := slices.Sorted(maps.Keys(req.Items))
	ids := make([]int64, len(keys))
	cart := make(domain.Cart, len(keys))
	for i, key := range keys {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return nil, "", service.ErrInvalidItem
		}
		if _, dup := cart[id]; dup {
			return nil, "", service.ErrInvalidItem
		}
		ids[i], cart[id] = id, 0
	}
	for i, key := range keys {
		if n, err := strconv.ParseInt(req.Items[key].String(), 10, 64); err == nil {
			cart[ids[i]] = n
		}
	}

	var code string
	if req.Promo != nil {
		code = strings.TrimSpace(*req.Promo)
	}
	return cart, code, nil
}

func quoteResponse(q domain.Quote) shopsdk.Quote {
	out := shopsdk.Quote{
		Subtotal: json.Number(q.Subtotal.StringFixed(2)),
		Discount: json.Number(q.Discount.StringFixed(2)),
		Total:    json.Number(q.Total.StringFixed(2)),
	}
	if q.PromoCode != "" {
		code := q.PromoCode
		out.Promo = &code
	}
	return out
}
