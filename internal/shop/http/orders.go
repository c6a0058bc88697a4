package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/fruitshop/internal/shop/http/reqctx"
	"github.com/aussiebroadwan/fruitshop/internal/shop/http/views"
	"github.com/aussiebroadwan/fruitshop/internal/shop/service"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
)

// OrderHandler serves the signed-in shopper's orders and their reviews.
type OrderHandler struct {
	OrderService  *service.OrderService
	ReviewService *service.ReviewService
}

func (h *OrderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := reqctx.From(r.Context()).User

	orders, err := h.OrderService.List(r.Context(), user.ID)
	if err != nil {
		serverError(w, r, err)
		return
	}
	renderPage(w, r, page{Title: "Orders", Body: views.Orders(orders)})
}

func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := reqctx.From(r.Context()).User

	id, ok := orderID(r)
	if !ok {
		h.handleOrderError(w, r, 0, service.ErrOrderNotFound)
		return
	}

	detail, err := h.OrderService.Get(r.Context(), user.ID, id)
	if err != nil {
		h.handleOrderError(w, r, id, err)
		return
	}
	renderPage(w, r, page{Title: fmt.Sprintf("Order #%d", id), Body: views.Order(detail)})
}

func (h *OrderHandler) HandleReviewPage(w http.ResponseWriter, r *http.Request) {
	user := reqctx.From(r.Context()).User

	id, ok := orderID(r)
	if !ok {
		h.handleOrderError(w, r, 0, service.ErrOrderNotFound)
		return
	}

	order, err := h.ReviewService.Reviewable(r.Context(), user.ID, id)
	if err != nil {
		h.handleOrderError(w, r, id, err)
		return
	}
	renderPage(w, r, page{Title: "Review order", Body: views.ReviewForm(order)})
}

func (h *OrderHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	user := reqctx.From(r.Context()).User

	id, ok := orderID(r)
	if !ok {
		h.handleOrderError(w, r, 0, service.ErrOrderNotFound)
		return
	}

	_, err := h.ReviewService.Create(r.Context(), user.ID, id, r.PostFormValue("title"), r.PostFormValue("comments"))
	if err != nil {
		h.handleOrderError(w, r, id, err)
		return
	}
	flashRedirect(w, r, session.FlashInfo, "Thank you for your review!", "/reviews")
}

func (h *OrderHandler) handleOrderError(w http.ResponseWriter, r *http.Request, id int64, err error) {
	var msg, back string
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		msg, back = "Order not found.", "/orders"
	case errors.Is(err, service.ErrAlreadyReviewed):
		msg, back = "You have already reviewed this order.", fmt.Sprintf("/orders/%d", id)
	case errors.Is(err, service.ErrMissingReviewFields):
		msg = "Please enter your review title and comments."
	case errors.Is(err, service.ErrReviewTitleTooLong):
		msg = fmt.Sprintf("Review title cannot be more than %d characters.", service.MaxReviewTitleLength)
	case errors.Is(err, service.ErrReviewCommentsTooLong):
		msg = fmt.Sprintf("Review comments cannot be more than %d characters.", service.MaxReviewCommentsSize)
	default:
		serverError(w, r, err)
		return
	}
	if back == "" {
		back = fmt.Sprintf("/orders/%d/review", id)
	}
	flashRedirect(w, r, session.FlashError, msg, back)
}

func orderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
