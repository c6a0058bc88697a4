package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/fruitshop/internal/shop/http/views"
	"github.com/aussiebroadwan/fruitshop/internal/shop/service"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
)

// ReviewsHandler serves the public review wall, /reviews and
// /reviews/{page}.
type ReviewsHandler struct {
	ReviewService *service.ReviewService
}

func (h *ReviewsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := 1
	if raw := r.PathValue("page"); raw != "" {
		var err error
		if n, err = strconv.Atoi(raw); err != nil {
			flashRedirect(w, r, session.FlashError, "Page not found.", "/reviews")
			return
		}
	}

	p, err := h.ReviewService.Page(r.Context(), n)
	if errors.Is(err, service.ErrPageNotFound) {
		flashRedirect(w, r, session.FlashError, "Page not found.", "/reviews")
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}

	renderPage(w, r, page{Title: "Reviews", Body: views.Reviews(p.Reviews, p.Page, p.TotalPages)})
}
