package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/fruitshop/internal/shop/http/views"
	"github.com/aussiebroadwan/fruitshop/internal/shop/service"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"
)

// AdminHandler manages promotion codes.
type AdminHandler struct {
	PromotionService *service.PromotionService
}

func (h *AdminHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	promos, err := h.PromotionService.List(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}
	renderPage(w, r, page{Title: "Admin", Body: views.Admin(promos)})
}

func (h *AdminHandler) HandleCreatePromo(w http.ResponseWriter, r *http.Request) {
	promo, err := h.PromotionService.Create(r.Context(),
		r.PostFormValue("code"),
		r.PostFormValue("discount"),
		r.PostFormValue("uses_left"),
	)
	if err != nil {
		h.handlePromoError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("promotion created",
		slog.Int64("promotion_id", promo.ID),
		slog.String("code", promo.Code),
	)
	flashRedirect(w, r, session.FlashInfo, "Promo code added.", "/admin")
}

func (h *AdminHandler) HandleDeletePromo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.handlePromoError(w, r, service.ErrPromotionNotFound)
		return
	}

	if err := h.PromotionService.Delete(r.Context(), id); err != nil {
		h.handlePromoError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("promotion deleted", slog.Int64("promotion_id", id))
	flashRedirect(w, r, session.FlashInfo, "Promo code deleted.", "/admin")
}

func (h *AdminHandler) handlePromoError(w http.ResponseWriter, r *http.Request, err error) {
	var msg string
	switch {
	case errors.Is(err, service.ErrInvalidPromotion):
		msg = "Invalid input."
	case errors.Is(err, service.ErrPromotionNotFound):
		msg = "Promo code not found."
	default:
		serverError(w, r, err)
		return
	}
	flashRedirect(w, r, session.FlashError, msg, "/admin")
}
