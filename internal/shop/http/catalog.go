package http

import (
	"net/http"

	"github.com/aussiebroadwan/fruitshop/internal/shop/http/views"
	"github.com/aussiebroadwan/fruitshop/internal/shop/service"
)

// CatalogHandler serves the shop front page.
type CatalogHandler struct {
	CatalogService *service.CatalogService
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fruits, err := h.CatalogService.List(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}

	renderPage(w, r, page{
		Title:   "Shop",
		Body:    views.Catalog(fruits),
		Scripts: []string{views.CartScript},
	})
}
