package shopsdk

import (
	"encoding/json"
	"strconv"
)

// CartRequest is the body of /checkout/preview and /checkout. Items maps a
// fruit id to its quantity; Promo is the code to apply, if any.
type CartRequest struct {
	Items map[string]json.Number `json:"items"`
	Promo *string                `json:"promo"`
}

// NewCartRequest builds a cart from fruit ids and quantities.
func NewCartRequest(items map[int64]int64, promo string) CartRequest {
	req := CartRequest{Items: make(map[string]json.Number, len(items))}
	for id, qty := range items {
		req.Items[strconv.FormatInt(id, 10)] = json.Number(strconv.FormatInt(qty, 10))
	}
	if promo != "" {
		req.Promo = &promo
	}
	return req
}

// Quote is the priced cart. Amounts are JSON numbers with two decimals.
type Quote struct {
	Subtotal json.Number `json:"subtotal" swaggertype:"number" example:"5.97"`
	Discount json.Number `json:"discount" swaggertype:"number" example:"0.60"`
	Total    json.Number `json:"total" swaggertype:"number" example:"5.37"`

	// Promo is the applied code, or null when none was applied.
	Promo *string `json:"promo" example:"10OFF"`
}

// CheckoutResponse is returned when an order has been placed.
type CheckoutResponse struct {
	Success bool  `json:"success" example:"true"`
	OrderID int64 `json:"order_id" example:"42"`
}

// ErrorResponse is the JSON error body of the cart endpoints.
type ErrorResponse struct {
	Error string `json:"error" example:"This promo code has expired."`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks holds per-dependency results (only for readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Sessions indicates the session store status
	Sessions string `json:"sessions"`
}
