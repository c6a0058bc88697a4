package shopsdk

import (
	"context"
	"net/http"
)

// Preview prices a cart without placing it. Unknown promo codes are not
// an error; Quote.Promo is nil when no code applied.
func (c *SDKClient) Preview(ctx context.Context, cart CartRequest) (*Quote, error) {
	q, _, err := callJSON[Quote](ctx, c, http.MethodPost, "/checkout/preview", cart, http.StatusOK)
	return q, err
}

// Checkout places an order for the signed-in shopper. It returns
// ErrLoginRequired when the session is not signed in and *APIError with
// the shop's message for rejected carts.
func (c *SDKClient) Checkout(ctx context.Context, cart CartRequest) (*CheckoutResponse, error) {
	out, _, err := callJSON[CheckoutResponse](ctx, c, http.MethodPost, "/checkout", cart, http.StatusOK)
	return out, err
}

// Page fetches an HTML page and returns the path it ended on with the body.
func (c *SDKClient) Page(ctx context.Context, path string) (string, string, error) {
	rep, err := c.send(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return "", "", err
	}
	if rep.status != http.StatusOK {
		return "", "", parseErrorResponse(rep.status, rep.body)
	}
	return rep.path, string(rep.body), nil
}
