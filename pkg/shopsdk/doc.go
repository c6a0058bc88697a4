/*
Package shopsdk is a small client for a running Fruit Shop.

The shop is a browser application: the cart endpoints speak JSON and the
account flows are HTML forms that answer with redirects. SDKClient keeps the
session cookie in a cookie jar and follows redirects, so a client behaves
like one shopper's browser.

	client := shopsdk.NewSDKClient("http://localhost:8080")

	// Price a cart
	quote, err := client.Preview(ctx, shopsdk.NewCartRequest(map[int64]int64{1: 3}, "10OFF"))

	// Sign in with password and a TOTP code
	err = client.Login(ctx, "alice", "secret")
	landing, err := client.SubmitLoginOTP(ctx, code)

	// Place the order
	order, err := client.Checkout(ctx, shopsdk.NewCartRequest(map[int64]int64{1: 3}, ""))

Rejected carts come back as *APIError carrying the shop's message, for
example "You do not have enough balance for this purchase.". Form steps that
did not advance return ErrRejected.
*/
package shopsdk
