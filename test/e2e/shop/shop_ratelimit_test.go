package shop_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/fruitshop/pkg/shopsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginRateLimit verifies the strict password limit with production
// defaults: five attempts per minute for one address and username.
func TestLoginRateLimit(t *testing.T) {
	client := shopsdk.NewSDKClient(startShop(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS": "5",
		"RATELIMIT_STRICT_BURST":    "5",
	}))
	ctx := t.Context()

	for range 5 {
		require.ErrorIs(t, client.Login(ctx, adminUsername, "wrong"), shopsdk.ErrRejected)
	}

	err := client.Login(ctx, adminUsername, "wrong")
	var apiErr *shopsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)

	// Another username is counted separately.
	require.ErrorIs(t, client.Login(ctx, "someone-else", "wrong"), shopsdk.ErrRejected)
}
