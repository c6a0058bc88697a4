package shop_test

import (
	"testing"

	"github.com/aussiebroadwan/fruitshop/pkg/shopsdk"
	"github.com/stretchr/testify/require"
)

// TestAdminLogin verifies the seeded administrator lands on the admin page.
func TestAdminLogin(t *testing.T) {
	client := shopsdk.NewSDKClient(startShop(t, nil))
	loginAdmin(t, client)

	final, body, err := client.Page(t.Context(), "/admin")
	require.NoError(t, err)
	require.Equal(t, "/admin", final)
	require.Contains(t, body, "10OFF", "The default promotion is seeded")
}

// TestLoginRejections covers wrong passwords, wrong codes and the OTP
// attempt limit.
func TestLoginRejections(t *testing.T) {
	base := startShop(t, nil)
	ctx := t.Context()

	t.Run("wrong password", func(t *testing.T) {
		client := shopsdk.NewSDKClient(base)
		require.ErrorIs(t, client.Login(ctx, adminUsername, "wrong"), shopsdk.ErrRejected)
	})

	t.Run("unknown user", func(t *testing.T) {
		client := shopsdk.NewSDKClient(base)
		require.ErrorIs(t, client.Login(ctx, "nobody", "wrong"), shopsdk.ErrRejected)
	})

	t.Run("too many wrong codes", func(t *testing.T) {
		client := shopsdk.NewSDKClient(base)
		require.NoError(t, client.Login(ctx, adminUsername, adminPassword))

		for range 4 {
			final, err := client.SubmitLoginOTP(ctx, "bad")
			require.ErrorIs(t, err, shopsdk.ErrRejected)
			require.Equal(t, "/login/2fa", final)
		}

		final, err := client.SubmitLoginOTP(ctx, "bad")
		require.ErrorIs(t, err, shopsdk.ErrRejected)
		require.Equal(t, "/login", final, "The fifth miss restarts the login")

		// The pending login is gone, so even a good code is refused.
		_, err = client.SubmitLoginOTP(ctx, otpCode(t, adminOTPSecret))
		require.ErrorIs(t, err, shopsdk.ErrRejected)
	})
}

// TestRegistration covers duplicate usernames and logging out.
func TestRegistration(t *testing.T) {
	base := startShop(t, nil)
	ctx := t.Context()

	client := shopsdk.NewSDKClient(base)
	registerAndLogin(t, client, "carol")

	other := shopsdk.NewSDKClient(base)
	_, err := other.Register(ctx, "carol", shopperPassword)
	require.ErrorIs(t, err, shopsdk.ErrRejected, "Usernames are unique")

	require.NoError(t, client.Logout(ctx))
	final, _, err := client.Page(ctx, "/orders")
	require.NoError(t, err)
	require.Equal(t, "/login", final)
}

// TestSessionsInRedis runs the login flow with sessions kept in Redis.
func TestSessionsInRedis(t *testing.T) {
	client := shopsdk.NewSDKClient(startShopWithRedis(t))

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)

	registerAndLogin(t, client, "dave")
	final, body, err := client.Page(t.Context(), "/orders")
	require.NoError(t, err)
	require.Equal(t, "/orders", final)
	require.Contains(t, body, "dave")
}
