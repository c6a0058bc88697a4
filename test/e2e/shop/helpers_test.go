package shop_test

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/fruitshop/pkg/shopsdk"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for the shop end-to-end tests.
 * This includes container setup, account flows, and assertions.
 */

const (
	testImageName = "fruitshop-test:latest"

	adminUsername  = "admin"
	adminPassword  = "Admin123!"
	adminOTPSecret = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"

	shopperPassword = "hunter22"

	appleID      = 1
	watermelonID = 9
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete. Nothing is built with -short.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	fmt.Fprintf(os.Stdout, "Building Fruit Shop Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Fruit Shop Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/shop/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// baseEnv is the container environment shared by every test. Rate limits
// are raised because tests make many rapid requests from one address.
func baseEnv() map[string]string {
	return map[string]string{
		"SHOP_DATABASE_FILE":    "/data/shop.db",
		"SHOP_PEPPER_FILE":      "/data/pepper",
		"SHOP_SESSION_SECRET":   "e2e-session-secret-0123456789abcdef",
		"SHOP_ADMIN_USERNAME":   adminUsername,
		"SHOP_ADMIN_PASSWORD":   adminPassword,
		"SHOP_ADMIN_OTP_SECRET": adminOTPSecret,
		"ENV":                   "test",
		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",

		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
}

func skipUnlessDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// startShop runs the shop image with env layered over baseEnv and returns
// its base URL. The container is terminated when the test ends.
func startShop(t *testing.T, env map[string]string, networks ...string) string {
	t.Helper()
	skipUnlessDocker(t)
	ctx := context.Background()

	merged := baseEnv()
	maps.Copy(merged, env)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          merged,
			Networks:     networks,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

// startShopWithRedis runs Redis and a shop keeping its sessions there, on
// a private network.
func startShopWithRedis(t *testing.T) string {
	t.Helper()
	skipUnlessDocker(t)
	ctx := context.Background()

	nw, err := network.New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = nw.Remove(ctx) })

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          "redis:7-alpine",
			Networks:       []string{nw.Name},
			NetworkAliases: map[string][]string{nw.Name: {"redis"}},
			WaitingFor:     wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis: %v", err)
		}
	})

	return startShop(t, map[string]string{
		"SHOP_SESSION_BACKEND": "redis",
		"SHOP_REDIS_ADDR":      "redis:6379",
	}, nw.Name)
}

func otpCode(t *testing.T, secret string) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

// registerAndLogin creates a shopper and leaves client signed in as them.
func registerAndLogin(t *testing.T, client *shopsdk.SDKClient, username string) {
	t.Helper()
	ctx := t.Context()

	enrollment, err := client.Register(ctx, username, shopperPassword)
	require.NoError(t, err, "Register should reach the OTP step")
	require.NotEmpty(t, enrollment.Secret)
	require.NoError(t, client.SubmitRegistrationOTP(ctx, otpCode(t, enrollment.Secret)))

	require.NoError(t, client.Login(ctx, username, shopperPassword))
	landing, err := client.SubmitLoginOTP(ctx, otpCode(t, enrollment.Secret))
	require.NoError(t, err)
	require.Equal(t, "/", landing)
}

// loginAdmin signs client in as the seeded administrator.
func loginAdmin(t *testing.T, client *shopsdk.SDKClient) {
	t.Helper()
	ctx := t.Context()

	require.NoError(t, client.Login(ctx, adminUsername, adminPassword))
	landing, err := client.SubmitLoginOTP(ctx, otpCode(t, adminOTPSecret))
	require.NoError(t, err)
	require.Equal(t, "/admin", landing)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *shopsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertRejected verifies a JSON call failed with the given message.
func assertRejected(t *testing.T, err error, status int, msg string) {
	t.Helper()
	var apiErr *shopsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, msg, apiErr.Message)
}

// postForm submits an HTML form as client and returns where the shop
// landed with the page body.
func postForm(t *testing.T, client *shopsdk.SDKClient, path string, fields map[string]string) (string, string, error) {
	t.Helper()

	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, client.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.HTTPClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", string(body), fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Request.URL.Path, string(body), nil
}

func cart(items map[int64]int64, promo string) shopsdk.CartRequest {
	return shopsdk.NewCartRequest(items, promo)
}
