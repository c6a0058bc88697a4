package shopsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

var secretPattern = regexp.MustCompile(`<code id="otp-secret">([A-Z2-7]+)</code>`)

// Enrollment is what a new account needs to set up its authenticator.
type Enrollment struct {
	Secret string
}

func (c *SDKClient) postForm(ctx context.Context, path string, form url.Values) (string, []byte, error) {
	rep, err := c.send(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, err
	}
	if rep.status != http.StatusOK {
		return "", nil, parseErrorResponse(rep.status, rep.body)
	}
	return rep.path, rep.body, nil
}

// Login submits the password step. On success the shop is waiting for an
// OTP code, which SubmitLoginOTP sends.
func (c *SDKClient) Login(ctx context.Context, username, password string) error {
	final, _, err := c.postForm(ctx, "/login", url.Values{"username": {username}, "password": {password}})
	if err != nil {
		return err
	}
	if final != "/login/2fa" {
		return ErrRejected
	}
	return nil
}

// SubmitLoginOTP completes a login. It returns the page the shop landed
// on: "/" for shoppers and "/admin" for administrators.
func (c *SDKClient) SubmitLoginOTP(ctx context.Context, code string) (string, error) {
	final, _, err := c.postForm(ctx, "/login/2fa", url.Values{"otp": {code}})
	if err != nil {
		return "", err
	}
	if final != "/" && final != "/admin" {
		return final, ErrRejected
	}
	return final, nil
}

// Register starts a sign-up and returns the generated OTP secret.
func (c *SDKClient) Register(ctx context.Context, username, password string) (*Enrollment, error) {
	final, body, err := c.postForm(ctx, "/register", url.Values{"username": {username}, "password": {password}})
	if err != nil {
		return nil, err
	}
	if final != "/register/2fa" {
		return nil, ErrRejected
	}
	m := secretPattern.FindSubmatch(body)
	if m == nil {
		return nil, errors.New("shopsdk: otp secret not found on enrollment page")
	}
	return &Enrollment{Secret: string(m[1])}, nil
}

// SubmitRegistrationOTP proves the enrollment and creates the account.
// The shopper still has to log in afterwards.
func (c *SDKClient) SubmitRegistrationOTP(ctx context.Context, code string) error {
	final, _, err := c.postForm(ctx, "/register/2fa", url.Values{"otp": {code}})
	if err != nil {
		return err
	}
	if final != "/login" {
		return ErrRejected
	}
	return nil
}

func (c *SDKClient) Logout(ctx context.Context) error {
	_, _, err := c.postForm(ctx, "/logout", url.Values{})
	return err
}
