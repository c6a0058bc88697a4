package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/fruitshop/internal/shop/domain"
	"github.com/aussiebroadwan/fruitshop/internal/shop/http/views"
	"github.com/aussiebroadwan/fruitshop/internal/shop/service"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"
)

// AuthHandler runs the two-step login and registration forms. The pending
// state between the steps lives in the session.
type AuthHandler struct {
	AuthService *service.AuthService
	Now         func() time.Time
}

func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, page{Title: "Login", Body: views.Login()})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	pending, err := h.AuthService.BeginLogin(r.Context(), username, password)
	if err != nil {
		h.handleAuthError(w, r, err, "/login")
		return
	}

	sess := currentSession(r)
	sess.Reset()
	sess.SetPendingLogin(pending)
	redirect(w, r, "/login/2fa")
}

func (h *AuthHandler) HandleLoginOTPPage(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if p := sess.PendingLogin(); p == nil || p.Expired(h.now()) {
		sess.SetPendingLogin(nil)
		redirect(w, r, "/login")
		return
	}
	renderPage(w, r, page{Title: "Two-factor authentication", Body: views.LoginOTP()})
}

func (h *AuthHandler) HandleLoginOTP(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	pending := sess.PendingLogin()

	user, err := h.AuthService.CompleteLogin(r.Context(), pending, strings.TrimSpace(r.PostFormValue("otp")))
	switch {
	case errors.Is(err, service.ErrNoPendingAuth), errors.Is(err, service.ErrTooManyAttempts):
		sess.SetPendingLogin(nil)
		h.handleAuthError(w, r, err, "/login")
		return
	case err != nil:
		// Keep the bumped attempt count.
		sess.SetPendingLogin(pending)
		h.handleAuthError(w, r, err, "/login/2fa")
		return
	}

	sess.Reset()
	sess.SetAuth(&session.Auth{UserID: user.ID, Username: user.Username, Role: user.Role, Balance: user.Balance})
	sess.AddFlash(session.FlashInfo, "Logged in as: "+user.Username)
	slogx.FromContext(r.Context()).Info("user logged in", slog.Int64("user_id", user.ID))

	if user.IsAdmin() {
		redirect(w, r, "/admin")
		return
	}
	redirect(w, r, "/")
}

func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, page{Title: "Register", Body: views.Register()})
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	pending, err := h.AuthService.BeginRegistration(r.Context(), username, password)
	if err != nil {
		h.handleAuthError(w, r, err, "/register")
		return
	}

	sess := currentSession(r)
	sess.Reset()
	sess.SetPendingRegistration(pending)
	redirect(w, r, "/register/2fa")
}

func (h *AuthHandler) HandleRegisterOTPPage(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	pending := sess.PendingRegistration()
	if pending == nil || pending.Expired(h.now()) {
		sess.SetPendingRegistration(nil)
		redirect(w, r, "/register")
		return
	}

	qr, err := service.QRCodeDataURI(pending.URI)
	if err != nil {
		// The secret is still shown in text.
		slogx.FromContext(r.Context()).Warn("failed to render otp qr code", "error", err)
	}

	renderPage(w, r, page{
		Title: "Set up two-factor authentication",
		Body:  views.RegisterOTP(pending.Secret, pending.URI, qr),
	})
}

func (h *AuthHandler) HandleRegisterOTP(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	pending := sess.PendingRegistration()

	user, err := h.AuthService.CompleteRegistration(r.Context(), pending, strings.TrimSpace(r.PostFormValue("otp")))
	switch {
	case errors.Is(err, service.ErrNoPendingAuth),
		errors.Is(err, service.ErrTooManyAttempts),
		errors.Is(err, service.ErrUsernameTaken):
		sess.SetPendingRegistration(nil)
		h.handleAuthError(w, r, err, "/register")
		return
	case err != nil:
		sess.SetPendingRegistration(pending)
		h.handleAuthError(w, r, err, "/register/2fa")
		return
	}

	sess.Reset()
	sess.AddFlash(session.FlashInfo, fmt.Sprintf(
		"You have successfully registered, %s. A complimentary $%s has been credited to your account.",
		user.Username, domain.StartingBalance.String(),
	))
	redirect(w, r, "/login")
}

// HandleLogout ends the session. GET is accepted as well as POST.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	sess.Reset()
	flashRedirect(w, r, session.FlashInfo, "Logged out.", "/login")
}

// handleAuthError flashes the message for err and sends the visitor to
// back. Errors without a message are internal.
func (h *AuthHandler) handleAuthError(w http.ResponseWriter, r *http.Request, err error, back string) {
	var msg string
	switch {
	case errors.Is(err, service.ErrNoPendingAuth):
		redirect(w, r, back)
		return
	case errors.Is(err, service.ErrMissingCredentials):
		msg = "Please enter a username and password."
	case errors.Is(err, service.ErrInvalidCredentials):
		msg = "Incorrect username or password."
	case errors.Is(err, service.ErrUsernameTaken):
		msg = "Username is already taken."
	case errors.Is(err, service.ErrUsernameTooLong):
		msg = fmt.Sprintf("Username cannot be more than %d characters.", service.MaxUsernameLength)
	case errors.Is(err, service.ErrMissingOTP):
		msg = "Please enter an OTP code."
	case errors.Is(err, service.ErrInvalidOTP):
		msg = "Invalid OTP code."
	case errors.Is(err, service.ErrTooManyAttempts):
		msg = "Too many invalid OTP codes. Please start again."
	default:
		serverError(w, r, err)
		return
	}
	flashRedirect(w, r, session.FlashError, msg, back)
}

func (h *AuthHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}
