package http

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	"github.com/aussiebroadwan/fruitshop/internal/shop/http/reqctx"
	"github.com/aussiebroadwan/fruitshop/internal/shop/http/views"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/aussiebroadwan/fruitshop/pkg/httpx"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"
)

const internalErrorMessage = "Something went wrong. Please try again later."

// page describes an HTML response.
type page struct {
	Title   string
	Status  int
	Body    templ.Component
	Scripts []string
}

// renderPage drains the flash queue into the layout, saves the session and
// writes the page. The page is rendered into a buffer first so a template
// failure can still become a 500.
func renderPage(w http.ResponseWriter, r *http.Request, p page) {
	rc := reqctx.From(r.Context())
	chrome := views.Page{Title: p.Title, Scripts: p.Scripts}
	if rc != nil {
		chrome.User = rc.User
		chrome.Flashes = rc.Session.Flashes()
	}

	var buf bytes.Buffer
	if err := views.Layout(chrome, p.Body).Render(r.Context(), &buf); err != nil {
		serverError(w, r, err)
		return
	}
	if !saveSession(w, r) {
		return
	}

	status := p.Status
	if status <= 0 {
		status = http.StatusOK
	}
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// redirect saves the session and sends the browser to to.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if !saveSession(w, r) {
		return
	}
	httpx.Redirect(w, r, to)
}

// flashRedirect queues msg for the next page and redirects.
func flashRedirect(w http.ResponseWriter, r *http.Request, kind session.FlashKind, msg, to string) {
	if rc := reqctx.From(r.Context()); rc != nil {
		rc.Session.AddFlash(kind, msg)
	}
	redirect(w, r, to)
}

// saveSession persists the session, answering 500 and reporting false if
// that fails.
func saveSession(w http.ResponseWriter, r *http.Request) bool {
	rc := reqctx.From(r.Context())
	if rc == nil {
		return true
	}
	if err := rc.Session.Save(r.Context(), w); err != nil {
		serverError(w, r, err)
		return false
	}
	return true
}

// serverError logs err and answers 500 as JSON or as a plain page.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Error("request failed", "error", err)

	if httpx.WantsJSON(r) {
		httpx.WriteError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	var buf bytes.Buffer
	body := views.ErrorPage(http.StatusInternalServerError, internalErrorMessage)
	if views.Layout(views.Page{Title: "Error"}, body).Render(r.Context(), &buf) != nil {
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}

func currentSession(r *http.Request) *session.Session {
	return reqctx.From(r.Context()).Session
}
