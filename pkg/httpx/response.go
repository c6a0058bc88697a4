package httpx

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
)

// ErrorBody is the JSON error envelope: {"error": msg}.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON encodes v before touching the response, so an unencodable value
// becomes a plain 500 rather than a truncated body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, ErrorBody{Error: msg})
}

// NoCache marks a response as private to this request. Every page shows a
// balance or a pending OTP secret.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// Redirect answers with 303 so a form POST is followed by a GET.
func Redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// WantsJSON reports whether the body is JSON or the client accepts only
// JSON. Browsers sending */* get HTML.
func WantsJSON(r *http.Request) bool {
	if isJSON(r.Header.Get("Content-Type")) {
		return true
	}
	for part := range strings.SplitSeq(r.Header.Get("Accept"), ",") {
		if isJSON(part) {
			return true
		}
	}
	return false
}

func isJSON(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(mediaType))
	return err == nil && mt == "application/json"
}
