package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/fruitshop/pkg/httpx"
	"github.com/aussiebroadwan/fruitshop/pkg/shopsdk"
)

// checkTimeout bounds each readiness check so a hung dependency cannot hold
// the request open.
const checkTimeout = 2 * time.Second

// Pinger is anything readiness can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type health struct {
	started time.Time
	version string
}

func (h health) response(status string) shopsdk.HealthResponse {
	return shopsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Version: h.version,
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is serving requests
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	shopsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get]
func LivezHandler(started time.Time, version string) http.HandlerFunc {
	h := health{started: started, version: version}
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, h.response("ok"))
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Pings the database and the session store; 503 when either fails
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	shopsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	shopsdk.HealthResponse	"status, uptime, version, checks"
//	@Router			/readyz [get]
func ReadyzHandler(started time.Time, version string, db, sessions Pinger) http.HandlerFunc {
	h := health{started: started, version: version}
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &shopsdk.HealthChecks{
			Database: check(r.Context(), db),
			Sessions: check(r.Context(), sessions),
		}

		resp, code := h.response("ok"), http.StatusOK
		if checks.Database != "ok" || checks.Sessions != "ok" {
			resp, code = h.response("degraded"), http.StatusServiceUnavailable
		}
		resp.Checks = checks
		httpx.WriteJSON(w, code, resp)
	}
}

func check(ctx context.Context, p Pinger) string {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
