package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const readinessTimeout = 2 * time.Second

// ReadyResponse lists the dependencies that answered the readiness probe.
type ReadyResponse struct {
	Status  string   `json:"status" example:"ready"`
	Checked []string `json:"checked" example:"store-db,cache,asynq"`
}

// ReadinessCheck pings one dependency.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// DBCheck pings the Postgres generation store.
func DBCheck(name string, db *sql.DB) ReadinessCheck {
	return ReadinessCheck{Name: name, Ping: db.PingContext}
}

// RedisCheck pings a Redis instance.
func RedisCheck(name string, rdb *redis.Client) ReadinessCheck {
	return ReadinessCheck{
		Name: name,
		Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}

// HandleHealthz godoc
// @Summary Health check (liveness)
// @Description Always returns 200 OK if the process is up.
// @Tags health
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	}
}

// HandleReadyz godoc
// @Summary Readiness check
// @Description Pings every dependency this instance was started with, in order. Returns 503 naming the first one that does not answer.
// @Tags health
// @Produce json
// @Success 200 {object} ReadyResponse "All dependencies ready"
// @Failure 503 {object} ErrorResponse "A dependency is unavailable"
// @Router /readyz [get]
func HandleReadyz(checks ...ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checked := make([]string, 0, len(checks))
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := c.Ping(ctx)
			cancel()
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, c.Name+" not ready")
				return
			}
			checked = append(checked, c.Name)
		}

		writeJSON(w, http.StatusOK, ReadyResponse{Status: "ready", Checked: checked})
	}
}
