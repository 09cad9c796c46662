package dbstatus

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Royalwole/sesame-sub001/pkg/logger"
	"github.com/Royalwole/sesame-sub001/pkg/mongo"
)

// Gate wraps the reconnect route with the embedding application's
// authorization check. A nil Gate leaves the route unprotected; production
// deployments must supply one.
type Gate func(http.Handler) http.Handler

// HealthResponse is the wire shape of the health endpoint.
type HealthResponse struct {
	Healthy    bool         `json:"healthy"`
	Result     mongo.Result `json:"result"`
	Connection mongo.Record `json:"connection"`
}

type handlers struct {
	pub     *Publisher
	m       *mongo.Manager
	checker *mongo.Checker
	log     *slog.Logger
}

// Routes mounts the status, health and reconnect endpoints on a chi router.
func Routes(m *mongo.Manager, checker *mongo.Checker, gate Gate, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &handlers{pub: NewPublisher(m), m: m, checker: checker, log: log}

	r := chi.NewRouter()
	r.Get("/status", h.handleStatus)
	r.Get("/health", h.handleHealth)
	r.Group(func(r chi.Router) {
		if gate != nil {
			r.Use(gate)
		}
		r.Post("/reconnect", h.handleReconnect)
	})
	return r
}

func (h *handlers) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pub.Response())
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := h.checker.Check(r.Context())

	status := http.StatusOK
	if !res.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Healthy:    res.OK,
		Result:     res,
		Connection: h.pub.Status(),
	})
}

func (h *handlers) handleReconnect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := h.m.ForceReconnect(ctx); err != nil {
		c := mongo.Classify(err)
		h.log.ErrorContext(ctx, "forced reconnect failed",
			logger.Component("dbstatus"), logger.Kind(string(c.Kind)), logger.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"reconnected": false,
			"error":       c,
			"status":      h.pub.Response(),
		})
		return
	}

	h.log.InfoContext(ctx, "forced reconnect succeeded", logger.Component("dbstatus"))
	writeJSON(w, http.StatusOK, map[string]any{
		"reconnected": true,
		"status":      h.pub.Response(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
