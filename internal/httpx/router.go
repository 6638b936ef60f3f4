package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/commercedesk/affiliate-kpi/internal/report"
	"github.com/commercedesk/affiliate-kpi/internal/service"
	"github.com/commercedesk/affiliate-kpi/internal/utils"
)

// NewRouter exposes the read API over the analytics core. reportPath is where
// POST /report/run writes the rendered Markdown.
func NewRouter(log *slog.Logger, svc *service.Service, reportPath string) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Get("/kpis", func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.Overview(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, o)
	})

	mux.Get("/performance/partners", func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Partners(r.Context(), r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, rows)
	})

	mux.Get("/performance/campaigns", func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Campaigns(r.Context(), r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, rows)
	})

	mux.Get("/quality", func(w http.ResponseWriter, r *http.Request) {
		issues, err := svc.Quality(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		writeJSON(w, issues)
	})

	mux.Get("/report", func(w http.ResponseWriter, r *http.Request) {
		md, err := svc.Report(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(md))
	})

	mux.Post("/report/run", func(w http.ResponseWriter, r *http.Request) {
		md, err := svc.Report(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 502)
			return
		}
		if err := report.WriteFile(reportPath, md); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, map[string]any{"written": reportPath})
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
