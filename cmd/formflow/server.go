package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formflow/pkg/controller"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/render"
)

type serverConfig struct {
	Locale      string
	Stylesheets []string
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
}

type server struct {
	gen    *orchestrator.Orchestrator
	cfg    serverConfig
	logger *slog.Logger
}

func newServer(gen *orchestrator.Orchestrator, cfg serverConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &server{gen: gen, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/forms", s.list)
	r.Get("/forms/{key}", s.show)
	r.Post("/forms/{key}", s.submit)
	return r
}

func (s *server) locale(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return lang
	}
	return s.cfg.Locale
}

func (s *server) list(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"forms": s.gen.Store().Keys()})
}

func (s *server) show(w http.ResponseWriter, r *http.Request) {
	ctrl, err := s.gen.Mount(chi.URLParam(r, "key"), s.locale(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer ctrl.Close()
	s.page(w, r, ctrl, http.StatusOK)
}

func (s *server) submit(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	ctrl, err := s.gen.Mount(key, s.locale(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer ctrl.Close()

	for _, field := range ctrl.Definition().Fields() {
		values, ok := r.PostForm[field.ID]
		if !ok {
			continue
		}
		if err := ctrl.Input(field.ID, values...); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	outcome, err := ctrl.Submit(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	status := http.StatusOK
	switch {
	case len(outcome.Issues) > 0:
		status = http.StatusUnprocessableEntity
	case outcome.Phase == controller.Error:
		status = http.StatusBadGateway
	}
	s.page(w, r, ctrl, status)
}

// page writes the controller's current tree as a full document whose form
// posts back to the request path.
func (s *server) page(w http.ResponseWriter, r *http.Request, ctrl *controller.Controller, status int) {
	tree := ctrl.Tree()
	tree.Root.SetProp("action", r.URL.Path)
	tree.Root.SetProp("method", "post")

	out, err := s.gen.Output(r.Context(), tree, "html", render.RenderOptions{
		Page:        true,
		Title:       ctrl.Definition().Name,
		Stylesheets: s.cfg.Stylesheets,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrDefinitionMissing) {
		http.NotFound(w, r)
		return
	}
	s.logger.Error("request failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err,
	)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
