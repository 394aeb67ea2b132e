package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dbsmedya/locmatrix/internal/analytics"
	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/crawler"
	"github.com/dbsmedya/locmatrix/internal/matrix"
	"github.com/dbsmedya/locmatrix/internal/render"
)

var contentTypes = map[render.Format]string{
	render.FormatJSON:     "application/json",
	render.FormatMarkdown: "text/markdown; charset=utf-8",
	render.FormatYAML:     "application/yaml",
	render.FormatText:     "text/plain; charset=utf-8",
}

// matrixQuery is the parsed query string of a matrix request.
type matrixQuery struct {
	locales  []string
	excluded []string
	filters  matrix.Filters
	format   render.Format
}

func (s *Server) parseMatrixQuery(r *http.Request) (matrixQuery, error) {
	q := r.URL.Query()
	mq := matrixQuery{
		locales:  s.cfg.EffectiveLocales(),
		excluded: s.cfg.Crawl.BreakOnContentTypes,
		format:   render.FormatJSON,
	}

	switch {
	case q.Get("locales") != "":
		mq.locales = config.SplitCommaSeparated(q.Get("locales"))
	case q.Get("mode") != "":
		mode, err := s.cfg.LocaleMode(q.Get("mode"))
		if err != nil {
			return mq, err
		}
		mq.locales = mode.Locales
	}
	if q.Has("exclude") {
		mq.excluded = config.SplitCommaSeparated(q.Get("exclude"))
	}

	hideLocalized, err := parseBool(q.Get("hide_localized"), s.cfg.Crawl.FilterFullyLocalized)
	if err != nil {
		return mq, fmt.Errorf("invalid hide_localized: %w", err)
	}
	hideNonLocalized, err := parseBool(q.Get("hide_non_localized"), s.cfg.Crawl.FilterFullyNonLocalized)
	if err != nil {
		return mq, fmt.Errorf("invalid hide_non_localized: %w", err)
	}
	mq.filters = matrix.Filters{
		Locales:               mq.locales,
		HideFullyLocalized:    hideLocalized,
		HideFullyNonLocalized: hideNonLocalized,
	}

	if f := q.Get("format"); f != "" {
		if mq.format, err = render.ParseFormat(f); err != nil {
			return mq, err
		}
	}
	return mq, nil
}

func parseBool(value string, fallback bool) (bool, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		s.respondWithError(w, http.StatusBadRequest, "entry id is required")
		return
	}

	mq, err := s.parseMatrixQuery(r)
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	requestID := middleware.GetReqID(r.Context())
	log := s.log.WithRun(requestID)
	reporter := analytics.NewMulti(s.reporter(), analytics.NewPrometheus(s.metrics))
	reporter.LogFilters(mq.filters)

	c := crawler.New(s.store,
		crawler.WithLocales(mq.locales...),
		crawler.WithExcludedContentTypes(mq.excluded...),
		crawler.WithDefaultLocale(s.cfg.Locales.Default),
		crawler.WithReporter(reporter),
		crawler.WithLogger(log),
		crawler.WithMetrics(s.metrics),
	)

	start := time.Now()
	rows, err := c.BuildTree(r.Context(), id)
	reporter.LogLoadingTime(time.Since(start))
	defer func() {
		go reporter.Send(context.WithoutCancel(r.Context()))
	}()

	if err != nil {
		reporter.LogError(err)
		log.Errorw("Failed to build localization matrix", "entry", id, "error", err)
		s.respondWithError(w, http.StatusBadGateway, "failed to build localization matrix")
		return
	}

	table := matrix.NewTable(c.Locales(), rows)
	reporter.LogRows(table.RowCount())
	usage := c.Usage()

	var buf bytes.Buffer
	opts := render.Options{Filters: mq.filters, Usage: &usage, Title: id}
	if err := render.Render(&buf, table, mq.format, opts); err != nil {
		log.Errorw("Failed to render localization matrix", "entry", id, "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "failed to render localization matrix")
		return
	}

	w.Header().Set("Content-Type", contentTypes[mq.format])
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Warnw("Failed to write response", "error", err)
	}
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	pinger, ok := s.store.(Pinger)
	if !ok {
		s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := pinger.Ping(ctx); err != nil {
		s.log.Errorw("Health check failed for record store", "error", err)
		s.respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Errorw("Failed to write JSON response", "error", err)
	}
}

func (s *Server) respondWithError(w http.ResponseWriter, status int, message string) {
	s.respondWithJSON(w, status, map[string]string{"error": message})
}
