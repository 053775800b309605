package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/eastwood-fallfest/festmap/internal/controller"
	"github.com/eastwood-fallfest/festmap/internal/dataset"
	"github.com/eastwood-fallfest/festmap/internal/dispatcher"
	"github.com/eastwood-fallfest/festmap/internal/geo"
	"github.com/eastwood-fallfest/festmap/internal/metrics"
	"github.com/eastwood-fallfest/festmap/internal/storage"
	"github.com/eastwood-fallfest/festmap/pkg/core"
)

var maxBodyBytes int64 = 8 << 20

// Dependencies holds what the HTTP surface talks to. Stream and Metrics are
// optional.
type Dependencies struct {
	Log        zerolog.Logger
	Controller *controller.Controller
	Dispatcher *dispatcher.Dispatcher
	Stream     http.Handler
	Metrics    *metrics.Metrics
}

type Handler struct {
	log     zerolog.Logger
	ctrl    *controller.Controller
	disp    *dispatcher.Dispatcher
	stream  http.Handler
	metrics *metrics.Metrics
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		log:     deps.Log,
		ctrl:    deps.Controller,
		disp:    deps.Dispatcher,
		stream:  deps.Stream,
		metrics: deps.Metrics,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.accessLog)

	r.Get("/healthz", h.handleHealthz)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Post("/commands/{command}", h.handleCommand)
			r.Get("/stats", h.handleStats)
			r.Get("/export", h.handleExport)
			r.Post("/import", h.handleImport)

			r.Route("/dev", func(r chi.Router) {
				r.Get("/captures", h.handleCaptures)
				r.Get("/offset", h.handleOffset)
			})

			if h.stream != nil {
				r.Method(http.MethodGet, "/stream", h.stream)
			}
		})
	})

	return r
}

// accessLog logs and measures every request. The websocket route is
// measured when the connection ends.
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		h.metrics.ObserveHTTPRequest(r.Method, route, ww.Status(), time.Since(start))

		h.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("http_request")
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string) {
	h.writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": msg,
		},
	})
}

// writeFailure maps domain errors onto HTTP statuses.
func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatcher.ErrUnknownCommand):
		h.writeError(w, http.StatusNotFound, "unknown_command", err.Error())
	case errors.Is(err, controller.ErrUnknownEntity), errors.Is(err, storage.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, controller.ErrDuplicateEntity):
		h.writeError(w, http.StatusConflict, "duplicate", err.Error())
	case errors.Is(err, controller.ErrNotDraggable):
		h.writeError(w, http.StatusConflict, "not_draggable", err.Error())
	case errors.Is(err, dispatcher.ErrBadPayload),
		errors.Is(err, controller.ErrInvalidArgument),
		errors.Is(err, controller.ErrUnknownLayer),
		errors.Is(err, dataset.ErrInvalid),
		errors.Is(err, dataset.ErrUnknownFormat),
		errors.Is(err, geo.ErrInvalidCoordinates):
		h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, dispatcher.ErrQueueFull):
		h.writeError(w, http.StatusServiceUnavailable, "busy", err.Error())
	default:
		h.log.Error().Err(err).Msg("request failed")
		h.writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// readBody reads at most maxBodyBytes and answers 413 when the client sent
// more.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "too_large",
				fmt.Sprintf("body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		h.writeError(w, http.StatusBadRequest, "invalid_request", "failed to read body")
		return nil, false
	}
	return body, true
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	command := chi.URLParam(r, "command")
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		h.writeError(w, http.StatusBadRequest, "invalid_json", "body is not valid JSON")
		return
	}

	result, err := h.disp.Dispatch(dispatcher.Event{
		Command: command,
		Payload: body,
		Source:  "http",
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

func (h *Handler) handleStats(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.ctrl.Stats())
}

func formatParam(r *http.Request) (dataset.Format, error) {
	switch f := r.URL.Query().Get("format"); f {
	case "", string(dataset.FormatJSON):
		return dataset.FormatJSON, nil
	case string(dataset.FormatYAML), "yml":
		return dataset.FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", dataset.ErrUnknownFormat, f)
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	contentType := "application/json"
	if format == dataset.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if err := dataset.Encode(w, h.ctrl.Export(), format); err != nil {
		h.log.Error().Err(err).Msg("export failed")
	}
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	ds, err := dataset.Decode(bytes.NewReader(body), format)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_dataset", err.Error())
		return
	}
	if err := h.ctrl.Import(ds.Vendors, ds.Infrastructure); err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"vendors":        len(ds.Vendors),
		"infrastructure": len(ds.Infrastructure),
	})
}

func (h *Handler) handleCaptures(w http.ResponseWriter, r *http.Request) {
	drain, _ := strconv.ParseBool(r.URL.Query().Get("drain"))
	var captures []controller.Capture
	if drain {
		captures = h.ctrl.DrainCaptures()
	} else {
		captures = h.ctrl.Captures()
	}
	if captures == nil {
		captures = []controller.Capture{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"devMode":  h.ctrl.DevMode(),
		"captures": captures,
	})
}

func (h *Handler) handleOffset(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "lat and lng are required numbers")
		return
	}
	p := core.NewLatLng(lat, lng)
	if !geo.Valid(p) {
		h.writeFailure(w, geo.ErrInvalidCoordinates)
		return
	}
	offset, snippet := h.ctrl.Offset(p)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"base":    h.ctrl.Base(),
		"point":   p,
		"offset":  offset,
		"snippet": snippet,
	})
}
