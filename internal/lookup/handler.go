// Package lookup serves the URLs printed into QR codes: scanning a code
// resolves to the specimen record it was generated for.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"specimenpro/internal/catalog"
	"specimenpro/internal/logger"
	"specimenpro/internal/models"
	"specimenpro/internal/qr"
	"specimenpro/internal/sse"
	"specimenpro/internal/utils"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DocumentSource yields the current document; store.DocumentStore satisfies it.
type DocumentSource interface {
	Load(ctx context.Context) (*models.Document, error)
}

type Handler struct {
	Source  DocumentSource
	Encoder *qr.Encoder
	Cache   PNGCache // optional
	PNGSize int
	Logger  *logger.Logger
	// Stream enables the /stream endpoints when set.
	Stream *sse.Broker
}

type EventSummary struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Type          models.EventType   `json:"type"`
	Status        models.EventStatus `json:"status"`
	Location      string             `json:"location"`
	AlwaysVisible bool               `json:"alwaysVisible"`
	StartDate     string             `json:"startDate"`
	EndDate       string             `json:"endDate"`
	Specimens     []SpecimenRef      `json:"specimens"`
	Badges        []models.Badge     `json:"badges"`
}

type SpecimenRef struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Rarity models.Rarity `json:"rarity"`
	URL    string        `json:"url"`
}

func NewHandler(source DocumentSource, enc *qr.Encoder, cache PNGCache, pngSize int, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if pngSize <= 0 {
		pngSize = 512
	}
	return &Handler{Source: source, Encoder: enc, Cache: cache, PNGSize: pngSize, Logger: log}
}

// Routes mounts the lookup endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", h.Health)
	r.Route("/event/{eventID}", func(r chi.Router) {
		r.Get("/", h.GetEvent)
		r.Get("/{specimenID}", h.GetSpecimen)
	})
	r.Get("/qr/{eventID}/{file}", h.GetQRCode)
	if h.Stream != nil {
		r.Get("/stream", h.StreamNotifications)
		r.Get("/stream/{eventID}", h.StreamNotifications)
	}
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.SuccessResponse(r, "ok", nil))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.findEvent(w, r)
	if !ok {
		return
	}

	summary := EventSummary{
		ID:            ev.ID,
		Title:         ev.Title,
		Description:   ev.Description,
		Type:          ev.Type,
		Status:        ev.Status,
		Location:      ev.Location,
		AlwaysVisible: ev.IsAlwaysVisible(),
		StartDate:     ev.StartDate,
		EndDate:       ev.EndDate,
		Specimens:     make([]SpecimenRef, 0, len(ev.Specimens)),
		Badges:        ev.Badges,
	}
	for _, s := range ev.Specimens {
		summary.Specimens = append(summary.Specimens, SpecimenRef{
			ID:     s.ID,
			Name:   s.Name,
			Rarity: s.Rarity,
			URL:    h.Encoder.URL(ev.ID, s.ID),
		})
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse(r, "event found", summary))
}

// GetSpecimen is the target of every printed QR code.
func (h *Handler) GetSpecimen(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.findEvent(w, r)
	if !ok {
		return
	}
	spec, err := catalog.FindSpecimen(ev, chi.URLParam(r, "specimenID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse(r, "specimen found", spec).WithQRURL(h.Encoder.URL(ev.ID, spec.ID)))
}

func (h *Handler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	specimenID, ok := strings.CutSuffix(file, ".png")
	if !ok || specimenID == "" {
		writeError(w, r, fmt.Errorf("qr image %s: %w", file, models.ErrNotFound))
		return
	}

	ev, ok := h.findEvent(w, r)
	if !ok {
		return
	}
	if _, err := catalog.FindSpecimen(ev, specimenID); err != nil {
		writeError(w, r, err)
		return
	}

	target := h.Encoder.URL(ev.ID, specimenID)
	if h.Cache != nil {
		data, hit, err := h.Cache.Get(r.Context(), target)
		if err != nil {
			h.Logger.Warn("REDIS", fmt.Sprintf("Cache read failed for %s: %v", target, err))
		} else if hit {
			writePNG(w, data, "HIT")
			return
		}
	}

	art, err := h.Encoder.Encode(ev.ID, specimenID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := art.PNG(h.PNGSize)
	if err != nil {
		writeError(w, r, fmt.Errorf("render qr: %w", err))
		return
	}

	if h.Cache != nil {
		if err := h.Cache.Set(r.Context(), target, data); err != nil {
			h.Logger.Warn("REDIS", fmt.Sprintf("Cache write failed for %s: %v", target, err))
		}
	}
	writePNG(w, data, "MISS")
}

func (h *Handler) findEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	doc, err := h.Source.Load(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to load document: %v", err))
		writeError(w, r, err)
		return nil, false
	}
	ev, err := catalog.FindEvent(doc, chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return ev, true
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.Logger.LogAPI(r.Method, r.URL.Path, fmt.Sprintf("%d", ww.Status()), time.Since(start).String())
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrPayloadTooLarge), errors.Is(err, models.ErrInvalidConfiguration):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	writeJSON(w, status, utils.ErrorResponse(r, status, err))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writePNG(w http.ResponseWriter, data []byte, cacheStatus string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
