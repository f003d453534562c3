package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/hieroscope/internal/apperr"
	"github.com/starford/hieroscope/internal/checksum"
	"github.com/starford/hieroscope/internal/models"
	"github.com/starford/hieroscope/internal/widgetservice"
)

// dateLayout is the layout of the ?date= query parameter.
const dateLayout = "2006-01-02"

// Handler holds API route handlers.
type Handler struct {
	svc *widgetservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *widgetservice.Service) *Handler {
	return &Handler{svc: svc}
}

// referenceTime reads ?at= (RFC 3339) or ?date= (YYYY-MM-DD, in the service
// clock's location), defaulting to now.
func (h *Handler) referenceTime(r *http.Request) (time.Time, error) {
	now := h.svc.Now()
	q := r.URL.Query()
	if at := q.Get("at"); at != "" {
		return time.Parse(time.RFC3339, at)
	}
	if date := q.Get("date"); date != "" {
		return time.ParseInLocation(dateLayout, date, now.Location())
	}
	return now, nil
}

func widgetSize(r *http.Request) (models.WidgetSize, bool) {
	raw := r.URL.Query().Get("size")
	if raw == "" {
		return models.SizeSmall, true
	}
	return models.ParseWidgetSize(raw)
}

// Season handles GET /api/season.
//
//	@Summary	Resolve the season in effect on a date
//	@Param		date	query	string	false	"Reference date (YYYY-MM-DD)"
//	@Param		at		query	string	false	"Reference instant (RFC 3339)"
//	@Param		detail	query	string	false	"Detail level"	Enums(minimal, medium, full)
//	@Success	200		{object}	SeasonResponse
//	@Router		/season [get]
func (h *Handler) Season(w http.ResponseWriter, r *http.Request) {
	at, err := h.referenceTime(r)
	if err != nil {
		badRequest(w, "invalid date")
		return
	}
	detail := models.DetailFull
	if raw := r.URL.Query().Get("detail"); raw != "" {
		d, ok := models.ParseDetailLevel(raw)
		if !ok {
			badRequest(w, "detail must be one of minimal, medium, full")
			return
		}
		detail = d
	}
	s := h.svc.Season(r.Context(), at, detail)
	writeJSON(w, http.StatusOK, SeasonResponse{
		Date:   at.Format(dateLayout),
		Detail: detail,
		Season: s,
		Empty:  s.IsEmpty(),
	})
}

// Catalog handles GET /api/catalog. Responses carry an ETag and honour
// If-None-Match.
//
//	@Summary	List the validated season catalog
//	@Success	200	{object}	CatalogResponse
//	@Failure	503	{object}	errResponse
//	@Router		/catalog [get]
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Catalog(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrResourceUnavailable) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("catalog unavailable"))
			return
		}
		slog.Error("api: catalog failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if entries == nil {
		entries = []models.SeasonEntry{}
	}
	resp := CatalogResponse{Sekki: entries}
	body, err := json.Marshal(resp)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CatalogEntry handles GET /api/catalog/{id}.
//
//	@Summary	Get one season entry by id
//	@Param		id	path		string	true	"Season id"
//	@Success	200	{object}	models.SeasonEntry
//	@Failure	404	{object}	errResponse
//	@Router		/catalog/{id} [get]
func (h *Handler) CatalogEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Entry(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("season not found"))
	case errors.Is(err, apperr.ErrResourceUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("catalog unavailable"))
	case err != nil:
		slog.Error("api: catalog entry failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	default:
		writeJSON(w, http.StatusOK, e)
	}
}

// Options handles GET /api/options.
//
//	@Summary	List display options and the current selection
//	@Success	200	{object}	OptionsResponse
//	@Router		/options [get]
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OptionsResponse{
		Options:  models.DisplayOptions,
		Selected: h.svc.DisplayOption(r.Context()),
	})
}

// GetPreference handles GET /api/preference.
//
//	@Summary	Get the stored display option
//	@Success	200	{object}	PreferenceResponse
//	@Router		/preference [get]
func (h *Handler) GetPreference(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PreferenceResponse{DisplayOption: h.svc.DisplayOption(r.Context())})
}

// UpdatePreference handles PUT /api/preference.
//
//	@Summary	Store the display option and reload widgets
//	@Param		body	body		UpdatePreferenceRequest	true	"New option"
//	@Success	200		{object}	PreferenceResponse
//	@Failure	400		{object}	errResponse
//	@Router		/preference [put]
func (h *Handler) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	var req UpdatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(w, err.Error())
		return
	}
	opt := models.DisplayOption(req.DisplayOption)
	if err := h.svc.SetDisplayOption(r.Context(), opt); err != nil {
		if errors.Is(err, apperr.ErrInvalidOption) {
			badRequest(w, "unknown display option")
			return
		}
		slog.Error("api: set preference failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, PreferenceResponse{DisplayOption: opt})
}

// Widget handles GET /api/widget.
//
//	@Summary	Render the widget text for the stored option
//	@Param		size	query	string	false	"Widget size"	Enums(small, medium, large)
//	@Param		at		query	string	false	"Reference instant (RFC 3339)"
//	@Success	200		{object}	WidgetResponse
//	@Router		/widget [get]
func (h *Handler) Widget(w http.ResponseWriter, r *http.Request) {
	size, ok := widgetSize(r)
	if !ok {
		badRequest(w, "size must be one of small, medium, large")
		return
	}
	at, err := h.referenceTime(r)
	if err != nil {
		badRequest(w, "invalid date")
		return
	}
	writeJSON(w, http.StatusOK, WidgetResponse{
		Size:          size,
		DisplayOption: h.svc.DisplayOption(r.Context()),
		At:            at,
		Text:          h.svc.Render(r.Context(), size, at),
	})
}

// Timeline handles GET /api/timeline.
//
//	@Summary	Render the refresh timeline for the next window
//	@Param		size	query	string	false	"Widget size"	Enums(small, medium, large)
//	@Param		at		query	string	false	"Window start (RFC 3339)"
//	@Success	200		{object}	models.Timeline
//	@Router		/timeline [get]
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	size, ok := widgetSize(r)
	if !ok {
		badRequest(w, "size must be one of small, medium, large")
		return
	}
	at, err := h.referenceTime(r)
	if err != nil {
		badRequest(w, "invalid date")
		return
	}
	tl, err := h.svc.Timeline(r.Context(), size, at)
	if err != nil {
		slog.Error("api: timeline failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

// Icons handles GET /api/icons.
//
//	@Summary	Get the icons chosen for the day
//	@Param		at	query	string	false	"Reference instant (RFC 3339)"
//	@Success	200	{object}	IconsResponse
//	@Router		/icons [get]
func (h *Handler) Icons(w http.ResponseWriter, r *http.Request) {
	at, err := h.referenceTime(r)
	if err != nil {
		badRequest(w, "invalid date")
		return
	}
	icons, err := h.svc.Icons(r.Context(), at)
	if err != nil {
		slog.Error("api: icons failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, IconsResponse{Icons: icons})
}
