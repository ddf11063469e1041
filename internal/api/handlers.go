package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vitrine/internal/apperr"
	"github.com/starford/vitrine/internal/content"
	"github.com/starford/vitrine/internal/gradient"
	"github.com/starford/vitrine/internal/reveal"
	"github.com/starford/vitrine/internal/siteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *siteservice.Service
	obs *reveal.Observer
}

// NewHandler creates a new Handler.
func NewHandler(svc *siteservice.Service, obs *reveal.Observer) *Handler {
	return &Handler{svc: svc, obs: obs}
}

// ListSections handles GET /sections.
//
//	@Summary		Resolve every page section
//	@Tags			sections
//	@Produce		json
//	@Success		200	{object}	SectionsResponse
//	@Router			/sections [get]
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SectionsResponse{
		Version:  h.svc.Version(),
		Sections: h.svc.View().Map(),
	})
}

// GetSection handles GET /sections/{key}.
//
//	@Summary		Resolve one page section
//	@Tags			sections
//	@Produce		json
//	@Param			key	path		string	true	"Section key"
//	@Success		200	{object}	SectionResponse
//	@Failure		404	{object}	errResponse
//	@Router			/sections/{key} [get]
func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	sec, err := h.svc.Section(key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SectionResponse{Key: key, Version: h.svc.Version(), Section: sec})
}

// ListExpertise handles GET /expertise.
//
//	@Summary		List active expertise cards in display order
//	@Tags			sections
//	@Produce		json
//	@Success		200	{object}	ExpertiseResponse
//	@Router			/expertise [get]
func (h *Handler) ListExpertise(w http.ResponseWriter, r *http.Request) {
	cards := h.svc.Expertise()
	if cards == nil {
		cards = []content.Card{}
	}
	writeJSON(w, http.StatusOK, ExpertiseResponse{Cards: cards})
}

// Status handles GET /status.
//
//	@Summary		Report snapshot freshness
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status())
}

func (h *Handler) status() StatusResponse {
	return StatusResponse{
		Version: h.svc.Version(),
		Stores:  h.svc.Status(),
		Mounted: h.obs.Len(),
		Reveal:  h.obs.Options(),
	}
}

// SplitGradient handles GET /gradient?text=.
//
//	@Summary		Split a text into plain and emphasized segments
//	@Tags			sections
//	@Produce		json
//	@Param			text	query		string	false	"Text with (emphasis) markup"
//	@Success		200		{object}	GradientResponse
//	@Router			/gradient [get]
func (h *Handler) SplitGradient(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, gradient.Parse(r.URL.Query().Get("text")))
}

// Refresh handles POST /refresh.
//
//	@Summary		Fetch both content collections now
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Failure		502	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Refresh(r.Context()); err != nil {
		slog.Warn("manual refresh failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody("refresh failed: "+err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, h.status())
}

// Mount handles POST /reveal.
//
//	@Summary		Start observing a mounted section
//	@Tags			reveal
//	@Accept			json
//	@Produce		json
//	@Param			body	body		MountRequest	true	"Section to mount"
//	@Success		201		{object}	MountResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/reveal [post]
func (h *Handler) Mount(w http.ResponseWriter, r *http.Request) {
	var req MountRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if req.Section == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("section is required"))
		return
	}
	motions, err := h.svc.Choreography(req.Section)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	in, err := h.obs.Mount(req.Section)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	state := in.State()
	writeJSON(w, http.StatusCreated, MountResponse{
		ID:      in.ID,
		Section: in.Section,
		State:   state,
		Motions: motions,
		Cues:    reveal.Cues(motions, state),
	})
}

// Report handles POST /reveal/{id}/entries.
//
//	@Summary		Feed an intersection sample to a mounted section
//	@Tags			reveal
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Instance id"
//	@Param			body	body		ReportRequest	true	"Target and root rectangles"
//	@Success		200		{object}	ReportResponse
//	@Failure		404		{object}	errResponse
//	@Router			/reveal/{id}/entries [post]
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req ReportRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	in, err := h.obs.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	state, changed, err := h.obs.Report(id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	motions, err := h.svc.Choreography(in.Section)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReportResponse{
		ID:      id,
		State:   state,
		Changed: changed,
		Cues:    reveal.Cues(motions, state),
	})
}

// Unmount handles DELETE /reveal/{id}.
//
//	@Summary		Stop observing a section
//	@Tags			reveal
//	@Param			id	path	string	true	"Instance id"
//	@Success		204
//	@Failure		404	{object}	errResponse
//	@Router			/reveal/{id} [delete]
func (h *Handler) Unmount(w http.ResponseWriter, r *http.Request) {
	if err := h.obs.Unmount(chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrReleased):
		writeJSON(w, http.StatusGone, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrClosed):
		writeJSON(w, http.StatusServiceUnavailable, errorBody("shutting down"))
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
