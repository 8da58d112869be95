package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"clinic-archive/internal/model"
	"clinic-archive/internal/service"
	"clinic-archive/pkg/apierror"
)

type ArchiveHandler struct {
	service *service.ArchiveService
}

func NewArchiveHandler(service *service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{service: service}
}

func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	entityType, err := entityTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	store, err := h.service.List(r.Context(), entityType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ArchiveListData{
		EntityType: entityType,
		Archives:   store,
		Total:      store.Count(),
	}, nil)
}

func (h *ArchiveHandler) Get(w http.ResponseWriter, r *http.Request) {
	entityType, err := entityTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	entityID := chi.URLParam(r, "entity_id")

	entries, err := h.service.Get(r.Context(), entityType, entityID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ArchiveEntriesData{
		EntityType: entityType,
		EntityID:   entityID,
		Entries:    entries,
	}, nil)
}

func (h *ArchiveHandler) Archive(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	entityType, err := entityTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	entry, err := h.service.Archive(r.Context(), entityType, chi.URLParam(r, "entity_id"), payload.Name, payload.Reason, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, entry, nil)
}

func (h *ArchiveHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entityType, err := entityTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "index must be an integer", "index", http.StatusBadRequest))
		return
	}

	removed, err := h.service.DeleteEntry(r.Context(), entityType, chi.URLParam(r, "entity_id"), index, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, removed, nil)
}

func (h *ArchiveHandler) Purge(w http.ResponseWriter, r *http.Request) {
	entityType, err := entityTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	purged, err := h.service.PurgeExpired(r.Context(), entityType, model.PurgeModeManual, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.PurgeResult{
		EntityType: entityType,
		Purged:     purged,
		Message:    service.PurgeMessage(purged),
	}, nil)
}

func (h *ArchiveHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	entityType, err := entityTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Sweep(r.Context(), entityType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *ArchiveHandler) NameAvailable(w http.ResponseWriter, r *http.Request) {
	entityType, err := entityTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	available, err := h.service.CheckNameAvailable(r.Context(), entityType, name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.NameAvailability{Name: name, Available: available}, nil)
}

func entityTypeParam(r *http.Request) (model.EntityType, error) {
	raw := chi.URLParam(r, "entity_type")
	entityType, err := model.ParseEntityType(raw)
	if err != nil {
		return "", apierror.New("BAD_REQUEST", "unknown entity type", raw, http.StatusBadRequest)
	}
	return entityType, nil
}
