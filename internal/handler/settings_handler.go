package handler

import (
	"encoding/json"
	"net/http"

	"clinic-archive/internal/model"
	"clinic-archive/internal/service"
	"clinic-archive/pkg/apierror"
)

type SettingsHandler struct {
	service *service.SettingsService
}

func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	entityType, err := entityTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	settings, err := h.service.Get(r.Context(), entityType)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, settings, nil)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	entityType, err := entityTypeParam(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload model.ArchiveSettings
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	saved, err := h.service.Save(r.Context(), entityType, payload, actorFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, saved, nil)
}
