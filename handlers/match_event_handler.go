package handlers

import (
	"net/http"

	"github.com/Dosada05/matchday-system/middleware"
	"github.com/Dosada05/matchday-system/services"
)

type MatchEventHandler struct {
	matchEventService services.MatchEventService
}

func NewMatchEventHandler(matchEventService services.MatchEventService) *MatchEventHandler {
	return &MatchEventHandler{matchEventService: matchEventService}
}

func (h *MatchEventHandler) Record(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	requesterID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.RecordEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.matchEventService.Record(r.Context(), requesterID, fixtureID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchEventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID, err := idParam(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	requesterID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	if err := h.matchEventService.Delete(r.Context(), requesterID, eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchEventHandler) Reset(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	requesterID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	deleted, err := h.matchEventService.ResetByFixture(r.Context(), requesterID, fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted_count": deleted}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchEventHandler) List(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.matchEventService.ListByFixture(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
