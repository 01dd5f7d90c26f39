package handlers

import (
	"net/http"

	"github.com/Dosada05/matchday-system/middleware"
	"github.com/Dosada05/matchday-system/services"
)

type LineupHandler struct {
	lineupService services.LineupService
}

func NewLineupHandler(lineupService services.LineupService) *LineupHandler {
	return &LineupHandler{lineupService: lineupService}
}

func (h *LineupHandler) Set(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	requesterID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		Players []services.LineupPlayerInput `json:"players"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	lineup, err := h.lineupService.SetLineup(r.Context(), requesterID, fixtureID, teamID, input.Players)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"lineup": lineup}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LineupHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	requesterID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.LineupPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.lineupService.AddPlayer(r.Context(), requesterID, fixtureID, teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": stats}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LineupHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID, err := idParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := idParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	requesterID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	if err := h.lineupService.RemovePlayer(r.Context(), requesterID, fixtureID, teamID, playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LineupHandler) List(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := idParam(r, "fixtureID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	lineups, err := h.lineupService.ListByFixture(r.Context(), fixtureID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"lineups": lineups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
