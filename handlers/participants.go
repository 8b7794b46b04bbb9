package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"confsync/participants"
	"confsync/utils"
)

func (a *API) GetParticipants(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	title := ps.ByName("title")
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"tracked":       participants.HasTracking(title),
		"count":         a.Participants.Count(title),
		"participating": a.Participants.IsParticipating(title),
	})
}

func (a *API) ToggleParticipation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	title := ps.ByName("title")
	if !participants.HasTracking(title) {
		utils.RespondWithError(w, http.StatusBadRequest, "session does not track participants")
		return
	}
	joined := a.Participants.Toggle(title)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"ok":            true,
		"participating": joined,
		"count":         a.Participants.Count(title),
	})
}
