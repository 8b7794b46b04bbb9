package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"confsync/reconcile"
	"confsync/utils"
)

type bookRequest struct {
	Names []string `json:"names"`
	// Capacity is the value the client saw on the schedule; used as a
	// fallback when the bookings tab has no row for the session yet.
	Capacity int `json:"capacity"`
}

// BookSession runs the full attempt sequence. Full and invalid requests are
// expected outcomes and answer with structured rejections, not errors.
func (a *API) BookSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("id")
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing session id")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result := a.Engine.AttemptBook(r.Context(), sessionID, req.Names, req.Capacity)
	switch result.Outcome {
	case reconcile.Booked:
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "result": result})
	case reconcile.RejectedFull:
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{
			"ok": false, "reason": "session-full", "spotsLeft": result.SpotsLeft,
		})
	default:
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{
			"ok": false, "reason": "invalid-names",
		})
	}
}

// CancelSession drops this device's booking. Idempotent: cancelling a
// session that was never booked answers ok.
func (a *API) CancelSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("id")
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing session id")
		return
	}

	a.Engine.Cancel(r.Context(), sessionID)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
