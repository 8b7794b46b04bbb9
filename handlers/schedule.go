package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"confsync/utils"
	"confsync/viewmodel"
)

// GetSchedule serves the full session list, annotated with booking data when
// the bookings tab is reachable and bare otherwise.
func (a *API) GetSchedule(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessions, ok := a.Sheets.FetchSchedule(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusBadGateway, "schedule feed unavailable")
		return
	}

	snapshot := a.snapshot(r.Context())
	merged := viewmodel.MergeSessions(sessions, snapshot)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"sessions": merged,
		"deviceId": a.Store.DeviceID(),
		"degraded": snapshot == nil,
	})
}

// GetSessionStatus serves the display tuple for one session from the local
// store plus the last-known snapshot. Never blocks on the sheet beyond the
// shared cache refresh.
func (a *API) GetSessionStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("id")
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing session id")
		return
	}

	snapshot := a.snapshot(r.Context())
	status := a.Engine.Status(sessionID, snapshot)
	utils.RespondWithJSON(w, http.StatusOK, status)
}
