package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	"confsync/middleware"
	"confsync/photoslots"
	"confsync/utils"
)

// AdminLogin trades the shared admin password for a JWT guarding the
// diagnostic endpoints.
func (a *API) AdminLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing password")
		return
	}

	if a.AdminPasswordHash == "" {
		utils.RespondWithError(w, http.StatusForbidden, "admin access not configured")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.AdminPasswordHash), []byte(req.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	token, err := middleware.NewAdminToken()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "token signing failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": token})
}

// ListLocalBookings dumps this device's records as stored on disk.
func (a *API) ListLocalBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"deviceId": a.Store.DeviceID(),
		"bookings": a.Store.ListAll(),
	})
}

// ClearLocalBookings wipes this device's records. The remote rows stay; use
// Resync on another device or edit the sheet to clean those up.
func (a *API) ClearLocalBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.Store.Clear()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// Resync re-pushes every local booking to the sheet.
func (a *API) Resync(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	count := a.Engine.ResyncAll()
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "resynced": count})
}

// GetSlotTemplate serves the CSV body to paste into a fresh slots tab.
func (a *API) GetSlotTemplate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(photoslots.Template()))
}
