package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"confsync/photoslots"
	"confsync/reconcile"
	"confsync/utils"
)

// GetPhotoSlots serves the whole grid with current holders.
func (a *API) GetPhotoSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	booked := a.Slots.List(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"slots":  photoslots.AllSlots(),
		"booked": booked,
	})
}

func (a *API) BookPhotoSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot := ps.ByName("slot")

	var req struct {
		Names []string `json:"names"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	result := a.Slots.Book(r.Context(), slot, req.Names)
	switch result.Outcome {
	case reconcile.Booked:
		a.Hub.SlotChanged(slot)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "result": result})
	case reconcile.RejectedConflict:
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{"ok": false, "reason": "slot-taken"})
	default:
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"ok": false, "reason": "invalid-request"})
	}
}

func (a *API) CancelPhotoSlot(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot := ps.ByName("slot")
	if !a.Slots.Cancel(r.Context(), slot) {
		utils.RespondWithJSON(w, http.StatusForbidden, utils.M{
			"ok": false, "reason": "not-your-slot",
		})
		return
	}
	a.Hub.SlotChanged(slot)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
