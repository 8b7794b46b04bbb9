// Package handlers is the HTTP surface over the booking core. Handlers stay
// thin: parse, call the engine or stores, shape the JSON envelope.
package handlers

import (
	"context"

	"confsync/live"
	"confsync/localstore"
	"confsync/models"
	"confsync/participants"
	"confsync/photoslots"
	"confsync/rdx"
	"confsync/reconcile"
	"confsync/sheets"
)

type API struct {
	Engine       *reconcile.Engine
	Store        *localstore.Store
	Sheets       *sheets.Client
	Slots        *photoslots.Booker
	Participants *participants.Tracker
	Cache        *rdx.Cache
	Hub          *live.Hub

	AdminPasswordHash string
}

// snapshot returns the freshest booking snapshot available for display
// reads. The cache keeps schedule refreshes off the sheet export; booking
// mutations never come through here; the engine always fetches fresh.
func (a *API) snapshot(ctx context.Context) models.RemoteBookingSnapshot {
	if snap, ok := a.Cache.GetSnapshot(ctx); ok {
		return snap
	}
	snap, ok := a.Sheets.FetchBookings(ctx)
	if !ok {
		return nil
	}
	a.Cache.SetSnapshot(ctx, snap)
	return snap
}
