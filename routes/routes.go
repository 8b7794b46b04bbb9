package routes

import (
	"github.com/julienschmidt/httprouter"

	"confsync/handlers"
	"confsync/live"
	"confsync/middleware"
	"confsync/ratelim"
)

func AddScheduleRoutes(router *httprouter.Router, api *handlers.API) {
	router.GET("/api/schedule", api.GetSchedule)
	router.GET("/api/sessions/:id/status", api.GetSessionStatus)
}

func AddBookingRoutes(router *httprouter.Router, api *handlers.API, rl *ratelim.RateLimiter) {
	router.POST("/api/sessions/:id/book", rl.Limit(api.BookSession))
	router.DELETE("/api/sessions/:id/booking", rl.Limit(api.CancelSession))
}

func AddPhotoSlotRoutes(router *httprouter.Router, api *handlers.API, rl *ratelim.RateLimiter) {
	router.GET("/api/photoslots", api.GetPhotoSlots)
	router.POST("/api/photoslots/:slot/book", rl.Limit(api.BookPhotoSlot))
	router.DELETE("/api/photoslots/:slot/booking", rl.Limit(api.CancelPhotoSlot))
}

func AddParticipantRoutes(router *httprouter.Router, api *handlers.API) {
	router.GET("/api/participants/:title", api.GetParticipants)
	router.POST("/api/participants/:title/toggle", api.ToggleParticipation)
}

func AddAdminRoutes(router *httprouter.Router, api *handlers.API) {
	router.POST("/api/admin/login", api.AdminLogin)
	router.GET("/api/admin/bookings", middleware.RequireAdmin(api.ListLocalBookings))
	router.DELETE("/api/admin/bookings", middleware.RequireAdmin(api.ClearLocalBookings))
	router.POST("/api/admin/resync", middleware.RequireAdmin(api.Resync))
	router.GET("/api/admin/slot-template", middleware.RequireAdmin(api.GetSlotTemplate))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/api/live", live.ServeWS(hub))
}
