package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"confsync/config"
	"confsync/globals"
	"confsync/handlers"
	"confsync/live"
	"confsync/localstore"
	"confsync/participants"
	"confsync/photoslots"
	"confsync/ratelim"
	"confsync/rdx"
	"confsync/reconcile"
	"confsync/routes"
	"confsync/sheets"
	"confsync/sink"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		// Booking state must never come from an intermediary cache.
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(api *handlers.API, hub *live.Hub, rl *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddScheduleRoutes(router, api)
	routes.AddBookingRoutes(router, api, rl)
	routes.AddPhotoSlotRoutes(router, api, rl)
	routes.AddParticipantRoutes(router, api)
	routes.AddAdminRoutes(router, api)
	routes.AddLiveRoutes(router, hub)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := config.Load()
	if cfg.JWTSecret != "" {
		globals.JwtSecret = []byte(cfg.JWTSecret)
	}

	port := cfg.Port
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	store, err := localstore.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("open local store: %v", err)
	}
	log.Printf("device id: %s", store.DeviceID())

	reader := sheets.NewClient(cfg.ScheduleCSVURL, cfg.BookingsCSVURL, cfg.SlotsCSVURL, cfg.FetchTimeout)
	webhook := sink.NewWebhook(cfg.WebhookURL, cfg.SlotsWebhookURL, cfg.PushTimeout)
	cache := rdx.NewCache(cfg.RedisAddr, cfg.SnapshotTTL)

	hub := live.NewHub()
	go hub.Run()

	engine := reconcile.NewEngine(store, reader, webhook, hub)
	slots := photoslots.NewBooker(cfg.DataDir, reader, webhook)
	tracker := participants.NewTracker(cfg.DataDir, store.DeviceID)

	api := &handlers.API{
		Engine:            engine,
		Store:             store,
		Sheets:            reader,
		Slots:             slots,
		Participants:      tracker,
		Cache:             cache,
		Hub:               hub,
		AdminPasswordHash: cfg.AdminPasswordHash,
	}

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(api, hub, rateLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	// Stop the hub only once in-flight handlers have drained; they may
	// still publish booking events. Then drain pending webhook pushes so
	// the last booking is not lost.
	hub.Stop()
	engine.Flush()
	slots.Flush()

	log.Println("server stopped cleanly")
}
