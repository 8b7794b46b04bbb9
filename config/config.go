package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config collects everything the service reads from the environment.
type Config struct {
	Port string

	DataDir string

	ScheduleCSVURL string
	BookingsCSVURL string
	SlotsCSVURL    string

	WebhookURL      string
	SlotsWebhookURL string

	FetchTimeout time.Duration
	PushTimeout  time.Duration

	RedisAddr   string
	SnapshotTTL time.Duration

	JWTSecret         string
	AdminPasswordHash string
}

// Load reads the environment (a .env file, if any, is loaded by main before
// this runs) and applies defaults for everything optional.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("FETCH_TIMEOUT", "10s")
	v.SetDefault("PUSH_TIMEOUT", "5s")
	v.SetDefault("SNAPSHOT_TTL", "30s")

	return Config{
		Port:              v.GetString("PORT"),
		DataDir:           v.GetString("DATA_DIR"),
		ScheduleCSVURL:    v.GetString("SCHEDULE_CSV_URL"),
		BookingsCSVURL:    v.GetString("BOOKINGS_CSV_URL"),
		SlotsCSVURL:       v.GetString("SLOTS_CSV_URL"),
		WebhookURL:        v.GetString("WEBHOOK_URL"),
		SlotsWebhookURL:   v.GetString("SLOTS_WEBHOOK_URL"),
		FetchTimeout:      v.GetDuration("FETCH_TIMEOUT"),
		PushTimeout:       v.GetDuration("PUSH_TIMEOUT"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		SnapshotTTL:       v.GetDuration("SNAPSHOT_TTL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}
}
