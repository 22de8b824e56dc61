package utils

import (
	"os"
	"strconv"
	"time"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("DANCEHUB_JWT_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("DANCEHUB_JWT_ISSUER")
	if issuer == "" {
		issuer = "dancehub"
	}

	duration := 24 * time.Hour
	if ttl := os.Getenv("DANCEHUB_TICKET_TTL_HOURS"); ttl != "" {
		if hours, err := strconv.Atoi(ttl); err == nil && hours > 0 {
			duration = time.Duration(hours) * time.Hour
		}
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: duration,
	}
}

type ServerConfig struct {
	// DisplayName titles the carousel header category.
	DisplayName   string
	PlaylistsPath string
	HTTPAddr      string
	EventsAddr    string
	NotifyAddr    string
}

func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		DisplayName:   "DanceHub",
		PlaylistsPath: "data/playlists.json",
		HTTPAddr:      ":8080",
		EventsAddr:    ":7070",
		NotifyAddr:    ":7071",
	}
	if v := os.Getenv("DANCEHUB_DISPLAY_NAME"); v != "" {
		cfg.DisplayName = v
	}
	if v := os.Getenv("DANCEHUB_PLAYLISTS_PATH"); v != "" {
		cfg.PlaylistsPath = v
	}
	if v := os.Getenv("DANCEHUB_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("DANCEHUB_EVENTS_ADDR"); v != "" {
		cfg.EventsAddr = v
	}
	if v := os.Getenv("DANCEHUB_NOTIFY_ADDR"); v != "" {
		cfg.NotifyAddr = v
	}
	return cfg
}
