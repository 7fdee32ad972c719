package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Twitch
	TwitchUsername     string
	TwitchToken        string
	TwitchChannels     []string
	TwitchClientID     string
	TwitchClientSecret string
	TwitchBroadcaster  string

	// Kick
	KickClientID          string
	KickClientSecret      string
	KickRedirectURI       string
	KickBotToken          string
	KickBroadcasterUserID int
	KickChatroomID        int

	// Overlay
	OverlayHubAddr string
	OverlayURL     string

	// Juegos
	KingUsername      string
	DeniedBots        []string
	StreakPhrases     []string
	StreakMinimum     int
	ChallengeWindow   time.Duration
	SentimentUp       []string
	SentimentDown     []string
	SentimentCooldown time.Duration
	CommandPrefix     string

	// Persistencia
	SQLitePath string

	// Credenciales
	RefreshInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TwitchUsername:     os.Getenv("TWITCH_BOT_USERNAME"),
		TwitchToken:        os.Getenv("TWITCH_BOT_ACCESS_TOKEN"),
		TwitchChannels:     envList("TWITCH_BOT_CHANNELS", nil),
		TwitchClientID:     os.Getenv("TWITCH_CLIENT_ID"),
		TwitchClientSecret: os.Getenv("TWITCH_CLIENT_SECRET"),
		TwitchBroadcaster:  os.Getenv("TWITCH_BROADCASTER"),

		KickClientID:          os.Getenv("KICK_CLIENT_ID"),
		KickClientSecret:      os.Getenv("KICK_CLIENT_SECRET"),
		KickRedirectURI:       os.Getenv("KICK_REDIRECT_URI"),
		KickBotToken:          os.Getenv("KICK_BOT_TOKEN"),
		KickBroadcasterUserID: envInt("KICK_BROADCASTER_USER_ID", 0),
		KickChatroomID:        envInt("KICK_CHATROOM_ID", 0),

		OverlayHubAddr: envString("OVERLAY_HUB_ADDR", ":6790"),
		OverlayURL:     envString("OVERLAY_URL", "ws://localhost:6790/ws"),

		KingUsername:      os.Getenv("KING_USERNAME"),
		DeniedBots:        envList("DENIED_BOTS", []string{"Nightbot"}),
		StreakPhrases:     envList("STREAK_PHRASES", []string{"dsc_1439", "feerDsc1439"}),
		StreakMinimum:     envInt("STREAK_MINIMUM", 5),
		ChallengeWindow:   envDuration("CHALLENGE_WINDOW", 30*time.Second),
		SentimentUp:       envList("SENTIMENT_UP_KEYWORDS", []string{"ICANT", "ICUMT", "lCUMT", "+2", "WECANT", "Utopia", "LOL"}),
		SentimentDown:     envList("SENTIMENT_DOWN_KEYWORDS", []string{"ICAN", "WECAN", "-2"}),
		SentimentCooldown: envDuration("SENTIMENT_COOLDOWN", 30*time.Second),
		CommandPrefix:     envString("COMMAND_PREFIX", "!"),

		SQLitePath: envString("SQLITE_PATH", "data/feerbot.db"),

		RefreshInterval: envDuration("CREDENTIAL_REFRESH_INTERVAL", time.Minute),
	}

	if cfg.TwitchUsername == "" || cfg.TwitchToken == "" {
		log.Println("Advertencia: No se encontraron variables necesarias de Twitch")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q no es un entero, usando %d", key, v, fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: %s=%q no es una duración, usando %s", key, v, fallback)
		return fallback
	}
	return d
}

// envList separa por comas y descarta entradas vacías.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
