package domain

type Platform string

const (
	PlatformTwitch Platform = "twitch"
	PlatformKick   Platform = "kick"
)

// Message es un mensaje de chat normalizado, venga de la plataforma que venga.
type Message struct {
	Platform  Platform
	ChannelID string
	UserID    string
	Username  string // display name tal cual llega; es la clave de participación en los juegos
	Text      string

	// IsEcho marca los mensajes que escribió el propio bot.
	IsEcho bool

	// Flags que vienen de la plataforma (los rellenamos en el adapter)
	IsPlatformOwner bool
	IsPlatformMod   bool
	IsPlatformVip   bool
}
