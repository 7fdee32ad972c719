package events

import (
	"time"

	"feerBot/internal/domain"
)

// ChatMessageDTO describe el payload que circula por el bus para cada mensaje
// de chat recibido.
type ChatMessageDTO struct {
	Platform        string `json:"platform"`
	ChannelID       string `json:"channel_id"`
	UserID          string `json:"user_id"`
	Username        string `json:"username"`
	Text            string `json:"text"`
	IsEcho          bool   `json:"is_echo"`
	IsPlatformOwner bool   `json:"is_platform_owner"`
	IsPlatformMod   bool   `json:"is_platform_mod"`
	IsPlatformVip   bool   `json:"is_platform_vip"`
	Timestamp       string `json:"timestamp"`
}

// NewChatMessageDTO crea un DTO serializable a partir de domain.Message.
func NewChatMessageDTO(msg domain.Message) ChatMessageDTO {
	return ChatMessageDTO{
		Platform:        string(msg.Platform),
		ChannelID:       msg.ChannelID,
		UserID:          msg.UserID,
		Username:        msg.Username,
		Text:            msg.Text,
		IsEcho:          msg.IsEcho,
		IsPlatformOwner: msg.IsPlatformOwner,
		IsPlatformMod:   msg.IsPlatformMod,
		IsPlatformVip:   msg.IsPlatformVip,
		Timestamp:       time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// GameEventDTO describe una jugada relevante de cualquiera de los juegos.
type GameEventDTO struct {
	Game      string `json:"game"`
	Kind      string `json:"kind"`
	User      string `json:"user"`
	Value     int    `json:"value"`
	Timestamp string `json:"timestamp"`
}

// NewGameEventDTO crea un DTO serializable con el timestamp ya sellado.
func NewGameEventDTO(game, kind, user string, value int) GameEventDTO {
	return GameEventDTO{
		Game:      game,
		Kind:      kind,
		User:      user,
		Value:     value,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}
