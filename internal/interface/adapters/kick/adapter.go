// Package kickadapter conecta el bot al chat de Kick: websocket para leer,
// SDK oficial para escribir.
package kickadapter

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	kicksdk "github.com/glichtv/kick-sdk"
	kickchatwrapper "github.com/johanvandegriff/kick-chat-wrapper"

	"feerBot/internal/domain"
)

type Config struct {
	// Token del BOT de Kick (flujo OAuth)
	AccessToken string

	// Login del bot, para marcar mensajes de eco
	BotUsername string

	// ID del usuario broadcaster
	BroadcasterUserID int

	// ID del chatroom (no es el mismo que el userID);
	// sale de https://kick.com/api/v2/channels/{slug}, campo "chatroom":{"id":...}
	ChatroomID int
}

type MessageHandler func(ctx context.Context, msg domain.Message) error

type Adapter struct {
	cfg     Config
	handler MessageHandler

	mu  sync.RWMutex
	sdk *kicksdk.Client
	ws  *kickchatwrapper.Client
}

func NewAdapter(cfg Config) *Adapter {
	return &Adapter{cfg: cfg}
}

func (a *Adapter) SetHandler(h MessageHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

// Start se une al chatroom configurado y bloquea hasta que el contexto se
// cancela, repartiendo los mensajes entrantes al handler.
func (a *Adapter) Start(ctx context.Context) error {
	if a.cfg.AccessToken == "" {
		return errors.New("kick: AccessToken vacío")
	}
	if a.cfg.ChatroomID == 0 {
		return errors.New("kick: ChatroomID no configurado")
	}
	if a.cfg.BroadcasterUserID == 0 {
		return errors.New("kick: BroadcasterUserID no configurado")
	}

	sdkClient := kicksdk.NewClient(
		kicksdk.WithAccessTokens(kicksdk.AccessTokens{
			UserAccessToken: a.cfg.AccessToken,
		}),
	)

	wsClient, err := kickchatwrapper.NewClient()
	if err != nil {
		return fmt.Errorf("kick: error creando ws client: %w", err)
	}

	if err := wsClient.JoinChannelByID(a.cfg.ChatroomID); err != nil {
		return fmt.Errorf("kick: JoinChannelByID: %w", err)
	}

	msgChan := wsClient.ListenForMessages()

	a.mu.Lock()
	a.sdk = sdkClient
	a.ws = wsClient
	a.mu.Unlock()

	log.Printf("kick: conectado al chatroom %d (broadcasterUserID=%d)", a.cfg.ChatroomID, a.cfg.BroadcasterUserID)

	go func() {
		for {
			select {
			case m, ok := <-msgChan:
				if !ok {
					log.Println("kick: canal de mensajes cerrado")
					return
				}

				a.mu.RLock()
				handler := a.handler
				a.mu.RUnlock()
				if handler == nil {
					continue
				}

				if err := handler(ctx, a.toDomain(m)); err != nil {
					log.Printf("kick: error en handler: %v", err)
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()

	a.mu.Lock()
	if a.ws != nil {
		a.ws.Close()
	}
	a.mu.Unlock()

	return ctx.Err()
}

func (a *Adapter) SendMessage(ctx context.Context, platform domain.Platform, channelID, text string) error {
	if platform != domain.PlatformKick {
		return fmt.Errorf("kick adapter no soporta plataforma %s", platform)
	}

	a.mu.RLock()
	client := a.sdk
	a.mu.RUnlock()

	if client == nil {
		return errors.New("kick: cliente SDK no inicializado (Start no llamado o falló)")
	}
	if text == "" {
		return nil
	}

	resp, err := client.Chat().PostMessage(ctx, kicksdk.PostChatMessageInput{
		BroadcasterUserID: a.cfg.BroadcasterUserID,
		Content:           text,
		PosterType:        kicksdk.MessagePosterUser,
	})
	if err != nil {
		return fmt.Errorf("kick: error enviando mensaje de chat: %w", err)
	}

	if !resp.Payload.IsSent {
		meta := resp.ResponseMetadata
		return fmt.Errorf("kick: mensaje no fue aceptado por la API (status %d, kick_error=%q)",
			meta.StatusCode, meta.KickError)
	}

	return nil
}

// UpdateAccessToken se registra como hook del credential manager: cada token
// renovado reemplaza el cliente SDK.
func (a *Adapter) UpdateAccessToken(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg.AccessToken = token
	a.sdk = kicksdk.NewClient(
		kicksdk.WithAccessTokens(kicksdk.AccessTokens{
			UserAccessToken: token,
		}),
	)
}

func (a *Adapter) toDomain(m kickchatwrapper.ChatMessage) domain.Message {
	sender := m.Sender

	var isMod, isVip bool
	for _, b := range sender.Identity.Badges {
		switch strings.ToLower(b.Type) {
		case "moderator", "broadcaster":
			isMod = true
		case "vip":
			isVip = true
		}
	}

	return domain.Message{
		Platform:  domain.PlatformKick,
		ChannelID: strconv.Itoa(m.ChatroomID),
		UserID:    strconv.Itoa(sender.ID),
		Username:  sender.Username,
		Text:      m.Content,

		IsEcho: strings.EqualFold(sender.Username, a.cfg.BotUsername),

		IsPlatformOwner: sender.ID == a.cfg.BroadcasterUserID,
		IsPlatformMod:   isMod,
		IsPlatformVip:   isVip,
	}
}
