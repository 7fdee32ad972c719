package twitchinfra

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nicklaw5/helix/v2"

	"feerBot/internal/domain"
)

// Moderation aplica timeouts vía el endpoint de bans de Helix. Los IDs de
// broadcaster y moderador se resuelven una vez al arrancar y se reutilizan.
// Una llamada fallida se devuelve como error y NO se reintenta aquí: el
// reintento automático podría duplicar el castigo.
type Moderation struct {
	mu            sync.RWMutex
	client        *helix.Client
	broadcasterID string
	moderatorID   string
}

func NewModeration(clientID, accessToken string) (*Moderation, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("twitch: client id vacío")
	}

	client, err := helix.NewClient(&helix.Options{
		ClientID:        clientID,
		UserAccessToken: accessToken,
		HTTPClient: &http.Client{
			// Una llamada colgada no puede parar el loop de mensajes.
			Timeout: 10 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("twitch: helix.NewClient: %w", err)
	}

	return &Moderation{client: client}, nil
}

// ResolveIDs busca los IDs del canal y del bot por login. Se llama una vez
// al arrancar; los juegos no vuelven a pedirlos.
func (m *Moderation) ResolveIDs(ctx context.Context, broadcasterLogin, moderatorLogin string) error {
	broadcasterID, err := m.UserID(ctx, broadcasterLogin)
	if err != nil {
		return err
	}
	moderatorID := broadcasterID
	if !strings.EqualFold(broadcasterLogin, moderatorLogin) {
		moderatorID, err = m.UserID(ctx, moderatorLogin)
		if err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.broadcasterID = broadcasterID
	m.moderatorID = moderatorID
	m.mu.Unlock()
	return nil
}

// UserID resuelve el ID numérico de un usuario por su login.
func (m *Moderation) UserID(_ context.Context, login string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return "", fmt.Errorf("twitch: login vacío")
	}

	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	resp, err := client.GetUsers(&helix.UsersParams{
		Logins: []string{login},
	})
	if err != nil {
		return "", fmt.Errorf("twitch: GetUsers(%s): %w", login, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitch: GetUsers(%s) failed (%d: %s) %s",
			login, resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	if len(resp.Data.Users) == 0 {
		return "", fmt.Errorf("twitch: usuario no encontrado: %s", login)
	}
	return resp.Data.Users[0].ID, nil
}

// UpdateAccessToken instala un token nuevo; lo llama el hook de credenciales.
func (m *Moderation) UpdateAccessToken(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.client.SetUserAccessToken(token)
}

func (m *Moderation) Timeout(_ context.Context, platform domain.Platform, userID string, duration time.Duration, reason string) error {
	if platform != domain.PlatformTwitch {
		return fmt.Errorf("twitch: no soporta plataforma %s", platform)
	}

	m.mu.RLock()
	client := m.client
	broadcasterID := m.broadcasterID
	moderatorID := m.moderatorID
	m.mu.RUnlock()

	if broadcasterID == "" || moderatorID == "" {
		return fmt.Errorf("twitch: IDs sin resolver (falta ResolveIDs)")
	}

	resp, err := client.BanUser(&helix.BanUserParams{
		BroadcasterID: broadcasterID,
		ModeratorId:   moderatorID,
		Body: helix.BanUserRequestBody{
			UserId:   userID,
			Duration: int(duration.Seconds()),
			Reason:   reason,
		},
	})
	if err != nil {
		return fmt.Errorf("twitch: BanUser: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("twitch: BanUser failed (%d: %s) %s",
			resp.StatusCode, resp.Error, resp.ErrorMessage)
	}
	return nil
}

var _ domain.Moderator = (*Moderation)(nil)
