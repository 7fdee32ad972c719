package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	kicksdk "github.com/glichtv/kick-sdk"

	"feerBot/internal/domain"
)

const (
	twitchTokenEndpoint = "https://id.twitch.tv/oauth2/token"

	// refreshWindow: un token que expira dentro de esta ventana se refresca
	// antes de entregarse.
	refreshWindow = 5 * time.Minute
)

type TwitchConfig struct {
	ClientID     string
	ClientSecret string
}

type KickConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Manager guarda y refresca credenciales contra el proveedor de identidad.
// ValidToken nunca lanza: si el refresh falla devuelve "", y quien llama
// trata ese vacío como "este ciclo no se puede actuar".
type Manager struct {
	repo      domain.CredentialRepository
	twitchCfg TwitchConfig
	kickCfg   KickConfig
	kickCli   *kicksdk.Client
	httpCli   *http.Client

	// twitchTokenURL es configurable solo para los tests.
	twitchTokenURL string

	mu sync.Mutex // serializa los refresh: nunca dos intercambios del mismo refresh token

	hooksMu sync.RWMutex
	hooks   []CredentialHook
}

type CredentialHook func(ctx context.Context, cred *domain.Credential)

func NewManager(repo domain.CredentialRepository, twitchCfg TwitchConfig, kickCfg KickConfig) *Manager {
	var kickClient *kicksdk.Client
	if kickCfg.ClientID != "" && kickCfg.ClientSecret != "" && kickCfg.RedirectURI != "" {
		kickClient = kicksdk.NewClient(
			kicksdk.WithCredentials(kicksdk.Credentials{
				ClientID:     kickCfg.ClientID,
				ClientSecret: kickCfg.ClientSecret,
				RedirectURI:  kickCfg.RedirectURI,
			}),
		)
	}

	return &Manager{
		repo:           repo,
		twitchCfg:      twitchCfg,
		kickCfg:        kickCfg,
		kickCli:        kickClient,
		twitchTokenURL: twitchTokenEndpoint,
		httpCli: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (m *Manager) RegisterHook(h CredentialHook) {
	if h == nil {
		return
	}
	m.hooksMu.Lock()
	defer m.hooksMu.Unlock()
	m.hooks = append(m.hooks, h)
}

func (m *Manager) notifyHooks(ctx context.Context, cred *domain.Credential) {
	if cred == nil {
		return
	}
	m.hooksMu.RLock()
	hooks := append([]CredentialHook(nil), m.hooks...)
	m.hooksMu.RUnlock()
	for _, h := range hooks {
		h(ctx, cred)
	}
}

// Start lanza el refresco periódico en background.
func (m *Manager) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := m.RefreshAll(ctx); err != nil {
					log.Printf("credentials: refresh tick: %v", err)
				}
			}
		}
	}()
}

// ValidToken devuelve un access token vigente para (platform, role),
// refrescándolo antes si expira dentro de la ventana de seguridad. Devuelve
// "" cuando no hay token utilizable; nunca es fatal.
func (m *Manager) ValidToken(ctx context.Context, platform domain.Platform, role string) string {
	if m.repo == nil {
		return ""
	}
	cred, err := m.repo.Get(ctx, platform, role)
	if err != nil {
		log.Printf("credentials: get %s/%s: %v", platform, role, err)
		return ""
	}
	if cred == nil {
		return ""
	}
	if !needsRefresh(cred) {
		return cred.AccessToken
	}
	if cred.RefreshToken == "" {
		log.Printf("credentials: %s/%s expiring and no refresh token", platform, role)
		return ""
	}
	if err := m.refresh(ctx, cred); err != nil {
		log.Printf("credentials: refresh %s/%s: %v", platform, role, err)
		return ""
	}
	return cred.AccessToken
}

// RefreshAll recorre las credenciales guardadas y refresca las que estén por
// expirar. Un fallo en una no frena a las demás.
func (m *Manager) RefreshAll(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}

	creds, err := m.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("credentials: list: %w", err)
	}

	for _, cred := range creds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cred == nil || cred.RefreshToken == "" {
			continue
		}
		if !needsRefresh(cred) {
			continue
		}
		if err := m.refresh(ctx, cred); err != nil {
			log.Printf("credentials: refresh %s/%s: %v", cred.Platform, cred.Role, err)
		}
	}

	return nil
}

func needsRefresh(cred *domain.Credential) bool {
	if cred == nil {
		return false
	}
	if cred.ExpiresAt.IsZero() {
		return true
	}
	return time.Until(cred.ExpiresAt) < refreshWindow
}

func (m *Manager) refresh(ctx context.Context, cred *domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Otro goroutine pudo refrescar mientras esperábamos el lock: releer y,
	// si ya está fresco, adoptar esa copia en vez de quemar el refresh token.
	if latest, err := m.repo.Get(ctx, cred.Platform, cred.Role); err == nil && latest != nil {
		if !needsRefresh(latest) {
			*cred = *latest
			return nil
		}
		if latest.RefreshToken != "" {
			cred.RefreshToken = latest.RefreshToken
		}
	}

	switch cred.Platform {
	case domain.PlatformTwitch:
		return m.refreshTwitch(ctx, cred)
	case domain.PlatformKick:
		return m.refreshKick(ctx, cred)
	default:
		return fmt.Errorf("credentials: unknown platform %q", cred.Platform)
	}
}

func (m *Manager) refreshTwitch(ctx context.Context, cred *domain.Credential) error {
	if m.twitchCfg.ClientID == "" || m.twitchCfg.ClientSecret == "" {
		return fmt.Errorf("credentials: twitch config incompleta")
	}

	data := url.Values{}
	data.Set("client_id", m.twitchCfg.ClientID)
	data.Set("client_secret", m.twitchCfg.ClientSecret)
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", cred.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.twitchTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("credentials: twitch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpCli.Do(req)
	if err != nil {
		return fmt.Errorf("credentials: twitch http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("credentials: twitch read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("credentials: twitch status %d: %s", resp.StatusCode, string(body))
	}

	var payload twitchTokenPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("credentials: twitch decode: %w", err)
	}

	return m.persist(ctx, cred, payload.AccessToken, payload.RefreshToken, payload.ExpiresIn)
}

func (m *Manager) refreshKick(ctx context.Context, cred *domain.Credential) error {
	if m.kickCli == nil {
		return fmt.Errorf("credentials: kick config incompleta")
	}

	resp, err := m.kickCli.OAuth().RefreshToken(ctx, kicksdk.RefreshTokenInput{
		RefreshToken: cred.RefreshToken,
		GrantType:    "refresh_token",
	})
	if err != nil {
		return fmt.Errorf("credentials: kick refresh: %w", err)
	}

	payload := resp.Payload
	return m.persist(ctx, cred, payload.AccessToken, payload.RefreshToken, int64(payload.ExpiresIn))
}

// persist guarda el par nuevo de una vez (el repo hace el upsert atómico) y
// avisa a los hooks solo si el guardado fue bien.
func (m *Manager) persist(ctx context.Context, cred *domain.Credential, accessToken, refreshToken string, expiresIn int64) error {
	cred.AccessToken = accessToken
	if refreshToken != "" {
		cred.RefreshToken = refreshToken
	}
	cred.ExpiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	cred.UpdatedAt = time.Now()

	if err := m.repo.Save(ctx, cred); err != nil {
		return fmt.Errorf("credentials: save %s/%s: %w", cred.Platform, cred.Role, err)
	}
	m.notifyHooks(ctx, cred)
	return nil
}

type twitchTokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
