package games

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"feerBot/internal/domain"
)

// ModeSpec describe un modo de desafío: el prefijo que el chat debe escribir
// mientras el modo está activo y el formato del anuncio de cierre.
type ModeSpec struct {
	Kind       string
	Prefix     string
	DoneFormat string // un %d: la racha más alta de la sesión
}

type challengeMode struct {
	spec      ModeSpec
	platform  domain.Platform
	channelID string
	streak    int
	high      int
}

// ChallengeGame es el juego de modos del rey: un usuario privilegiado activa
// un modo (pray, polish, type <palabra>...) durante una ventana fija y cada
// mensaje que no empiece por el prefijo del modo cuesta un timeout. Solo
// puede haber un modo activo; solo el timer lo termina.
type ChallengeGame struct {
	out      domain.OutgoingMessagePort
	mod      domain.Moderator
	penalty  Penalty
	king     string
	duration time.Duration
	denylist map[string]struct{}
	sink     EventSink

	mu     sync.Mutex
	active *challengeMode
}

type ChallengeConfig struct {
	Out        domain.OutgoingMessagePort
	Moderator  domain.Moderator
	Penalty    Penalty
	King       string
	Duration   time.Duration
	DeniedBots []string
	Events     EventSink
}

func NewChallengeGame(cfg ChallengeConfig) *ChallengeGame {
	denylist := make(map[string]struct{}, len(cfg.DeniedBots))
	for _, name := range cfg.DeniedBots {
		denylist[name] = struct{}{}
	}
	duration := cfg.Duration
	if duration <= 0 {
		duration = 30 * time.Second
	}
	return &ChallengeGame{
		out:      cfg.Out,
		mod:      cfg.Moderator,
		penalty:  cfg.Penalty,
		king:     cfg.King,
		duration: duration,
		denylist: denylist,
		sink:     cfg.Events,
	}
}

func (g *ChallengeGame) Name() string { return "challenge" }

// King devuelve el username privilegiado que puede arrancar modos.
func (g *ChallengeGame) King() string { return g.king }

// Duration es la ventana de cada modo.
func (g *ChallengeGame) Duration() time.Duration { return g.duration }

// ActiveMode devuelve el kind del modo activo, o "" si no hay ninguno.
func (g *ChallengeGame) ActiveMode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == nil {
		return ""
	}
	return g.active.spec.Kind
}

// StartMode intenta activar un modo. Devuelve false si ya hay otro activo.
// El anuncio de arranque lo hace quien llama (el comando); el de cierre lo
// hace el timer del juego.
func (g *ChallengeGame) StartMode(ctx context.Context, platform domain.Platform, channelID string, spec ModeSpec) bool {
	if spec.Kind == "" || spec.Prefix == "" {
		return false
	}

	g.mu.Lock()
	if g.active != nil {
		g.mu.Unlock()
		return false
	}
	mode := &challengeMode{spec: spec, platform: platform, channelID: channelID}
	g.active = mode
	g.mu.Unlock()

	log.Printf("challenge: %s mode on for %s", spec.Kind, g.duration)
	emit(g.sink, Event{Game: g.Name(), Kind: "mode_start", User: g.king})

	// Timer de un solo disparo. No hay cancelación explícita: al expirar se
	// comprueba bajo el lock que el modo siga siendo el activo.
	time.AfterFunc(g.duration, func() {
		g.expire(mode)
	})
	return true
}

func (g *ChallengeGame) expire(mode *challengeMode) {
	g.mu.Lock()
	if g.active != mode {
		g.mu.Unlock()
		return
	}
	high := mode.high
	g.active = nil
	g.mu.Unlock()

	log.Printf("challenge: %s mode off, highest streak %d", mode.spec.Kind, high)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	g.announce(ctx, mode, fmt.Sprintf(mode.spec.DoneFormat, high))
	emit(g.sink, Event{Game: g.Name(), Kind: "mode_end", Value: high})
}

func (g *ChallengeGame) HandleMessage(ctx context.Context, msg domain.Message) error {
	if msg.IsEcho || msg.IsPlatformMod {
		return nil
	}
	if _, banned := g.denylist[msg.Username]; banned {
		return nil
	}
	if strings.EqualFold(msg.Username, g.king) {
		return nil
	}

	content := strings.TrimSpace(msg.Text)

	g.mu.Lock()
	defer g.mu.Unlock()

	mode := g.active
	if mode == nil {
		return nil
	}

	if strings.HasPrefix(content, mode.spec.Prefix) {
		mode.streak++
		if mode.streak > mode.high {
			mode.high = mode.streak
		}
		return nil
	}

	// Fallo: solo se resetea la racha del modo, el modo sigue activo.
	broken := mode.streak
	mode.streak = 0
	seconds := g.penalty.Seconds(broken)
	g.announce(ctx, mode, fmt.Sprintf("%s %d KingOfTheMarbles BANNED @%s", mode.spec.Prefix, broken, msg.Username))
	g.timeoutUser(ctx, msg, seconds, fmt.Sprintf("Broke %s streak of %d", mode.spec.Kind, broken))
	emit(g.sink, Event{Game: g.Name(), Kind: "break", User: msg.Username, Value: broken})
	return nil
}

func (g *ChallengeGame) announce(ctx context.Context, mode *challengeMode, text string) {
	if g.out == nil {
		return
	}
	if err := g.out.SendMessage(ctx, mode.platform, mode.channelID, text); err != nil {
		log.Printf("challenge: announce: %v", err)
	}
}

func (g *ChallengeGame) timeoutUser(ctx context.Context, msg domain.Message, seconds int, reason string) {
	if g.mod == nil {
		return
	}
	duration := time.Duration(seconds) * time.Second
	if err := g.mod.Timeout(ctx, msg.Platform, msg.UserID, duration, reason); err != nil {
		log.Printf("challenge: timeout %s (%s): %v", msg.Username, duration, err)
		return
	}
	emit(g.sink, Event{Game: g.Name(), Kind: "penalty", User: msg.Username, Value: seconds})
}
