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

// StreakGame cuenta rachas de usuarios únicos enviando una de las frases
// válidas. Romper una racha suficientemente larga cuesta un timeout; por
// debajo del mínimo se resetea en silencio para no castigar el ruido.
type StreakGame struct {
	out      domain.OutgoingMessagePort
	mod      domain.Moderator
	penalty  Penalty
	phrases  []string
	minimum  int
	denylist map[string]struct{}
	sink     EventSink

	mu            sync.Mutex
	currentStreak int
	recordStreak  int
	participants  map[string]struct{}
}

type StreakConfig struct {
	Out        domain.OutgoingMessagePort
	Moderator  domain.Moderator
	Penalty    Penalty
	Phrases    []string
	Minimum    int
	DeniedBots []string
	Events     EventSink
}

func NewStreakGame(cfg StreakConfig) *StreakGame {
	denylist := make(map[string]struct{}, len(cfg.DeniedBots))
	for _, name := range cfg.DeniedBots {
		denylist[name] = struct{}{}
	}
	minimum := cfg.Minimum
	if minimum <= 0 {
		minimum = 5
	}
	return &StreakGame{
		out:          cfg.Out,
		mod:          cfg.Moderator,
		penalty:      cfg.Penalty,
		phrases:      append([]string(nil), cfg.Phrases...),
		minimum:      minimum,
		denylist:     denylist,
		sink:         cfg.Events,
		participants: make(map[string]struct{}),
	}
}

func (g *StreakGame) Name() string { return "streak" }

// Streak devuelve la racha actual y el récord.
func (g *StreakGame) Streak() (current, record int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentStreak, g.recordStreak
}

func (g *StreakGame) HandleMessage(ctx context.Context, msg domain.Message) error {
	if msg.IsEcho {
		return nil
	}
	if _, banned := g.denylist[msg.Username]; banned {
		return nil
	}
	if len(g.phrases) == 0 {
		return nil
	}

	content := strings.TrimSpace(msg.Text)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.matchesPhrase(content) {
		if _, seen := g.participants[msg.Username]; seen {
			return nil
		}
		g.currentStreak++
		g.participants[msg.Username] = struct{}{}
		if g.currentStreak > g.recordStreak {
			g.recordStreak = g.currentStreak
		}
		log.Printf("streak: %d by %s (record %d)", g.currentStreak, msg.Username, g.recordStreak)
		emit(g.sink, Event{Game: g.Name(), Kind: "accept", User: msg.Username, Value: g.currentStreak})
		return nil
	}

	broken := g.currentStreak
	g.currentStreak = 0
	g.participants = make(map[string]struct{})

	if broken < g.minimum {
		if broken > 0 {
			log.Printf("streak: %d broken by %s (too short, no timeout)", broken, msg.Username)
		}
		return nil
	}

	seconds := g.penalty.Seconds(broken)
	g.announce(ctx, msg, fmt.Sprintf("%s %d %s . Bad @%s, be gone.", g.phrases[0], broken, g.phrases[0], msg.Username))
	log.Printf("streak: %d broken by %s", broken, msg.Username)
	g.timeoutUser(ctx, msg, seconds, fmt.Sprintf("Broke the %s streak of %d", g.phrases[0], broken))
	emit(g.sink, Event{Game: g.Name(), Kind: "break", User: msg.Username, Value: broken})
	return nil
}

func (g *StreakGame) matchesPhrase(content string) bool {
	for _, phrase := range g.phrases {
		if strings.HasPrefix(content, phrase) {
			return true
		}
	}
	return false
}

func (g *StreakGame) announce(ctx context.Context, msg domain.Message, text string) {
	if g.out == nil {
		return
	}
	if err := g.out.SendMessage(ctx, msg.Platform, msg.ChannelID, text); err != nil {
		log.Printf("streak: announce: %v", err)
	}
}

func (g *StreakGame) timeoutUser(ctx context.Context, msg domain.Message, seconds int, reason string) {
	if g.mod == nil {
		return
	}
	duration := time.Duration(seconds) * time.Second
	if err := g.mod.Timeout(ctx, msg.Platform, msg.UserID, duration, reason); err != nil {
		log.Printf("streak: timeout %s (%s): %v", msg.Username, duration, err)
		return
	}
	emit(g.sink, Event{Game: g.Name(), Kind: "penalty", User: msg.Username, Value: seconds})
}
