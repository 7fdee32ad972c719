package games

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"feerBot/internal/domain"
)

const (
	sentimentInitial = 50
	sentimentStep    = 5
	sentimentMin     = 0
	sentimentMax     = 100

	defaultSentimentCooldown = 30 * time.Second
)

type userSentiment struct {
	value int
	at    time.Time
}

// SentimentGame mantiene la barra de sentimiento del chat: palabras clave
// suben o bajan el total en pasos de 5, acotado a 0..100, y cada cambio se
// emite al overlay como el número a pelo ("73"). Un usuario repitiendo el
// mismo sentido dentro de la ventana de cooldown se ignora; cambiar de
// sentido aplica siempre.
type SentimentGame struct {
	overlay  domain.OverlaySender
	increase []string
	decrease []string
	cooldown time.Duration
	sink     EventSink
	now      func() time.Time

	mu    sync.Mutex
	total int
	users map[string]userSentiment
}

type SentimentConfig struct {
	Overlay  domain.OverlaySender
	Increase []string
	Decrease []string
	Cooldown time.Duration
	Events   EventSink
}

func NewSentimentGame(cfg SentimentConfig) *SentimentGame {
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = defaultSentimentCooldown
	}
	return &SentimentGame{
		overlay:  cfg.Overlay,
		increase: append([]string(nil), cfg.Increase...),
		decrease: append([]string(nil), cfg.Decrease...),
		cooldown: cooldown,
		sink:     cfg.Events,
		now:      time.Now,
		total:    sentimentInitial,
		users:    make(map[string]userSentiment),
	}
}

func (g *SentimentGame) Name() string { return "sentiment" }

// Total devuelve el valor actual de la barra.
func (g *SentimentGame) Total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.total
}

func (g *SentimentGame) HandleMessage(ctx context.Context, msg domain.Message) error {
	if msg.IsEcho {
		return nil
	}

	value := g.change(msg.Text)
	if value == 0 {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.applyUserLocked(msg.Username, value) {
		return nil
	}

	g.total = clampSentiment(g.total + value)
	log.Printf("sentiment: %d (%+d by %s)", g.total, value, msg.Username)
	g.sendOverlay(strconv.Itoa(g.total))
	emit(g.sink, Event{Game: g.Name(), Kind: "update", User: msg.Username, Value: g.total})
	return nil
}

// change decide el signo del mensaje: se quita todo el espacio en blanco y
// se busca cualquier keyword como substring; subir gana sobre bajar.
func (g *SentimentGame) change(text string) int {
	cleaned := stripSpaces(text)
	for _, kw := range g.increase {
		if strings.Contains(cleaned, kw) {
			return sentimentStep
		}
	}
	for _, kw := range g.decrease {
		if strings.Contains(cleaned, kw) {
			return -sentimentStep
		}
	}
	return 0
}

// applyUserLocked decide si el voto del usuario cuenta: la primera vez
// siempre, un cambio de sentido siempre, y repetir el mismo sentido solo
// pasado el cooldown.
func (g *SentimentGame) applyUserLocked(username string, value int) bool {
	now := g.now()
	prev, seen := g.users[username]
	if seen && prev.value == value && now.Sub(prev.at) <= g.cooldown {
		return false
	}
	g.users[username] = userSentiment{value: value, at: now}
	return true
}

func (g *SentimentGame) sendOverlay(frame string) {
	if g.overlay == nil {
		return
	}
	if err := g.overlay.Send(frame); err != nil {
		log.Printf("sentiment: overlay send: %v", err)
	}
}

func clampSentiment(v int) int {
	if v < sentimentMin {
		return sentimentMin
	}
	if v > sentimentMax {
		return sentimentMax
	}
	return v
}

func stripSpaces(text string) string {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
		default:
			out = append(out, text[i])
		}
	}
	return string(out)
}
