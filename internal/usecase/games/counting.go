package games

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"feerBot/internal/domain"
)

// CountingGame lleva la cuenta colaborativa del chat: el siguiente número
// esperado, el récord, y quiénes ya contaron en la racha actual. Un usuario
// que repite dentro de la misma racha, o que dice el número equivocado,
// resetea la cuenta y recibe un timeout.
type CountingGame struct {
	overlay  domain.OverlaySender
	mod      domain.Moderator
	penalty  Penalty
	denylist map[string]struct{}
	sink     EventSink

	mu             sync.Mutex
	currentCount   int
	expectedNumber int
	recordHigh     int
	streakUsers    map[string]struct{}
}

type CountingConfig struct {
	Overlay    domain.OverlaySender
	Moderator  domain.Moderator
	Penalty    Penalty
	DeniedBots []string
	Events     EventSink
}

func NewCountingGame(cfg CountingConfig) *CountingGame {
	denylist := make(map[string]struct{}, len(cfg.DeniedBots))
	for _, name := range cfg.DeniedBots {
		denylist[name] = struct{}{}
	}
	return &CountingGame{
		overlay:        cfg.Overlay,
		mod:            cfg.Moderator,
		penalty:        cfg.Penalty,
		denylist:       denylist,
		sink:           cfg.Events,
		expectedNumber: 1,
		streakUsers:    make(map[string]struct{}),
	}
}

func (g *CountingGame) Name() string { return "counting" }

// Record devuelve el número más alto alcanzado.
func (g *CountingGame) Record() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.recordHigh
}

// Count devuelve la cuenta actual.
func (g *CountingGame) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentCount
}

func (g *CountingGame) HandleMessage(ctx context.Context, msg domain.Message) error {
	if msg.IsEcho {
		return nil
	}
	if _, banned := g.denylist[msg.Username]; banned {
		return nil
	}
	if !isBareNumber(msg.Text) {
		return nil
	}

	number, err := strconv.Atoi(msg.Text)
	if err != nil {
		// El chequeo de dígitos ya pasó; esto solo ocurre con entradas
		// absurdas (overflow). Se ignora el mensaje, el juego sigue.
		return fmt.Errorf("counting: parse %q: %w", msg.Text, err)
	}

	// Todo el ciclo comprobar-actualizar-emitir va bajo el lock: un segundo
	// mensaje no puede colarse entre la decisión y la emisión.
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, counted := g.streakUsers[msg.Username]; counted {
		duration := g.penalty.Seconds(g.currentCount)
		g.resetLocked()
		log.Printf("counting: %s counted twice in the same streak, back to 0", msg.Username)
		g.sendOverlay(fmt.Sprintf("COUNT:0:%s:%d:0", msg.Username, g.recordHigh))
		g.timeoutUser(ctx, msg, duration, "Counting again in the same streak")
		emit(g.sink, Event{Game: g.Name(), Kind: "reset", User: msg.Username, Value: 0})
		return nil
	}

	if number == g.expectedNumber {
		g.currentCount = number
		isRecord := 0
		if number > g.recordHigh {
			g.recordHigh = number
			isRecord = 1
		}
		g.expectedNumber = number + 1
		g.streakUsers[msg.Username] = struct{}{}
		log.Printf("counting: %d by %s (record %d)", g.currentCount, msg.Username, g.recordHigh)
		g.sendOverlay(fmt.Sprintf("COUNT:%d:%s:%d:%d", g.currentCount, msg.Username, g.recordHigh, isRecord))
		kind := "accept"
		if isRecord == 1 {
			kind = "record"
		}
		emit(g.sink, Event{Game: g.Name(), Kind: kind, User: msg.Username, Value: number})
		return nil
	}

	// Número equivocado: el timeout se calcula desde el último número
	// correcto (expected-1), no desde el número enviado.
	right := g.expectedNumber
	g.resetLocked()
	log.Printf("counting: wrong number %d by %s (expected %d), back to 0", number, msg.Username, right)
	g.sendOverlay(fmt.Sprintf("COUNT:0:%s:%d:0", msg.Username, g.recordHigh))
	g.timeoutUser(ctx, msg, g.penalty.Seconds(right-1), fmt.Sprintf("Wrong number (%d). Expected (%d)", number, right))
	emit(g.sink, Event{Game: g.Name(), Kind: "reset", User: msg.Username, Value: 0})
	return nil
}

func (g *CountingGame) resetLocked() {
	g.currentCount = 0
	g.expectedNumber = 1
	g.streakUsers = make(map[string]struct{})
}

func (g *CountingGame) sendOverlay(frame string) {
	if g.overlay == nil {
		return
	}
	if err := g.overlay.Send(frame); err != nil {
		log.Printf("counting: overlay send: %v", err)
	}
}

func (g *CountingGame) timeoutUser(ctx context.Context, msg domain.Message, seconds int, reason string) {
	if g.mod == nil {
		return
	}
	duration := time.Duration(seconds) * time.Second
	if err := g.mod.Timeout(ctx, msg.Platform, msg.UserID, duration, reason); err != nil {
		log.Printf("counting: timeout %s (%s): %v", msg.Username, duration, err)
		return
	}
	emit(g.sink, Event{Game: g.Name(), Kind: "penalty", User: msg.Username, Value: seconds})
}

// isBareNumber acepta únicamente enteros positivos "a pelo": todos los bytes
// son dígitos ASCII, sin espacios, signo ni texto alrededor.
func isBareNumber(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}
