// Package notifications drena el bus de eventos hacia el log, para poder
// auditar jugadas y errores sin mezclar esa salida con la del chat.
package notifications

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"feerBot/internal/app/events"
)

// EventLogger centraliza los logs de eventos del bus (jugadas de los juegos,
// errores de la app) para facilitar la futura ingesta.
type EventLogger struct {
	bus *events.Bus
	now func() time.Time
}

func NewEventLogger(bus *events.Bus) *EventLogger {
	return &EventLogger{
		bus: bus,
		now: time.Now,
	}
}

// Run consume los topics de juego y de error hasta que el contexto muere.
func (l *EventLogger) Run(ctx context.Context) {
	gameCh, unsubGame := l.bus.Subscribe(events.TopicGameEvent)
	defer unsubGame()
	errCh, unsubErr := l.bus.Subscribe(events.TopicAppError)
	defer unsubErr()

	for {
		select {
		case payload, ok := <-gameCh:
			if !ok {
				return
			}
			l.logPayload("game-events", payload)
		case payload, ok := <-errCh:
			if !ok {
				return
			}
			l.logPayload("app-errors", payload)
		case <-ctx.Done():
			return
		}
	}
}

func (l *EventLogger) logPayload(source string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[%s] %v", source, payload)
		return
	}
	log.Printf("[%s] %s", source, data)
}
