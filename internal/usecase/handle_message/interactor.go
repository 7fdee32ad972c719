// Package handle_message es el punto de entrada de cada mensaje de chat:
// primero los juegos, después los comandos, y el bus para quien escuche.
package handle_message

import (
	"context"

	"feerBot/internal/app/events"
	"feerBot/internal/domain"
	"feerBot/internal/usecase/commands"
	"feerBot/internal/usecase/games"
)

type Interactor struct {
	dispatcher *games.Dispatcher
	router     *commands.Router
	out        domain.OutgoingMessagePort
	bus        *events.Bus
}

func NewInteractor(out domain.OutgoingMessagePort, dispatcher *games.Dispatcher, router *commands.Router, bus *events.Bus) *Interactor {
	return &Interactor{
		dispatcher: dispatcher,
		router:     router,
		out:        out,
		bus:        bus,
	}
}

func (uc *Interactor) Handle(ctx context.Context, msg domain.Message) error {
	if uc.bus != nil {
		uc.bus.Publish(events.TopicChatMessage, events.NewChatMessageDTO(msg))
	}

	// Los juegos ven todos los mensajes, incluidos los que luego resultan ser
	// comandos: escribir "!pray" durante un modo activo también rompe rachas.
	if uc.dispatcher != nil {
		_ = uc.dispatcher.Handle(ctx, msg)
	}

	if uc.router == nil {
		return nil
	}
	return uc.router.Handle(ctx, msg, uc.out)
}
