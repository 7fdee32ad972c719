package games

import (
	"context"
	"log"

	"feerBot/internal/domain"
)

// Machine es una máquina de estados que consume el stream de chat.
type Machine interface {
	Name() string
	HandleMessage(ctx context.Context, msg domain.Message) error
}

// Dispatcher reparte cada mensaje a todas las máquinas registradas. Un fallo
// (o un pánico) en una máquina se registra y no frena ni a las demás ni al
// handler de chat: un mensaje malformado no puede tumbar el juego de todos.
type Dispatcher struct {
	machines []Machine
}

func NewDispatcher(machines ...Machine) *Dispatcher {
	d := &Dispatcher{}
	for _, m := range machines {
		d.Register(m)
	}
	return d
}

func (d *Dispatcher) Register(m Machine) {
	if m == nil {
		return
	}
	d.machines = append(d.machines, m)
}

func (d *Dispatcher) Handle(ctx context.Context, msg domain.Message) error {
	for _, m := range d.machines {
		d.dispatchOne(ctx, m, msg)
	}
	return nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, m Machine, msg domain.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("games: %s: panic handling message from %s: %v", m.Name(), msg.Username, r)
		}
	}()
	if err := m.HandleMessage(ctx, msg); err != nil {
		log.Printf("games: %s: %v", m.Name(), err)
	}
}
