package games

// Event es un cambio de estado notable de un juego, para observadores
// externos (bus de eventos, logs). Los juegos lo emiten fuera de toda
// decisión de reglas: perder un Event no afecta al estado.
type Event struct {
	Game  string
	Kind  string // accept | reset | record | break | mode_start | mode_end | penalty
	User  string
	Value int
}

// EventSink recibe eventos de juego. Puede ser nil.
type EventSink func(Event)

func emit(sink EventSink, e Event) {
	if sink != nil {
		sink(e)
	}
}
