package games

import "math"

// maxPenaltySeconds limita cualquier timeout a un día.
const maxPenaltySeconds = 86400

// Penalty calcula timeouts exponenciales según lo lejos que llegó una racha.
// Epsilon es un pequeño offset fijo (0 o 1 según el juego).
type Penalty struct {
	Epsilon float64
}

// Seconds devuelve min(7.5 * 2^streak + epsilon, 86400) en segundos enteros.
// Un streak negativo se trata como cero para no elevar a exponente negativo.
func (p Penalty) Seconds(streak int) int {
	if streak < 0 {
		streak = 0
	}
	timeout := 7.5*math.Pow(2, float64(streak)) + p.Epsilon
	if timeout > maxPenaltySeconds {
		timeout = maxPenaltySeconds
	}
	return int(timeout)
}
