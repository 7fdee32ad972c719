package games

import (
	"context"
	"fmt"
	"log"

	"feerBot/internal/domain"
)

// quickChatLines es la tabla de quick chats de Rocket League. Se indexa una
// vez al arrancar (mapa normalizado -> índice) y de ahí en adelante es solo
// lectura.
var quickChatLines = []string{
	"$H@%!", "All yours.", "Bumping!", "Calculated.", "Centering!", "Close one!",
	"Defending...", "Everybody Dance!", "Faking.", "gg", "Go for it!", "Good luck!",
	"Great clear!", "Great pass!", "Holy cow!", "Here. We. Go.", "Have fun!",
	"I got it!", "In position.", "I'll do my best.", "Incoming!", "Let's do this!",
	"My bad...", "My fault.", "Need boost!", "Nice block!", "Nice bump!", "Nice cars!",
	"Nice demo!", "Nice one!", "Nice shot!", "Nice moves.", "No problem.", "No way!",
	"Noooo!", "OMG!", "Okay.", "On your left.", "On your right.", "One. More. Game.",
	"Oops!", "Passing!", "Party Up?", "Rematch!", "Rotating Back!", "Rotating Up!",
	"Savage!", "Siiiick!", "Sorry!", "Take the shot!", "That was fun!", "Thanks!",
	"This is Rocket League!", "We got this.", "Well played.", "What a play!",
	"What a save!", "What a game!", "Whew.", "Whoops...", "Wow!", "Yes!", "You have time!",
}

// QuickChatGame retransmite al overlay los mensajes que coinciden con un
// quick chat, formateados como línea de chat HTML. No tiene estado mutable.
type QuickChatGame struct {
	overlay domain.OverlaySender
	index   map[string]int
}

func NewQuickChatGame(overlay domain.OverlaySender) *QuickChatGame {
	index := make(map[string]int, len(quickChatLines))
	for i, line := range quickChatLines {
		index[normalizeQuickChat(line)] = i
	}
	return &QuickChatGame{overlay: overlay, index: index}
}

func (g *QuickChatGame) Name() string { return "quickchat" }

func (g *QuickChatGame) HandleMessage(ctx context.Context, msg domain.Message) error {
	if msg.IsEcho {
		return nil
	}

	idx, ok := g.index[normalizeQuickChat(msg.Text)]
	if !ok {
		return nil
	}

	line := quickChatLines[idx]
	log.Printf("quickchat: %s: %s", msg.Username, line)

	if g.overlay == nil {
		return nil
	}
	frame := fmt.Sprintf(
		`<span class="username">%s</span>: <span class="message-text">%s</span>`,
		msg.Username, line,
	)
	if err := g.overlay.Send(frame); err != nil {
		log.Printf("quickchat: overlay send: %v", err)
	}
	return nil
}

// normalizeQuickChat quita todo lo que no sea alfanumérico y pasa a
// minúsculas, para que "What a save!" y "whatasave" cuenten igual.
func normalizeQuickChat(text string) string {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			out = append(out, c)
		case c >= 'A' && c <= 'Z':
			out = append(out, c+('a'-'A'))
		}
	}
	return string(out)
}
