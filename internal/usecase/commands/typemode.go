package commands

import (
	"context"
	"fmt"
	"log"
	"strings"

	"feerBot/internal/domain"
	"feerBot/internal/usecase/games"
)

// TypeCommand arranca el modo TYPE con la palabra elegida por el rey.
type TypeCommand struct {
	game *games.ChallengeGame
}

func NewTypeCommand(game *games.ChallengeGame) *TypeCommand {
	return &TypeCommand{game: game}
}

func (c *TypeCommand) Name() string {
	return "type"
}

func (c *TypeCommand) Aliases() []string {
	return []string{}
}

func (c *TypeCommand) SupportsPlatform(p domain.Platform) bool {
	return p == domain.PlatformTwitch || p == domain.PlatformKick
}

func (c *TypeCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	msg := cmdCtx.Message

	if !strings.EqualFold(msg.Username, c.game.King()) {
		return nil
	}

	if len(cmdCtx.Args) == 0 {
		return cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID, "Usage: !type <word>")
	}
	word := cmdCtx.Args[0]

	spec := games.ModeSpec{
		Kind:       "TYPE",
		Prefix:     word,
		DoneFormat: word + " MODE OFF. HIGHEST STREAK: %d",
	}
	if !c.game.StartMode(ctx, msg.Platform, msg.ChannelID, spec) {
		return nil
	}

	banner := []string{
		"=====👑The King of Marbles👑=====",
		fmt.Sprintf("CHAT IS IN %s MODE FOR %s", word, c.game.Duration()),
		"=============================",
	}
	for _, line := range banner {
		if err := cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID, line); err != nil {
			log.Printf("type command: error enviando banner: %v", err)
		}
	}
	return nil
}
