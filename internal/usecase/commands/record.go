package commands

import (
	"context"
	"fmt"

	"feerBot/internal/domain"
	"feerBot/internal/usecase/games"
)

// RecordCommand responde con el récord del juego de contar.
type RecordCommand struct {
	game *games.CountingGame
}

func NewRecordCommand(game *games.CountingGame) *RecordCommand {
	return &RecordCommand{game: game}
}

func (c *RecordCommand) Name() string {
	return "record"
}

func (c *RecordCommand) Aliases() []string {
	return []string{"high"}
}

func (c *RecordCommand) SupportsPlatform(p domain.Platform) bool {
	return p == domain.PlatformTwitch || p == domain.PlatformKick
}

func (c *RecordCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	msg := cmdCtx.Message

	response := fmt.Sprintf("Counting record: %d (current count: %d)",
		c.game.Record(), c.game.Count())

	return cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID, response)
}
