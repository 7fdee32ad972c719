package commands

import (
	"context"
	"fmt"

	"feerBot/internal/domain"
	"feerBot/internal/usecase/games"
)

// KingCommand anuncia quién es el rey actual.
type KingCommand struct {
	game *games.ChallengeGame
}

func NewKingCommand(game *games.ChallengeGame) *KingCommand {
	return &KingCommand{game: game}
}

func (c *KingCommand) Name() string {
	return "king"
}

func (c *KingCommand) Aliases() []string {
	return []string{}
}

func (c *KingCommand) SupportsPlatform(p domain.Platform) bool {
	return p == domain.PlatformTwitch || p == domain.PlatformKick
}

func (c *KingCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	msg := cmdCtx.Message

	response := fmt.Sprintf("All Hail the King of Marbles: @%s", c.game.King())

	return cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID, response)
}
