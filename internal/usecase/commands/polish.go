package commands

import (
	"context"
	"strings"

	"feerBot/internal/domain"
	"feerBot/internal/usecase/games"
)

// PolishCommand arranca el modo POLISH: solo el rey puede usarlo.
type PolishCommand struct {
	game *games.ChallengeGame
}

func NewPolishCommand(game *games.ChallengeGame) *PolishCommand {
	return &PolishCommand{game: game}
}

func (c *PolishCommand) Name() string {
	return "polish"
}

func (c *PolishCommand) Aliases() []string {
	return []string{}
}

func (c *PolishCommand) SupportsPlatform(p domain.Platform) bool {
	return p == domain.PlatformTwitch || p == domain.PlatformKick
}

func (c *PolishCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	msg := cmdCtx.Message

	if !strings.EqualFold(msg.Username, c.game.King()) {
		return nil
	}

	spec := games.ModeSpec{
		Kind:       "POLISH",
		Prefix:     "POLISH",
		DoneFormat: "Polishing session complete! Highest streak: %d",
	}
	if !c.game.StartMode(ctx, msg.Platform, msg.ChannelID, spec) {
		return nil
	}

	return cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID,
		"POLISH The King demands you polish your marble! POLISH")
}
