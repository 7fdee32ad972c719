package commands

import (
	"context"
	"strings"

	"feerBot/internal/domain"
	"feerBot/internal/usecase/games"
)

// PrayCommand arranca el modo pray: solo el rey puede usarlo.
type PrayCommand struct {
	game *games.ChallengeGame
}

func NewPrayCommand(game *games.ChallengeGame) *PrayCommand {
	return &PrayCommand{game: game}
}

func (c *PrayCommand) Name() string {
	return "pray"
}

func (c *PrayCommand) Aliases() []string {
	return []string{}
}

func (c *PrayCommand) SupportsPlatform(p domain.Platform) bool {
	return p == domain.PlatformTwitch || p == domain.PlatformKick
}

func (c *PrayCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	msg := cmdCtx.Message

	if !strings.EqualFold(msg.Username, c.game.King()) {
		return nil
	}

	spec := games.ModeSpec{
		Kind:       "pray",
		Prefix:     "Pray",
		DoneFormat: "Pray session complete! Highest streak: %d",
	}
	if !c.game.StartMode(ctx, msg.Platform, msg.ChannelID, spec) {
		return nil
	}

	return cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID,
		"Pray King of Marbles demands you pray! Pray")
}
