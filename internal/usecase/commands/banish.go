package commands

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"feerBot/internal/domain"
)

const banishDuration = 5 * time.Minute

// UserLookup resuelve un login de chat al user ID que pide la API de
// moderación.
type UserLookup interface {
	UserID(ctx context.Context, login string) (string, error)
}

// BanishCommand deja al rey expulsar súbditos por cinco minutos.
type BanishCommand struct {
	king   string
	lookup UserLookup
	mod    domain.Moderator
}

func NewBanishCommand(king string, lookup UserLookup, mod domain.Moderator) *BanishCommand {
	return &BanishCommand{king: king, lookup: lookup, mod: mod}
}

func (c *BanishCommand) Name() string {
	return "banish"
}

func (c *BanishCommand) Aliases() []string {
	return []string{}
}

func (c *BanishCommand) SupportsPlatform(p domain.Platform) bool {
	// la resolución de IDs es vía Helix, solo Twitch
	return p == domain.PlatformTwitch
}

func (c *BanishCommand) Handle(ctx context.Context, cmdCtx *Context) error {
	msg := cmdCtx.Message

	if !strings.EqualFold(msg.Username, c.king) {
		return cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID,
			"Only the King can banish subjects!")
	}

	if len(cmdCtx.Args) == 0 {
		return cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID,
			"Usage: !banish <username>")
	}
	target := strings.TrimPrefix(cmdCtx.Args[0], "@")

	userID, err := c.lookup.UserID(ctx, target)
	if err != nil {
		log.Printf("banish command: lookup %q: %v", target, err)
		return cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID,
			fmt.Sprintf("Could not find user: %s", target))
	}

	if err := c.mod.Timeout(ctx, msg.Platform, userID, banishDuration, "Banished by the King!"); err != nil {
		log.Printf("banish command: timeout %q: %v", target, err)
		return nil
	}

	return cmdCtx.Out.SendMessage(ctx, msg.Platform, msg.ChannelID,
		fmt.Sprintf("%s has been banished for 5 minutes!", target))
}
