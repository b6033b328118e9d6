package bot

import (
	"fmt"

	"wheelhouse/bot/features/balance"
	"wheelhouse/bot/features/roulette"
	"wheelhouse/bot/features/stats"

	"github.com/bwmarrin/discordgo"
)

// commands lists every slash command the bot answers
func commands() []*discordgo.ApplicationCommand {
	cmds := []*discordgo.ApplicationCommand{
		roulette.Command(),
		balance.Command(),
	}
	return append(cmds, stats.Commands()...)
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commands() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}

	return nil
}
