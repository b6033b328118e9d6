package bot

import (
	"fmt"

	"wheelhouse/bot/features/balance"
	"wheelhouse/bot/features/roulette"
	"wheelhouse/bot/features/stats"
	"wheelhouse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
	// GuildID scopes command registration to one guild; empty registers globally
	GuildID string
}

type Bot struct {
	config  Config
	session *discordgo.Session

	roulette *roulette.Feature
	balance  *balance.Feature
	stats    *stats.Feature

	registered []*discordgo.ApplicationCommand
}

func New(config Config, accounts service.AccountService, spins service.SpinService, statsService service.StatsService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:   config,
		session:  dg,
		roulette: roulette.New(accounts, spins),
		balance:  balance.New(accounts),
		stats:    stats.NewFeature(accounts, statsService),
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.WithField("commands", len(bot.registered)).Info("Discord bot connected")
	return bot, nil
}

// Close removes guild-scoped commands and closes the gateway connection
func (b *Bot) Close() error {
	if b.config.GuildID != "" {
		for _, cmd := range b.registered {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
				log.Warnf("Failed to delete command %s: %v", cmd.Name, err)
			}
		}
	}
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "roulette":
		b.roulette.HandleCommand(s, i)
	case "balance":
		b.balance.HandleCommand(s, i)
	case "leaderboard":
		b.stats.HandleLeaderboard(s, i)
	case "stats":
		b.stats.HandleStats(s, i)
	}
}
