package balance

import (
	"wheelhouse/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	accounts service.AccountService
}

func New(accounts service.AccountService) *Feature {
	return &Feature{
		accounts: accounts,
	}
}

func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "balance",
		Description: "Check your current balance",
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBalance(s, i)
}
