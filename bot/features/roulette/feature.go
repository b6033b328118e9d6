package roulette

import (
	"context"

	"wheelhouse/bot/common"
	"wheelhouse/models"
	"wheelhouse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles the /roulette command
type Feature struct {
	accounts service.AccountService
	spins    service.SpinService
}

// New creates a new roulette feature instance
func New(accounts service.AccountService, spins service.SpinService) *Feature {
	return &Feature{accounts: accounts, spins: spins}
}

// Command describes /roulette for registration
func Command() *discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.AllWagerTypes))
	for _, t := range models.AllWagerTypes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(t), Value: string(t)})
	}
	minAmount := 1.0

	return &discordgo.ApplicationCommand{
		Name:        "roulette",
		Description: "Place a bet and spin the wheel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "type",
				Description: "Kind of bet",
				Required:    true,
				Choices:     choices,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "amount",
				Description: "Chips to stake",
				Required:    true,
				MinValue:    &minAmount,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "numbers",
				Description: "Pockets for inside bets, e.g. 1,2,4,5",
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "which",
				Description: "Dozen or column (1-3)",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "1", Value: 1},
					{Name: "2", Value: 2},
					{Name: "3", Value: 3},
				},
			},
		},
	}
}

// HandleCommand handles the /roulette command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	const op = "roulette.HandleCommand"
	ctx := context.Background()

	accountID, name, err := common.Identify(i)
	if err != nil {
		log.WithField("op", op).WithError(err).Error("Failed to identify user")
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	req, err := ParseWager(optionsFrom(i.ApplicationCommandData().Options))
	if err != nil {
		common.RespondWithError(s, i, err.Error())
		return
	}

	if _, err := f.accounts.GetOrCreateAccount(ctx, accountID, name); err != nil {
		common.RespondWithServiceError(s, i, op, err)
		return
	}

	outcome, err := f.spins.PlaySpin(ctx, accountID, []models.WagerRequest{req})
	if err != nil {
		common.RespondWithServiceError(s, i, op, err)
		return
	}

	common.RespondWithEmbed(s, i, BuildSpinEmbed(name, outcome), false)
}

func optionsFrom(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	var o Options
	for _, opt := range opts {
		switch opt.Name {
		case "type":
			o.Type = opt.StringValue()
		case "amount":
			o.Amount = opt.IntValue()
		case "numbers":
			o.Numbers = opt.StringValue()
		case "which":
			o.Which = opt.IntValue()
		}
	}
	return o
}
