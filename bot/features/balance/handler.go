package balance

import (
	"context"
	"fmt"

	"wheelhouse/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	const op = "balance.handleBalance"
	ctx := context.Background()

	accountID, name, err := common.Identify(i)
	if err != nil {
		log.Errorf("Error identifying user: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// First use creates the account with its starting grant
	if _, err := f.accounts.GetOrCreateAccount(ctx, accountID, name); err != nil {
		common.RespondWithServiceError(s, i, op, err)
		return
	}

	balance, err := f.accounts.GetBalance(ctx, accountID)
	if err != nil {
		common.RespondWithServiceError(s, i, op, err)
		return
	}

	message := fmt.Sprintf("%s, your current balance: **%s chips**", name, common.FormatBalance(balance))
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}
