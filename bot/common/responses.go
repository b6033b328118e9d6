package common

import (
	"errors"

	"wheelhouse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// RespondWithEmbed sends an embed as an interaction response
func RespondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Errorf("Error responding with embed: %v", err)
	}
}

// RespondWithError sends an ephemeral error message
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ " + message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// UserMessage turns a service error into something safe to show a player.
// Rejections keep their reason; failures get a generic message.
func UserMessage(err error) string {
	var rej *service.RejectionError
	switch {
	case errors.As(err, &rej):
		return rej.Error()
	case errors.Is(err, service.ErrServiceBusy):
		return "The table is busy right now. Please try again."
	case errors.Is(err, service.ErrAccountNotFound):
		return "No account found."
	default:
		return "Something went wrong. Please try again."
	}
}

// RespondWithServiceError answers with UserMessage(err) and logs failures
func RespondWithServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, op string, err error) {
	if !service.IsRejection(err) {
		log.WithField("op", op).WithError(err).Error("Command failed")
	}
	RespondWithError(s, i, UserMessage(err))
}
