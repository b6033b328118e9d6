package stats

import (
	"bytes"
	"context"

	"wheelhouse/bot/common"
	"wheelhouse/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const leaderboardSize = 10

// Feature represents the stats feature (/leaderboard and /stats)
type Feature struct {
	accounts     service.AccountService
	statsService service.StatsService
	renderer     *BoardRenderer
}

// NewFeature creates a new stats feature instance
func NewFeature(accounts service.AccountService, statsService service.StatsService) *Feature {
	return &Feature{
		accounts:     accounts,
		statsService: statsService,
		renderer:     NewBoardRenderer(),
	}
}

// Commands describes the commands this feature answers
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{Name: "leaderboard", Description: "Show the players with the most chips"},
		{Name: "stats", Description: "Show your roulette statistics"},
	}
}

// HandleLeaderboard handles the /leaderboard command
func (f *Feature) HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	entries, err := f.statsService.GetLeaderboard(context.Background(), leaderboardSize)
	if err != nil {
		common.RespondWithServiceError(s, i, "stats.HandleLeaderboard", err)
		return
	}

	embed := BuildLeaderboardEmbed(entries)
	if len(entries) == 0 {
		common.RespondWithEmbed(s, i, embed, false)
		return
	}

	image, err := f.renderer.Render(entries)
	if err != nil {
		log.WithError(err).Error("Failed to render leaderboard image")
		common.RespondWithEmbed(s, i, embed, false)
		return
	}
	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + leaderboardImageName}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Files: []*discordgo.File{{
				Name:        leaderboardImageName,
				ContentType: "image/png",
				Reader:      bytes.NewReader(image),
			}},
		},
	})
	if err != nil {
		log.WithError(err).Error("Error responding with leaderboard")
	}
}

// HandleStats handles the /stats command for the invoking user
func (f *Feature) HandleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	const op = "stats.HandleStats"
	ctx := context.Background()

	accountID, name, err := common.Identify(i)
	if err != nil {
		common.RespondWithServiceError(s, i, op, err)
		return
	}
	if _, err := f.accounts.GetOrCreateAccount(ctx, accountID, name); err != nil {
		common.RespondWithServiceError(s, i, op, err)
		return
	}

	stats, err := f.statsService.GetAccountStats(ctx, accountID)
	if err != nil {
		common.RespondWithServiceError(s, i, op, err)
		return
	}
	common.RespondWithEmbed(s, i, BuildStatsEmbed(stats, name), true)
}
