package stats

import (
	"fmt"
	"strings"
	"time"

	"wheelhouse/bot/common"
	"wheelhouse/models"

	"github.com/bwmarrin/discordgo"
)

const colorPrimary = 0x3498db

// BuildLeaderboardEmbed creates the leaderboard embed
func BuildLeaderboardEmbed(entries []*models.LeaderboardEntry) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🏆 Roulette Leaderboard",
		Color:     colorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(entries) == 0 {
		embed.Description = "No players yet"
		return embed
	}

	var lines []string
	for _, entry := range entries {
		var medal string
		switch entry.Rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		default:
			medal = fmt.Sprintf("%d.", entry.Rank)
		}

		name := entry.Username
		if len([]rune(name)) > 24 {
			name = string([]rune(name)[:21]) + "..."
		}
		lines = append(lines, fmt.Sprintf("%s **%s** - %s chips", medal, name, common.FormatBalance(entry.Balance)))
	}

	embed.Description = strings.Join(lines, "\n")
	return embed
}

// BuildStatsEmbed creates the per-player statistics embed
func BuildStatsEmbed(stats *models.AccountStats, name string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("📊 Stats for %s", name),
		Color:     colorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💰 Balance", Value: common.FormatBalance(stats.Balance) + " chips", Inline: true},
		},
	}

	if stats.TotalSpins == 0 {
		embed.Description = "No spins yet. Try `/roulette`."
		return embed
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:   "🎡 Spins",
			Value:  fmt.Sprintf("%d played\n%d won (%.1f%%)", stats.TotalSpins, stats.TotalWins, stats.WinPercentage),
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name: "📈 Totals",
			Value: fmt.Sprintf("Staked: %s\nPaid out: %s\nNet: %s",
				common.FormatBalance(stats.TotalStaked),
				common.FormatBalance(stats.TotalPayout),
				common.FormatSigned(stats.NetProfit)),
		},
		&discordgo.MessageEmbedField{
			Name:   "Biggest win",
			Value:  common.FormatBalance(stats.BiggestWin),
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name:   "Biggest loss",
			Value:  common.FormatBalance(stats.BiggestLoss),
			Inline: true,
		},
	)
	return embed
}
