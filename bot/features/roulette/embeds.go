package roulette

import (
	"fmt"
	"strings"

	"wheelhouse/bot/common"
	"wheelhouse/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorWin  = 0x2ecc71
	colorLoss = 0xe74c3c
	colorPush = 0x95a5a6
)

// BuildSpinEmbed renders a settled spin for the channel
func BuildSpinEmbed(player string, outcome *models.SpinOutcome) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎡 %s", common.FormatPocket(outcome.Result)),
		Color: colorPush,
	}

	switch {
	case outcome.Net > 0:
		embed.Color = colorWin
		embed.Description = fmt.Sprintf("**%s** wins **%s** chips!", player, common.FormatBalance(outcome.Net))
	case outcome.Net < 0:
		embed.Color = colorLoss
		embed.Description = fmt.Sprintf("**%s** loses **%s** chips.", player, common.FormatBalance(-outcome.Net))
	default:
		embed.Description = fmt.Sprintf("**%s** breaks even.", player)
	}

	var lines strings.Builder
	for _, o := range outcome.Outcomes {
		mark := "✗"
		if o.Won {
			mark = "✓"
		}
		fmt.Fprintf(&lines, "%s %s on %s: %s\n", mark, common.FormatBalance(o.Wager.Stake), describeWager(o.Wager), common.FormatSigned(o.Net()))
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Wagers", Value: lines.String()},
		{Name: "Balance", Value: common.FormatBalance(outcome.Balance) + " chips", Inline: true},
	}
	if outcome.Result.Pocket != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Pocket",
			Value:  fmt.Sprintf("%s, %s, dozen %d, column %d", outcome.Result.Color, outcome.Result.Parity, outcome.Result.Dozen, outcome.Result.Column),
			Inline: true,
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Spin " + outcome.SpinID.String()}
	return embed
}

func describeWager(w models.Wager) string {
	if w.Target != "" {
		return w.Target
	}
	numbers := make([]string, len(w.Pockets))
	for i, n := range w.Pockets {
		numbers[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("%s %s", w.Type, strings.Join(numbers, "-"))
}
