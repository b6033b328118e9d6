package service

import (
	"math"
	"slices"

	"wheelhouse/models"
)

// MaxStake bounds a spin's total stake so that 36x it still fits in an int64
const MaxStake int64 = math.MaxInt64 / 36

// maxWin is the largest net the wagers can produce on any pocket
func maxWin(wagers []models.Wager) int64 {
	var total int64
	for _, w := range wagers {
		total += w.Stake * w.PayoutRatio
	}
	return total
}

// Wins reports whether w wins on r. Inside bets win on pocket membership,
// outside bets on the drawn pocket's attributes.
func Wins(w models.Wager, r models.SpinResult) bool {
	if w.Type.Inside() {
		return slices.Contains(w.Pockets, r.Pocket)
	}
	return models.CoversResult(w.Target, r)
}

// Settle computes every wager's outcome against a single result and the
// aggregate net: sum(payouts) - sum(stakes).
func Settle(wagers []models.Wager, r models.SpinResult) models.Settlement {
	s := models.Settlement{
		Outcomes: make([]models.WagerOutcome, 0, len(wagers)),
	}
	for _, w := range wagers {
		o := models.WagerOutcome{Wager: w}
		if Wins(w, r) {
			o.Won = true
			o.Payout = w.Stake*w.PayoutRatio + w.Stake
		}
		s.Outcomes = append(s.Outcomes, o)
		s.TotalStaked += w.Stake
		s.TotalPayout += o.Payout
	}
	s.Net = s.TotalPayout - s.TotalStaked
	return s
}
