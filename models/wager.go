package models

import (
	"fmt"
	"strings"
)

// WagerType is the geometric or categorical kind of a wager
type WagerType string

const (
	WagerTypeStraight WagerType = "straight"
	WagerTypeSplit    WagerType = "split"
	WagerTypeStreet   WagerType = "street"
	WagerTypeCorner   WagerType = "corner"
	WagerTypeSixLine  WagerType = "six_line"
	WagerTypeColumn   WagerType = "column"
	WagerTypeDozen    WagerType = "dozen"
	WagerTypeLow      WagerType = "low"
	WagerTypeHigh     WagerType = "high"
	WagerTypeEven     WagerType = "even"
	WagerTypeOdd      WagerType = "odd"
	WagerTypeRed      WagerType = "red"
	WagerTypeBlack    WagerType = "black"
)

// AllWagerTypes lists every supported wager type, inside bets first
var AllWagerTypes = []WagerType{
	WagerTypeStraight,
	WagerTypeSplit,
	WagerTypeStreet,
	WagerTypeCorner,
	WagerTypeSixLine,
	WagerTypeColumn,
	WagerTypeDozen,
	WagerTypeLow,
	WagerTypeHigh,
	WagerTypeEven,
	WagerTypeOdd,
	WagerTypeRed,
	WagerTypeBlack,
}

var payoutRatios = map[WagerType]int64{
	WagerTypeStraight: 35,
	WagerTypeSplit:    17,
	WagerTypeStreet:   11,
	WagerTypeCorner:   8,
	WagerTypeSixLine:  5,
	WagerTypeColumn:   2,
	WagerTypeDozen:    2,
	WagerTypeLow:      1,
	WagerTypeHigh:     1,
	WagerTypeEven:     1,
	WagerTypeOdd:      1,
	WagerTypeRed:      1,
	WagerTypeBlack:    1,
}

// PayoutRatio returns the "ratio to 1" paid on a winning wager of this type,
// or 0 for an unknown type
func (t WagerType) PayoutRatio() int64 {
	return payoutRatios[t]
}

// Valid reports whether t is a known wager type
func (t WagerType) Valid() bool {
	_, ok := payoutRatios[t]
	return ok
}

// Inside reports whether the wager is placed on the number grid
func (t WagerType) Inside() bool {
	switch t {
	case WagerTypeStraight, WagerTypeSplit, WagerTypeStreet, WagerTypeCorner, WagerTypeSixLine:
		return true
	}
	return false
}

// Symbolic outside-bet identifiers
const (
	TargetRed   = "red"
	TargetBlack = "black"
	TargetEven  = "even"
	TargetOdd   = "odd"
	TargetLow   = "low"
	TargetHigh  = "high"
)

// DozenTarget returns the identifier of dozen d (1-3)
func DozenTarget(d int) string { return fmt.Sprintf("dozen%d", d) }

// ColumnTarget returns the identifier of column bet c (1-3)
func ColumnTarget(c int) string { return fmt.Sprintf("column%d", c) }

// OutsideTargets lists every symbolic outside-bet identifier
func OutsideTargets() []string {
	targets := []string{TargetRed, TargetBlack, TargetEven, TargetOdd, TargetLow, TargetHigh}
	for i := 1; i <= 3; i++ {
		targets = append(targets, DozenTarget(i))
	}
	for i := 1; i <= 3; i++ {
		targets = append(targets, ColumnTarget(i))
	}
	return targets
}

// WagerRequest is a wager as submitted by a client. Type is advisory and
// is re-derived from Numbers/Target before anything is settled.
type WagerRequest struct {
	Type    WagerType `json:"type"`
	Stake   int64     `json:"stake"`
	Numbers []int     `json:"numbers,omitempty"`
	Target  string    `json:"target,omitempty"`
}

// Classification is the server-derived shape of a selection
type Classification struct {
	Type        WagerType
	PayoutRatio int64
	// Pockets covered by the wager, ascending. Never contains 0 for outside bets.
	Pockets []int
	// Target is the canonical outside-bet identifier, empty for inside bets
	Target string
}

// Wager is a classified wager ready for settlement
type Wager struct {
	Type        WagerType `json:"type"`
	Stake       int64     `json:"stake"`
	Pockets     []int     `json:"numbers,omitempty"`
	Target      string    `json:"target,omitempty"`
	PayoutRatio int64     `json:"payout_ratio"`
}

// WagerOutcome is the settled result of one wager
type WagerOutcome struct {
	Wager  Wager `json:"wager"`
	Won    bool  `json:"won"`
	Payout int64 `json:"payout"`
}

// Net returns the signed contribution of this wager to the spin result
func (o WagerOutcome) Net() int64 {
	return o.Payout - o.Wager.Stake
}

// Settlement is the aggregate of all outcomes for one spin
type Settlement struct {
	Outcomes    []WagerOutcome `json:"outcomes"`
	TotalStaked int64          `json:"total_staked"`
	TotalPayout int64          `json:"total_payout"`
	Net         int64          `json:"net"`
}

var wagerTypeAliases = map[string]WagerType{
	"straight_up": WagerTypeStraight,
	"sixline":     WagerTypeSixLine,
	"low_half":    WagerTypeLow,
	"high_half":   WagerTypeHigh,
}

// ParseWagerType normalizes a client-supplied type name ("Six-Line",
// "straight_up", ...) to a WagerType
func ParseWagerType(s string) (WagerType, bool) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if t, ok := wagerTypeAliases[name]; ok {
		return t, true
	}
	t := WagerType(name)
	return t, t.Valid()
}

// CoversResult reports whether the outside bet named by target wins on r.
// Zero has no colour, parity, half, dozen or column, so it covers nothing.
func CoversResult(target string, r SpinResult) bool {
	if r.Pocket == 0 {
		return false
	}
	switch target {
	case TargetRed:
		return r.Color == ColorRed
	case TargetBlack:
		return r.Color == ColorBlack
	case TargetEven:
		return r.Parity == ParityEven
	case TargetOdd:
		return r.Parity == ParityOdd
	case TargetLow:
		return r.Pocket <= 18
	case TargetHigh:
		return r.Pocket >= 19
	}
	for i := 1; i <= 3; i++ {
		switch target {
		case DozenTarget(i):
			return r.Dozen == i
		case ColumnTarget(i):
			return r.Column == i
		}
	}
	return false
}

// TargetPockets lists the pockets covered by an outside bet, ascending
func TargetPockets(target string) []int {
	var pockets []int
	for n := 1; n <= MaxPocket; n++ {
		if CoversResult(target, NewSpinResult(n)) {
			pockets = append(pockets, n)
		}
	}
	return pockets
}
