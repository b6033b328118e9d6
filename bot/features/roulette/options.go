package roulette

import (
	"fmt"
	"strconv"
	"strings"

	"wheelhouse/models"
)

// Options are the raw values of one /roulette invocation
type Options struct {
	Type    string
	Amount  int64
	Numbers string
	Which   int64
}

// ParseWager turns command options into a wager request. Inside bets need
// numbers, dozen and column bets need which, even-money bets need neither.
// The selection is classified again by the spin service.
func ParseWager(opts Options) (models.WagerRequest, error) {
	t, ok := models.ParseWagerType(opts.Type)
	if !ok {
		return models.WagerRequest{}, fmt.Errorf("unknown bet type %q", opts.Type)
	}
	if opts.Amount <= 0 {
		return models.WagerRequest{}, fmt.Errorf("amount must be positive")
	}

	req := models.WagerRequest{Type: t, Stake: opts.Amount}
	switch {
	case t.Inside():
		if strings.TrimSpace(opts.Numbers) == "" {
			return models.WagerRequest{}, fmt.Errorf("a %s bet needs numbers, e.g. numbers:%s", t, exampleNumbers[t])
		}
		numbers, err := ParseNumbers(opts.Numbers)
		if err != nil {
			return models.WagerRequest{}, err
		}
		req.Numbers = numbers

	case t == models.WagerTypeDozen || t == models.WagerTypeColumn:
		if opts.Which < 1 || opts.Which > 3 {
			return models.WagerRequest{}, fmt.Errorf("a %s bet needs which:1, 2 or 3", t)
		}
		if t == models.WagerTypeDozen {
			req.Target = models.DozenTarget(int(opts.Which))
		} else {
			req.Target = models.ColumnTarget(int(opts.Which))
		}

	default:
		req.Target = string(t)
	}
	return req, nil
}

var exampleNumbers = map[models.WagerType]string{
	models.WagerTypeStraight: "17",
	models.WagerTypeSplit:    "17,20",
	models.WagerTypeStreet:   "16,17,18",
	models.WagerTypeCorner:   "1,2,4,5",
	models.WagerTypeSixLine:  "31,32,33,34,35,36",
}

// ParseNumbers reads a comma or space separated list of pockets
func ParseNumbers(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no numbers given")
	}

	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", f)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}
