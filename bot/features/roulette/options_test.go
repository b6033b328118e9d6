package roulette

import (
	"testing"

	"wheelhouse/models"
	"wheelhouse/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWager(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected models.WagerRequest
	}{
		{
			name:     "corner",
			opts:     Options{Type: "corner", Amount: 10, Numbers: "1,2,4,5"},
			expected: models.WagerRequest{Type: models.WagerTypeCorner, Stake: 10, Numbers: []int{1, 2, 4, 5}},
		},
		{
			name:     "straight with spaces",
			opts:     Options{Type: "straight", Amount: 5, Numbers: " 17 "},
			expected: models.WagerRequest{Type: models.WagerTypeStraight, Stake: 5, Numbers: []int{17}},
		},
		{
			name:     "six line alias",
			opts:     Options{Type: "Six-Line", Amount: 5, Numbers: "31 32 33 34 35 36"},
			expected: models.WagerRequest{Type: models.WagerTypeSixLine, Stake: 5, Numbers: []int{31, 32, 33, 34, 35, 36}},
		},
		{
			name:     "second dozen",
			opts:     Options{Type: "dozen", Amount: 20, Which: 2},
			expected: models.WagerRequest{Type: models.WagerTypeDozen, Stake: 20, Target: "dozen2"},
		},
		{
			name:     "third column",
			opts:     Options{Type: "column", Amount: 20, Which: 3},
			expected: models.WagerRequest{Type: models.WagerTypeColumn, Stake: 20, Target: "column3"},
		},
		{
			name:     "red ignores numbers",
			opts:     Options{Type: "red", Amount: 50},
			expected: models.WagerRequest{Type: models.WagerTypeRed, Stake: 50, Target: "red"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseWager(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req)
		})
	}
}

func TestParseWager_Errors(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		contains string
	}{
		{"unknown type", Options{Type: "basket", Amount: 1}, "unknown bet type"},
		{"zero amount", Options{Type: "red"}, "positive"},
		{"inside without numbers", Options{Type: "split", Amount: 1}, "17,20"},
		{"garbage numbers", Options{Type: "split", Amount: 1, Numbers: "1,two"}, `"two"`},
		{"dozen without which", Options{Type: "dozen", Amount: 1}, "which"},
		{"column out of range", Options{Type: "column", Amount: 1, Which: 4}, "which"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWager(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

// Every parsed request should survive server-side classification unchanged
func TestParseWager_AgreesWithClassifier(t *testing.T) {
	for _, opts := range []Options{
		{Type: "straight", Amount: 1, Numbers: "0"},
		{Type: "split", Amount: 1, Numbers: "17,20"},
		{Type: "street", Amount: 1, Numbers: "16,17,18"},
		{Type: "corner", Amount: 1, Numbers: "1,2,4,5"},
		{Type: "six_line", Amount: 1, Numbers: "1,2,3,4,5,6"},
		{Type: "dozen", Amount: 1, Which: 1},
		{Type: "column", Amount: 1, Which: 2},
		{Type: "low", Amount: 1},
		{Type: "odd", Amount: 1},
		{Type: "black", Amount: 1},
	} {
		req, err := ParseWager(opts)
		require.NoError(t, err, opts.Type)

		cls, err := service.Classify(req)
		require.NoError(t, err, opts.Type)
		assert.NoError(t, service.CheckDeclaredType(req.Type, cls), opts.Type)
	}
}

func TestCommand_ChoicesCoverEveryWagerType(t *testing.T) {
	cmd := Command()
	require.Equal(t, "type", cmd.Options[0].Name)
	assert.Len(t, cmd.Options[0].Choices, len(models.AllWagerTypes))
	assert.LessOrEqual(t, len(cmd.Options[0].Choices), 25)
}
