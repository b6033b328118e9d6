package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPocketColor(t *testing.T) {
	assert.Equal(t, ColorGreen, PocketColor(0))

	reds := 0
	for n := 1; n <= MaxPocket; n++ {
		if PocketColor(n) == ColorRed {
			reds++
		}
	}
	assert.Equal(t, 18, reds)

	assert.Equal(t, ColorRed, PocketColor(1))
	assert.Equal(t, ColorBlack, PocketColor(2))
	assert.Equal(t, ColorBlack, PocketColor(10))
	assert.Equal(t, ColorRed, PocketColor(36))
}

func TestPocketAttributes(t *testing.T) {
	tests := []struct {
		n      int
		parity Parity
		dozen  int
		column int
		row    int
		col    int
	}{
		{0, ParityNone, 0, 0, -1, -1},
		{1, ParityOdd, 1, 1, 0, 0},
		{12, ParityEven, 1, 3, 2, 3},
		{13, ParityOdd, 2, 1, 0, 4},
		{24, ParityEven, 2, 3, 2, 7},
		{35, ParityOdd, 3, 2, 1, 11},
	}

	for _, tt := range tests {
		info := DescribePocket(tt.n)
		assert.Equal(t, tt.parity, info.Parity, "parity of %d", tt.n)
		assert.Equal(t, tt.dozen, info.Dozen, "dozen of %d", tt.n)
		assert.Equal(t, tt.column, info.Column, "column of %d", tt.n)
		assert.Equal(t, tt.row, info.GridRow, "row of %d", tt.n)
		assert.Equal(t, tt.col, info.GridColumn, "grid column of %d", tt.n)
	}
}

func TestLayout(t *testing.T) {
	layout := Layout()

	assert.Len(t, layout.Pockets, PocketCount)
	for i, p := range layout.Pockets {
		assert.Equal(t, i, p.Number)
	}
	assert.Len(t, layout.PayoutRatios, len(AllWagerTypes))
	assert.Equal(t, int64(17), layout.PayoutRatios[WagerTypeSplit])
	assert.Equal(t, int64(2), layout.PayoutRatios[WagerTypeDozen])
	assert.ElementsMatch(t, []string{
		"red", "black", "even", "odd", "low", "high",
		"dozen1", "dozen2", "dozen3", "column1", "column2", "column3",
	}, layout.OutsideTarget)
}

func TestParseWagerType(t *testing.T) {
	tests := []struct {
		in   string
		want WagerType
		ok   bool
	}{
		{"straight", WagerTypeStraight, true},
		{"Straight_Up", WagerTypeStraight, true},
		{" Six-Line ", WagerTypeSixLine, true},
		{"sixline", WagerTypeSixLine, true},
		{"high_half", WagerTypeHigh, true},
		{"basket", "basket", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseWagerType(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestCoversResult_ZeroCoversNothing(t *testing.T) {
	zero := NewSpinResult(0)
	for _, target := range OutsideTargets() {
		assert.False(t, CoversResult(target, zero), target)
	}
}

func TestSpinEntryKind(t *testing.T) {
	assert.Equal(t, EntryKindSpinWin, SpinEntryKind(1))
	assert.Equal(t, EntryKindSpinLoss, SpinEntryKind(-1))
	assert.Equal(t, EntryKindSpinPush, SpinEntryKind(0))
}
