package models

// Color is the colour of a wheel pocket
type Color string

const (
	ColorRed   Color = "red"
	ColorBlack Color = "black"
	ColorGreen Color = "green"
)

// Parity of a drawn pocket. Zero has no parity.
type Parity string

const (
	ParityNone Parity = "none"
	ParityEven Parity = "even"
	ParityOdd  Parity = "odd"
)

const (
	MinPocket   = 0
	MaxPocket   = 36
	PocketCount = MaxPocket - MinPocket + 1

	// GridRows is the number of rows of the betting grid; 1-36 fill it column by column.
	GridRows    = 3
	GridColumns = 12
)

var redPockets = [PocketCount]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ValidPocket reports whether n is a pocket on the wheel
func ValidPocket(n int) bool {
	return n >= MinPocket && n <= MaxPocket
}

// PocketColor returns the colour of pocket n. Zero is green.
func PocketColor(n int) Color {
	if n == 0 {
		return ColorGreen
	}
	if redPockets[n] {
		return ColorRed
	}
	return ColorBlack
}

// PocketParity returns the parity of pocket n
func PocketParity(n int) Parity {
	switch {
	case n == 0:
		return ParityNone
	case n%2 == 0:
		return ParityEven
	default:
		return ParityOdd
	}
}

// GridRow returns the 0-based grid row of n, or -1 for zero
func GridRow(n int) int {
	if n <= 0 {
		return -1
	}
	return (n - 1) % GridRows
}

// GridColumn returns the 0-based grid column of n, or -1 for zero
func GridColumn(n int) int {
	if n <= 0 {
		return -1
	}
	return (n - 1) / GridRows
}

// PocketDozen returns 1, 2 or 3 for the dozen containing n, or 0 for zero
func PocketDozen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n-1)/12 + 1
}

// PocketColumnBet returns 1, 2 or 3 for the column bet covering n, or 0 for zero.
// Column bet 1 is {1, 4, ..., 34}, column bet 3 is {3, 6, ..., 36}.
func PocketColumnBet(n int) int {
	if n <= 0 {
		return 0
	}
	return GridRow(n) + 1
}

// PocketInfo describes one pocket of the fixed table layout
type PocketInfo struct {
	Number     int    `json:"number"`
	Color      Color  `json:"color"`
	Parity     Parity `json:"parity"`
	GridRow    int    `json:"grid_row"`
	GridColumn int    `json:"grid_column"`
	Dozen      int    `json:"dozen"`
	Column     int    `json:"column"`
}

// TableLayout is the read-only table description shared with clients
type TableLayout struct {
	Pockets       []PocketInfo        `json:"pockets"`
	PayoutRatios  map[WagerType]int64 `json:"payout_ratios"`
	OutsideTarget []string            `json:"outside_targets"`
}

// DescribePocket returns the layout attributes of pocket n
func DescribePocket(n int) PocketInfo {
	return PocketInfo{
		Number:     n,
		Color:      PocketColor(n),
		Parity:     PocketParity(n),
		GridRow:    GridRow(n),
		GridColumn: GridColumn(n),
		Dozen:      PocketDozen(n),
		Column:     PocketColumnBet(n),
	}
}

// Layout builds the full table layout
func Layout() *TableLayout {
	pockets := make([]PocketInfo, 0, PocketCount)
	for n := MinPocket; n <= MaxPocket; n++ {
		pockets = append(pockets, DescribePocket(n))
	}

	ratios := make(map[WagerType]int64, len(AllWagerTypes))
	for _, t := range AllWagerTypes {
		ratios[t] = t.PayoutRatio()
	}

	return &TableLayout{
		Pockets:       pockets,
		PayoutRatios:  ratios,
		OutsideTarget: OutsideTargets(),
	}
}
