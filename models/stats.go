package models

// SpinStats represents aggregated spin statistics for an account
type SpinStats struct {
	TotalSpins  int
	TotalWins   int
	TotalLosses int
	TotalStaked int64
	TotalPayout int64
	BiggestWin  int64
	BiggestLoss int64
}

// AccountStats represents combined statistics for an account
type AccountStats struct {
	Account       *Account `json:"account"`
	Balance       int64    `json:"balance"`
	TotalSpins    int      `json:"total_spins"`
	TotalWins     int      `json:"total_wins"`
	TotalLosses   int      `json:"total_losses"`
	WinPercentage float64  `json:"win_percentage"`
	TotalStaked   int64    `json:"total_staked"`
	TotalPayout   int64    `json:"total_payout"`
	NetProfit     int64    `json:"net_profit"`
	BiggestWin    int64    `json:"biggest_win"`
	BiggestLoss   int64    `json:"biggest_loss"`
}

// LeaderboardEntry represents an account's entry in the leaderboard
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	AccountID int64  `json:"account_id"`
	Username  string `json:"username"`
	Balance   int64  `json:"balance"`
}
