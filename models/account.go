package models

import (
	"time"
)

// Account is a player identity. It has no balance column; see LedgerEntry.
type Account struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AccountBalance pairs an account with its derived balance
type AccountBalance struct {
	Account *Account `json:"account"`
	Balance int64    `json:"balance"`
}
