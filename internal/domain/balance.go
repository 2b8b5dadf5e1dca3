package domain

import "github.com/shopspring/decimal"

// DustThreshold is the largest balance treated as noise and left out of results.
var DustThreshold = decimal.RequireFromString("0.00000000001")

// Balances maps an address to its net token amount.
type Balances map[string]decimal.Decimal

// BalanceRecord is one row of the sorted balance list.
type BalanceRecord struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}
