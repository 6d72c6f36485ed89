package domain

import (
	"errors"
	"time"
)

var (
	// ErrSenderBalanceMissing indicates that the sender has no balance row to debit.
	ErrSenderBalanceMissing = errors.New("sender balance missing")
	// ErrInsufficientFunds indicates that the sender balance cannot cover the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Balance holds the current spendable amount of one account.
//
// A balance row is created lazily on the first credit; until then the account's
// balance reads as zero. Amounts are decimal strings with two fractional digits.
type Balance struct {
	AccountID string    `json:"account_id"`
	Amount    string    `json:"amount"` // never negative
	UpdatedAt time.Time `json:"updated_at"`
}
