package domain

import (
	"errors"
	"time"
)

var (
	// ErrMutationNotFound indicates that the mutation is not found.
	ErrMutationNotFound = errors.New("mutation not found")
	// ErrInvalidMutationType indicates an unknown mutation type filter.
	ErrInvalidMutationType = errors.New("invalid mutation type")
)

// MutationType tells whether a mutation decreased or increased a balance.
type MutationType string

// Mutation types.
const (
	MutationDebit  MutationType = "debit"
	MutationCredit MutationType = "credit"
)

// Mutation is an immutable ledger line. Every successful payment appends
// exactly two: a debit for the sender and a credit for the receiver.
type Mutation struct {
	ID            string       `json:"id"`
	AccountID     string       `json:"account_id"`
	BalanceBefore string       `json:"balance_before"`
	BalanceAfter  string       `json:"balance_after"`
	Type          MutationType `json:"type"`
	TransactionID string       `json:"transaction_id"`
	Note          string       `json:"note,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// MutationsSummary aggregates balance deltas over the full filtered mutation
// population of an account, not just the returned page.
type MutationsSummary struct {
	TotalDebited  string `json:"total_debited"`
	TotalCredited string `json:"total_credited"`
	NetChange     string `json:"net_change"`
}

// MutationsPage is one page of an account's mutation history.
type MutationsPage struct {
	Items   []Mutation       `json:"items"`
	Total   int64            `json:"total"`
	HasMore bool             `json:"has_more"`
	Summary MutationsSummary `json:"summary"`
}
