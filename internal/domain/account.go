// Package domain provides definitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountBanned indicates that the account is excluded from all operations.
	ErrAccountBanned = errors.New("account banned")
	// ErrAccountNotVerified indicates that the account has not passed verification.
	ErrAccountNotVerified = errors.New("account not verified")
)

// Account holds a ledger participant. Accounts are created and managed by an
// external collaborator; the ledger engine only ever reads them.
type Account struct {
	ID        string    `json:"id"`
	Banned    bool      `json:"banned"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
