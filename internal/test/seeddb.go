// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"

	"github.com/go-petr/pay-ledger/internal/domain"
	"github.com/go-petr/pay-ledger/pkg/dbpkg"
	"github.com/go-petr/pay-ledger/pkg/randompkg"
)

// SeedAccount creates an active, verified account inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface) domain.Account {
	t.Helper()

	return seedAccount(t, tx, false, true)
}

// SeedBannedAccount creates a banned account inside a test transaction.
func SeedBannedAccount(t *testing.T, tx dbpkg.SQLInterface) domain.Account {
	t.Helper()

	return seedAccount(t, tx, true, true)
}

// SeedUnverifiedAccount creates an unverified account inside a test transaction.
func SeedUnverifiedAccount(t *testing.T, tx dbpkg.SQLInterface) domain.Account {
	t.Helper()

	return seedAccount(t, tx, false, false)
}

func seedAccount(t *testing.T, tx dbpkg.SQLInterface, banned, verified bool) domain.Account {
	t.Helper()

	const query = `
	INSERT INTO accounts (id, banned, verified)
	VALUES ($1, $2, $3)
	RETURNING id, banned, verified, created_at`

	id := randompkg.AccountID()

	var account domain.Account

	row := tx.QueryRowContext(context.Background(), query, id, banned, verified)
	if err := row.Scan(&account.ID, &account.Banned, &account.Verified, &account.CreatedAt); err != nil {
		t.Fatalf("seeding account %v returned error: %v", id, err)
	}

	return account
}

// SeedBalance sets the account's balance inside a test transaction.
func SeedBalance(t *testing.T, tx dbpkg.SQLInterface, accountID, amount string) domain.Balance {
	t.Helper()

	const query = `
	INSERT INTO balances (account_id, amount)
	VALUES ($1, $2)
	RETURNING account_id, amount, updated_at`

	var balance domain.Balance

	row := tx.QueryRowContext(context.Background(), query, accountID, amount)
	if err := row.Scan(&balance.AccountID, &balance.Amount, &balance.UpdatedAt); err != nil {
		t.Fatalf("seeding balance %v for account %v returned error: %v", amount, accountID, err)
	}

	return balance
}

// SeedAccountWithBalance creates an active, verified account holding the given
// amount inside a test transaction.
func SeedAccountWithBalance(t *testing.T, tx dbpkg.SQLInterface, amount string) domain.Account {
	t.Helper()

	account := SeedAccount(t, tx)
	SeedBalance(t, tx, account.ID, amount)

	return account
}
