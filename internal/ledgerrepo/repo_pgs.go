// Package ledgerrepo manages repository layer of the ledger engine.
//
// It owns all writes to the balances, transactions and mutations tables. The
// only write path is Pay, which performs the whole read-lock-check-write
// sequence inside one database transaction.
package ledgerrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-petr/pay-ledger/internal/domain"
	"github.com/go-petr/pay-ledger/pkg/dbpkg"
	"github.com/go-petr/pay-ledger/pkg/errorspkg"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const lockNotAvailableCode = "55P03"

// RepoPGS facilitates ledger repository layer logic.
type RepoPGS struct {
	db          dbpkg.SQLInterface
	conn        *sql.DB
	lockTimeout time.Duration
}

// NewTxRepoPGS returns ledger RepoPGS bound to an enclosing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

// NewRepoPGS returns ledger RepoPGS with a connection to start transactions.
// lockTimeout bounds the row-lock wait inside Pay; zero disables the bound.
func NewRepoPGS(db *sql.DB, lockTimeout time.Duration) *RepoPGS {
	return &RepoPGS{
		db:          db,
		conn:        db,
		lockTimeout: lockTimeout,
	}
}

const getBalanceQuery = `
SELECT amount FROM balances
WHERE account_id = $1
`

// GetBalance returns the current amount of the given account. An account
// without a balance row reads as zero; that is not an error.
func (r *RepoPGS) GetBalance(ctx context.Context, accountID string) (string, error) {
	l := zerolog.Ctx(ctx)

	var amount string

	err := r.db.QueryRowContext(ctx, getBalanceQuery, accountID).Scan(&amount)
	if err != nil {
		if err == sql.ErrNoRows {
			return "0.00", nil
		}

		l.Error().Err(err).Send()

		return "", errorspkg.ErrInternal
	}

	return amount, nil
}

const orderIDExistsQuery = `
SELECT EXISTS (SELECT 1 FROM transactions WHERE order_id = $1)
`

// OrderIDExists reports whether a transaction with the given order id was
// already created.
func (r *RepoPGS) OrderIDExists(ctx context.Context, orderID string) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool

	err := r.db.QueryRowContext(ctx, orderIDExistsQuery, orderID).Scan(&exists)
	if err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return exists, nil
}

const countTransactionsQuery = `
SELECT count(*) FROM transactions
WHERE sender_id = $1 OR receiver_id = $1
`

const listTransactionsQuery = `
SELECT
	id, order_id, sender_id, receiver_id, amount, status, payment_method, product, notes, created_at, updated_at
FROM transactions
WHERE sender_id = $1 OR receiver_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3
`

// ListTransactions returns one page of transactions where the account is
// sender or receiver, newest first, along with the total count.
func (r *RepoPGS) ListTransactions(ctx context.Context, accountID string, limit, offset int32) ([]domain.Transaction, int64, error) {
	l := zerolog.Ctx(ctx)

	var total int64
	if err := r.db.QueryRowContext(ctx, countTransactionsQuery, accountID).Scan(&total); err != nil {
		l.Error().Err(err).Send()
		return nil, 0, errorspkg.ErrInternal
	}

	rows, err := r.db.QueryContext(ctx, listTransactionsQuery, accountID, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, 0, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.ID,
			&t.OrderID,
			&t.SenderID,
			&t.ReceiverID,
			&t.Amount,
			&t.Status,
			&t.PaymentMethod,
			&t.Product,
			&t.Notes,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, 0, errorspkg.ErrInternal
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, 0, errorspkg.ErrInternal
	}

	return items, total, nil
}

const listMutationsQuery = `
SELECT
	id, account_id, balance_before, balance_after, type, transaction_id, note, created_at
FROM mutations
WHERE account_id = $1 AND ($2::text = '' OR type = $2::text)
ORDER BY created_at DESC, id DESC
LIMIT $3 OFFSET $4
`

// Count and both totals come from one statement so they always describe the
// same population.
const summarizeMutationsQuery = `
SELECT
	count(*),
	COALESCE(SUM(CASE WHEN type = 'debit' THEN balance_before - balance_after ELSE 0 END), 0)::text,
	COALESCE(SUM(CASE WHEN type = 'credit' THEN balance_after - balance_before ELSE 0 END), 0)::text
FROM mutations
WHERE account_id = $1 AND ($2::text = '' OR type = $2::text)
`

// ListMutations returns one page of the account's mutations, newest first,
// optionally filtered by type, along with the total count and a summary of
// balance deltas across the full filtered population.
func (r *RepoPGS) ListMutations(ctx context.Context, accountID string, limit, offset int32, mutationType string) ([]domain.Mutation, int64, domain.MutationsSummary, error) {
	l := zerolog.Ctx(ctx)

	var (
		total   int64
		summary domain.MutationsSummary
	)

	var debited, credited string
	if err := r.db.QueryRowContext(ctx, summarizeMutationsQuery, accountID, mutationType).Scan(&total, &debited, &credited); err != nil {
		l.Error().Err(err).Send()
		return nil, 0, summary, errorspkg.ErrInternal
	}

	summary, err := buildSummary(debited, credited)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, 0, summary, errorspkg.ErrInternal
	}

	rows, err := r.db.QueryContext(ctx, listMutationsQuery, accountID, mutationType, limit, offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, 0, summary, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Mutation{}

	for rows.Next() {
		var m domain.Mutation
		if err := rows.Scan(
			&m.ID,
			&m.AccountID,
			&m.BalanceBefore,
			&m.BalanceAfter,
			&m.Type,
			&m.TransactionID,
			&m.Note,
			&m.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, 0, summary, errorspkg.ErrInternal
		}

		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, 0, summary, errorspkg.ErrInternal
	}

	return items, total, summary, nil
}

func buildSummary(debited, credited string) (domain.MutationsSummary, error) {
	var s domain.MutationsSummary

	debitedDec, err := decimal.NewFromString(debited)
	if err != nil {
		return s, err
	}

	creditedDec, err := decimal.NewFromString(credited)
	if err != nil {
		return s, err
	}

	s.TotalDebited = debitedDec.StringFixed(2)
	s.TotalCredited = creditedDec.StringFixed(2)
	s.NetChange = creditedDec.Sub(debitedDec).StringFixed(2)

	return s, nil
}

// Pay debits the sender, credits the receiver and writes the paired ledger
// records within a single database transaction.
//
// Both balance rows are locked with SELECT ... FOR UPDATE before any read of
// their amounts. Locks are taken in ascending account id order so that two
// opposite-direction payments can never deadlock. Any failure after BeginTx
// rolls the whole transaction back; no partial write survives.
func (r *RepoPGS) Pay(ctx context.Context, arg domain.CreatePaymentParams) (domain.PaymentTxResult, error) {
	l := zerolog.Ctx(ctx)

	var result domain.PaymentTxResult

	amount, err := decimal.NewFromString(arg.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return result, domain.ErrInvalidAmount
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	if r.lockTimeout > 0 {
		timeoutStmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, timeoutStmt); err != nil {
			l.Error().Err(err).Send()
			return result, errorspkg.ErrInternal
		}
	}

	// A receiver with no balance row yet must still produce a row to lock,
	// otherwise two concurrent first-credits would both miss the lock and race
	// on the insert. The zero row is created up front; a concurrent creator
	// simply wins the conflict and both payments serialize on the row lock.
	if _, err := tx.ExecContext(ctx, ensureBalanceQuery, arg.ReceiverID); err != nil {
		l.Error().Err(err).Send()
		return result, mapStorageErr(err)
	}

	senderBefore, receiverBefore, err := lockBalances(ctx, tx, arg.SenderID, arg.ReceiverID)
	if err != nil {
		if err != domain.ErrSenderBalanceMissing {
			l.Error().Err(err).Send()
		}

		return result, err
	}

	if senderBefore.LessThan(amount) {
		return result, domain.ErrInsufficientFunds
	}

	senderAfter := senderBefore.Sub(amount)
	receiverAfter := receiverBefore.Add(amount)

	result.SenderBalance, err = setBalance(ctx, tx, arg.SenderID, senderAfter)
	if err != nil {
		l.Error().Err(err).Send()
		return result, mapStorageErr(err)
	}

	result.ReceiverBalance, err = setBalance(ctx, tx, arg.ReceiverID, receiverAfter)
	if err != nil {
		l.Error().Err(err).Send()
		return result, mapStorageErr(err)
	}

	result.Transaction, err = createTransaction(ctx, tx, arg)
	if err != nil {
		switch err {
		case domain.ErrDuplicateOrderID, domain.ErrSenderNotFound, domain.ErrReceiverNotFound:
			return result, err
		}

		l.Error().Err(err).Send()

		return result, mapStorageErr(err)
	}

	result.DebitMutation, err = createMutation(ctx, tx, domain.Mutation{
		AccountID:     arg.SenderID,
		BalanceBefore: senderBefore.StringFixed(2),
		BalanceAfter:  senderAfter.StringFixed(2),
		Type:          domain.MutationDebit,
		TransactionID: result.Transaction.ID,
	})
	if err != nil {
		l.Error().Err(err).Send()
		return result, mapStorageErr(err)
	}

	result.CreditMutation, err = createMutation(ctx, tx, domain.Mutation{
		AccountID:     arg.ReceiverID,
		BalanceBefore: receiverBefore.StringFixed(2),
		BalanceAfter:  receiverAfter.StringFixed(2),
		Type:          domain.MutationCredit,
		TransactionID: result.Transaction.ID,
	})
	if err != nil {
		l.Error().Err(err).Send()
		return result, mapStorageErr(err)
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return domain.PaymentTxResult{}, mapStorageErr(err)
	}

	return result, nil
}

const ensureBalanceQuery = `
INSERT INTO
    balances (account_id, amount)
VALUES
    ($1, 0)
ON CONFLICT (account_id) DO NOTHING
`

const lockBalanceQuery = `
SELECT amount FROM balances
WHERE account_id = $1
FOR UPDATE
`

// lockBalances acquires exclusive row locks on both balance rows in ascending
// account id order and returns the locked amounts. The receiver row exists by
// now; a missing sender row fails the payment.
func lockBalances(ctx context.Context, tx *sql.Tx, senderID, receiverID string) (sender, receiver decimal.Decimal, err error) {
	first, second := senderID, receiverID
	if second < first {
		first, second = second, first
	}

	amounts := make(map[string]decimal.Decimal, 2)

	for _, id := range []string{first, second} {
		var amount string

		scanErr := tx.QueryRowContext(ctx, lockBalanceQuery, id).Scan(&amount)
		if scanErr != nil {
			if scanErr == sql.ErrNoRows && id == senderID {
				return sender, receiver, domain.ErrSenderBalanceMissing
			}

			return sender, receiver, mapStorageErr(scanErr)
		}

		amounts[id], err = decimal.NewFromString(amount)
		if err != nil {
			return sender, receiver, err
		}
	}

	return amounts[senderID], amounts[receiverID], nil
}

const setBalanceQuery = `
UPDATE balances
SET amount = $1, updated_at = now()
WHERE account_id = $2
RETURNING account_id, amount, updated_at
`

func setBalance(ctx context.Context, tx *sql.Tx, accountID string, amount decimal.Decimal) (domain.Balance, error) {
	row := tx.QueryRowContext(ctx, setBalanceQuery, amount.StringFixed(2), accountID)

	var b domain.Balance
	if err := row.Scan(&b.AccountID, &b.Amount, &b.UpdatedAt); err != nil {
		return b, err
	}

	return b, nil
}

const createTransactionQuery = `
INSERT INTO
    transactions (id, order_id, sender_id, receiver_id, amount, status, payment_method, product, notes)
VALUES
    ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, order_id, sender_id, receiver_id, amount, status, payment_method, product, notes, created_at, updated_at
`

func createTransaction(ctx context.Context, tx *sql.Tx, arg domain.CreatePaymentParams) (domain.Transaction, error) {
	row := tx.QueryRowContext(ctx, createTransactionQuery,
		uuid.NewString(),
		arg.OrderID,
		arg.SenderID,
		arg.ReceiverID,
		arg.Amount,
		domain.TransactionStatusPaid,
		arg.PaymentMethod,
		arg.Product,
		arg.Notes,
	)

	var t domain.Transaction

	err := row.Scan(
		&t.ID,
		&t.OrderID,
		&t.SenderID,
		&t.ReceiverID,
		&t.Amount,
		&t.Status,
		&t.PaymentMethod,
		&t.Product,
		&t.Notes,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_order_id_key":
				return t, domain.ErrDuplicateOrderID
			case "transactions_sender_id_fkey":
				return t, domain.ErrSenderNotFound
			case "transactions_receiver_id_fkey":
				return t, domain.ErrReceiverNotFound
			}
		}

		return t, err
	}

	return t, nil
}

const createMutationQuery = `
INSERT INTO
    mutations (id, account_id, balance_before, balance_after, type, transaction_id, note)
VALUES
    ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, account_id, balance_before, balance_after, type, transaction_id, note, created_at
`

func createMutation(ctx context.Context, tx *sql.Tx, arg domain.Mutation) (domain.Mutation, error) {
	row := tx.QueryRowContext(ctx, createMutationQuery,
		uuid.NewString(),
		arg.AccountID,
		arg.BalanceBefore,
		arg.BalanceAfter,
		arg.Type,
		arg.TransactionID,
		arg.Note,
	)

	var m domain.Mutation

	err := row.Scan(
		&m.ID,
		&m.AccountID,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.Type,
		&m.TransactionID,
		&m.Note,
		&m.CreatedAt,
	)
	if err != nil {
		return m, err
	}

	return m, nil
}

// mapStorageErr distinguishes an expired lock wait from other storage
// failures. Neither leaves any persisted effect.
func mapStorageErr(err error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == lockNotAvailableCode {
		return errorspkg.ErrLockTimeout
	}

	return errorspkg.ErrInternal
}
