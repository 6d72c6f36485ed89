package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidAmount indicates a zero, negative, out-of-range or badly shaped amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrSelfTransfer indicates that sender and receiver are the same account.
	ErrSelfTransfer = errors.New("self transfer")
	// ErrSenderNotFound indicates that the sender account does not exist.
	ErrSenderNotFound = errors.New("sender account not found")
	// ErrReceiverNotFound indicates that the receiver account does not exist.
	ErrReceiverNotFound = errors.New("receiver account not found")
	// ErrSenderBanned indicates that the sender account is banned.
	ErrSenderBanned = errors.New("sender account banned")
	// ErrReceiverBanned indicates that the receiver account is banned.
	ErrReceiverBanned = errors.New("receiver account banned")
	// ErrDuplicateOrderID indicates that the order id was already processed.
	ErrDuplicateOrderID = errors.New("duplicate order id")
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
)

// TransactionStatusPaid is the only status the engine writes. The column exists
// for reconciliation tooling that marks transactions after the fact.
const TransactionStatusPaid = "paid"

// Transaction is an immutable record of one completed transfer.
type Transaction struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id"`
	SenderID      string    `json:"sender_id"`
	ReceiverID    string    `json:"receiver_id"`
	Amount        string    `json:"amount"` // must be positive
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	Product       string    `json:"product,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Direction of a transaction relative to the queried account.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// AccountTransaction is a transaction annotated with its direction relative to
// the account that requested the history.
type AccountTransaction struct {
	Transaction
	Direction string `json:"direction"`
}

// CreatePaymentParams is the input data for the payment transaction. OrderID
// must already be resolved (caller supplied or generated) by the service layer.
type CreatePaymentParams struct {
	SenderID      string `json:"sender_id"`
	ReceiverID    string `json:"receiver_id"`
	Amount        string `json:"amount"`
	OrderID       string `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
	Product       string `json:"product"`
	Notes         string `json:"notes"`
}

// PaymentTxResult is the result of the payment transaction.
type PaymentTxResult struct {
	Transaction     Transaction `json:"transaction"`
	SenderBalance   Balance     `json:"sender_balance"`
	ReceiverBalance Balance     `json:"receiver_balance"`
	DebitMutation   Mutation    `json:"debit_mutation"`
	CreditMutation  Mutation    `json:"credit_mutation"`
}

// TransactionsPage is one page of an account's transaction history.
type TransactionsPage struct {
	Items   []AccountTransaction `json:"items"`
	Total   int64                `json:"total"`
	HasMore bool                 `json:"has_more"`
}
