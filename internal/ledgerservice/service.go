// Package ledgerservice manages business logic layer of the ledger engine.
package ledgerservice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-petr/pay-ledger/internal/domain"
	"github.com/go-petr/pay-ledger/pkg/errorspkg"
	"github.com/go-petr/pay-ledger/pkg/randompkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// orderIDAttempts bounds the retry loop around generated order ids.
	// Collisions are astronomically rare; exhausting the attempts surfaces
	// the storage catch-all.
	orderIDAttempts = 3
)

// maxAmount bounds a single transfer to the representable decimal range of the
// balance columns.
var maxAmount = decimal.New(1, 12)

// Repo provides data access layer interface needed by ledger service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package ledgerservice
type Repo interface {
	Pay(ctx context.Context, arg domain.CreatePaymentParams) (domain.PaymentTxResult, error)
	GetBalance(ctx context.Context, accountID string) (string, error)
	OrderIDExists(ctx context.Context, orderID string) (bool, error)
	ListTransactions(ctx context.Context, accountID string, limit, offset int32) ([]domain.Transaction, int64, error)
	ListMutations(ctx context.Context, accountID string, limit, offset int32, mutationType string) ([]domain.Mutation, int64, domain.MutationsSummary, error)
}

// AccountService provides the read-only account lookups the engine consumes
// from the external account-management collaborator.
type AccountService interface {
	Get(ctx context.Context, id string) (domain.Account, error)
}

// Service facilitates ledger service layer logic.
type Service struct {
	repo           Repo
	accountService AccountService
}

// New returns ledger service struct to manage ledger business logic.
func New(lr Repo, as AccountService) *Service {
	return &Service{
		repo:           lr,
		accountService: as,
	}
}

// validAmount enforces the amount invariant in one authoritative place:
// positive, at most two fractional digits, within representable range.
func validAmount(amount string) error {
	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	if amountDecimal.Exponent() < -2 {
		return domain.ErrInvalidAmount
	}

	if amountDecimal.GreaterThan(maxAmount) {
		return domain.ErrInvalidAmount
	}

	return nil
}

func (s *Service) validParties(ctx context.Context, senderID, receiverID string) error {
	l := zerolog.Ctx(ctx)

	sender, err := s.accountService.Get(ctx, senderID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return domain.ErrSenderNotFound
		}

		l.Error().Err(err).Send()

		return err
	}

	if sender.Banned {
		return domain.ErrSenderBanned
	}

	receiver, err := s.accountService.Get(ctx, receiverID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			return domain.ErrReceiverNotFound
		}

		l.Error().Err(err).Send()

		return err
	}

	if receiver.Banned {
		return domain.ErrReceiverBanned
	}

	return nil
}

// resolveOrderID checks a caller-supplied order id for uniqueness or generates
// a unique one, retrying generation a bounded number of times on collision.
func (s *Service) resolveOrderID(ctx context.Context, orderID string) (string, error) {
	if orderID != "" {
		exists, err := s.repo.OrderIDExists(ctx, orderID)
		if err != nil {
			return "", err
		}

		if exists {
			return "", domain.ErrDuplicateOrderID
		}

		return orderID, nil
	}

	for i := 0; i < orderIDAttempts; i++ {
		generated := fmt.Sprintf("PAY-%d-%s", time.Now().UnixNano(), randompkg.HexString(8))

		exists, err := s.repo.OrderIDExists(ctx, generated)
		if err != nil {
			return "", err
		}

		if !exists {
			return generated, nil
		}
	}

	return "", errorspkg.ErrInternal
}

// Pay checks all payment preconditions and then executes the atomic payment
// transaction.
func (s *Service) Pay(ctx context.Context, arg domain.CreatePaymentParams) (domain.PaymentTxResult, error) {
	l := zerolog.Ctx(ctx)

	if err := validAmount(arg.Amount); err != nil {
		l.Info().Err(err).Str("amount", arg.Amount).Send()
		return domain.PaymentTxResult{}, err
	}

	if arg.SenderID == arg.ReceiverID {
		return domain.PaymentTxResult{}, domain.ErrSelfTransfer
	}

	if err := s.validParties(ctx, arg.SenderID, arg.ReceiverID); err != nil {
		l.Info().Err(err).Send()
		return domain.PaymentTxResult{}, err
	}

	orderID, err := s.resolveOrderID(ctx, arg.OrderID)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.PaymentTxResult{}, err
	}

	arg.OrderID = orderID

	result, err := s.repo.Pay(ctx, arg)
	if err != nil {
		return domain.PaymentTxResult{}, err
	}

	return result, nil
}

// GetBalance returns the account's current amount. Accounts without a balance
// row read as zero.
func (s *Service) GetBalance(ctx context.Context, accountID string) (string, error) {
	return s.repo.GetBalance(ctx, accountID)
}

func clampPage(pageSize, offset int32) (int32, int32) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return pageSize, offset
}

// ListTransactions returns one page of the account's transaction history,
// newest first, each item annotated with its direction.
func (s *Service) ListTransactions(ctx context.Context, accountID string, pageSize, offset int32) (domain.TransactionsPage, error) {
	limit, offset := clampPage(pageSize, offset)

	items, total, err := s.repo.ListTransactions(ctx, accountID, limit, offset)
	if err != nil {
		return domain.TransactionsPage{}, err
	}

	page := domain.TransactionsPage{
		Items:   make([]domain.AccountTransaction, 0, len(items)),
		Total:   total,
		HasMore: int64(offset)+int64(len(items)) < total,
	}

	for _, t := range items {
		direction := domain.DirectionReceived
		if t.SenderID == accountID {
			direction = domain.DirectionSent
		}

		page.Items = append(page.Items, domain.AccountTransaction{
			Transaction: t,
			Direction:   direction,
		})
	}

	return page, nil
}

// ListMutations returns one page of the account's mutation history, newest
// first, optionally filtered by type, with balance-delta totals computed over
// the full filtered population.
func (s *Service) ListMutations(ctx context.Context, accountID string, pageSize, offset int32, mutationType string) (domain.MutationsPage, error) {
	switch domain.MutationType(mutationType) {
	case "", domain.MutationDebit, domain.MutationCredit:
	default:
		return domain.MutationsPage{}, domain.ErrInvalidMutationType
	}

	limit, offset := clampPage(pageSize, offset)

	items, total, summary, err := s.repo.ListMutations(ctx, accountID, limit, offset, mutationType)
	if err != nil {
		return domain.MutationsPage{}, err
	}

	return domain.MutationsPage{
		Items:   items,
		Total:   total,
		HasMore: int64(offset)+int64(len(items)) < total,
		Summary: summary,
	}, nil
}
