package ledgerservice

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-petr/pay-ledger/internal/domain"
	"github.com/go-petr/pay-ledger/pkg/errorspkg"
	"github.com/go-petr/pay-ledger/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func testAccount(id string) domain.Account {
	return domain.Account{
		ID:        id,
		Verified:  true,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func TestPay(t *testing.T) {
	sender := testAccount("acc-sender")
	receiver := testAccount("acc-receiver")
	bannedReceiver := testAccount("acc-banned")
	bannedReceiver.Banned = true

	testAmount := "100.00"
	testOrderID := "ORD-123"

	testResult := domain.PaymentTxResult{
		Transaction: domain.Transaction{
			ID:         "b4b8356e-43fa-4f3c-a2e3-14ec902ef937",
			OrderID:    testOrderID,
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			Amount:     testAmount,
			Status:     domain.TransactionStatusPaid,
		},
		SenderBalance:   domain.Balance{AccountID: sender.ID, Amount: "900.00"},
		ReceiverBalance: domain.Balance{AccountID: receiver.ID, Amount: "1100.00"},
	}

	testCases := []struct {
		name          string
		arg           domain.CreatePaymentParams
		buildStubs    func(repo *MockRepo, accountService *MockAccountService)
		checkResponse func(res domain.PaymentTxResult, err error)
	}{
		{
			name: "Invalid amount",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     "!@#$",
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name: "Zero amount",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     "0",
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name: "Negative amount",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     "-5",
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name: "Excess fractional precision",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     "10.001",
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name: "Amount out of range",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     "1000000000001",
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInvalidAmount.Error())
			},
		},
		{
			name: "Self transfer",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: sender.ID,
				Amount:     testAmount,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrSelfTransfer.Error())
			},
		},
		{
			name: "Sender not found",
			arg: domain.CreatePaymentParams{
				SenderID:   "acc-missing",
				ReceiverID: receiver.ID,
				Amount:     testAmount,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq("acc-missing")).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrSenderNotFound.Error())
			},
		},
		{
			name: "Sender banned",
			arg: domain.CreatePaymentParams{
				SenderID:   bannedReceiver.ID,
				ReceiverID: receiver.ID,
				Amount:     testAmount,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(bannedReceiver.ID)).
					Times(1).
					Return(bannedReceiver, nil)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrSenderBanned.Error())
			},
		},
		{
			name: "Receiver not found",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: "acc-missing",
				Amount:     testAmount,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq("acc-missing")).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrReceiverNotFound.Error())
			},
		},
		{
			name: "Receiver banned",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: bannedReceiver.ID,
				Amount:     testAmount,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(bannedReceiver.ID)).
					Times(1).
					Return(bannedReceiver, nil)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrReceiverBanned.Error())
			},
		},
		{
			name: "Duplicate supplied order id",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     testAmount,
				OrderID:    testOrderID,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().OrderIDExists(gomock.Any(), gomock.Eq(testOrderID)).
					Times(1).
					Return(true, nil)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrDuplicateOrderID.Error())
			},
		},
		{
			name: "Order id check err",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     testAmount,
				OrderID:    testOrderID,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().OrderIDExists(gomock.Any(), gomock.Eq(testOrderID)).
					Times(1).
					Return(false, errorspkg.ErrInternal)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
			},
		},
		{
			name: "Generated order id collision retried",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     testAmount,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				gomock.InOrder(
					repo.EXPECT().OrderIDExists(gomock.Any(), gomock.Any()).Return(true, nil),
					repo.EXPECT().OrderIDExists(gomock.Any(), gomock.Any()).Return(false, nil),
				)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).
					Times(1).
					DoAndReturn(func(_ context.Context, arg domain.CreatePaymentParams) (domain.PaymentTxResult, error) {
						require.True(t, strings.HasPrefix(arg.OrderID, "PAY-"))
						return testResult, nil
					})
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, testResult, res)
			},
		},
		{
			name: "Generated order id collisions exhausted",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     testAmount,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().OrderIDExists(gomock.Any(), gomock.Any()).
					Times(3).
					Return(true, nil)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
			},
		},
		{
			name: "Insufficient funds",
			arg: domain.CreatePaymentParams{
				SenderID:   sender.ID,
				ReceiverID: receiver.ID,
				Amount:     testAmount,
				OrderID:    testOrderID,
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().OrderIDExists(gomock.Any(), gomock.Eq(testOrderID)).
					Times(1).
					Return(false, nil)
				repo.EXPECT().Pay(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.PaymentTxResult{}, domain.ErrInsufficientFunds)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.Empty(t, res)
				require.EqualError(t, err, domain.ErrInsufficientFunds.Error())
			},
		},
		{
			name: "OK",
			arg: domain.CreatePaymentParams{
				SenderID:      sender.ID,
				ReceiverID:    receiver.ID,
				Amount:        testAmount,
				OrderID:       testOrderID,
				PaymentMethod: "wallet",
				Product:       "premium",
			},
			buildStubs: func(repo *MockRepo, accountService *MockAccountService) {
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(sender.ID)).
					Times(1).
					Return(sender, nil)
				accountService.EXPECT().Get(gomock.Any(), gomock.Eq(receiver.ID)).
					Times(1).
					Return(receiver, nil)
				repo.EXPECT().OrderIDExists(gomock.Any(), gomock.Eq(testOrderID)).
					Times(1).
					Return(false, nil)
				repo.EXPECT().Pay(gomock.Any(), gomock.Eq(domain.CreatePaymentParams{
					SenderID:      sender.ID,
					ReceiverID:    receiver.ID,
					Amount:        testAmount,
					OrderID:       testOrderID,
					PaymentMethod: "wallet",
					Product:       "premium",
				})).
					Times(1).
					Return(testResult, nil)
			},
			checkResponse: func(res domain.PaymentTxResult, err error) {
				require.NoError(t, err)
				require.Equal(t, testResult, res)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accountService := NewMockAccountService(ctrl)
			tc.buildStubs(repo, accountService)

			service := New(repo, accountService)

			res, err := service.Pay(context.Background(), tc.arg)
			tc.checkResponse(res, err)
		})
	}
}

func TestGetBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepo(ctrl)
	accountService := NewMockAccountService(ctrl)
	service := New(repo, accountService)

	accountID := randompkg.AccountID()

	repo.EXPECT().GetBalance(gomock.Any(), gomock.Eq(accountID)).
		Times(1).
		Return("0.00", nil)

	balance, err := service.GetBalance(context.Background(), accountID)
	require.NoError(t, err)
	require.Equal(t, "0.00", balance)
}

func TestListTransactions(t *testing.T) {
	accountID := "acc-self"
	other := "acc-other"

	sent := domain.Transaction{ID: "t1", SenderID: accountID, ReceiverID: other, Amount: "10.00"}
	received := domain.Transaction{ID: "t2", SenderID: other, ReceiverID: accountID, Amount: "25.00"}

	testCases := []struct {
		name          string
		pageSize      int32
		offset        int32
		buildStubs    func(repo *MockRepo)
		checkResponse func(page domain.TransactionsPage, err error)
	}{
		{
			name:     "Clamps zero page size to default",
			pageSize: 0,
			offset:   0,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListTransactions(gomock.Any(), gomock.Eq(accountID), gomock.Eq(int32(20)), gomock.Eq(int32(0))).
					Times(1).
					Return([]domain.Transaction{received, sent}, int64(2), nil)
			},
			checkResponse: func(page domain.TransactionsPage, err error) {
				require.NoError(t, err)
				require.Equal(t, int64(2), page.Total)
				require.False(t, page.HasMore)
				require.Len(t, page.Items, 2)
				require.Equal(t, domain.DirectionReceived, page.Items[0].Direction)
				require.Equal(t, domain.DirectionSent, page.Items[1].Direction)
			},
		},
		{
			name:     "Clamps oversized page size to max",
			pageSize: 500,
			offset:   0,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListTransactions(gomock.Any(), gomock.Eq(accountID), gomock.Eq(int32(100)), gomock.Eq(int32(0))).
					Times(1).
					Return([]domain.Transaction{sent}, int64(101), nil)
			},
			checkResponse: func(page domain.TransactionsPage, err error) {
				require.NoError(t, err)
				require.True(t, page.HasMore)
			},
		},
		{
			name:     "Has more on partial page",
			pageSize: 1,
			offset:   0,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListTransactions(gomock.Any(), gomock.Eq(accountID), gomock.Eq(int32(1)), gomock.Eq(int32(0))).
					Times(1).
					Return([]domain.Transaction{received}, int64(2), nil)
			},
			checkResponse: func(page domain.TransactionsPage, err error) {
				require.NoError(t, err)
				require.True(t, page.HasMore)
				require.Len(t, page.Items, 1)
			},
		},
		{
			name:     "Last page",
			pageSize: 1,
			offset:   1,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListTransactions(gomock.Any(), gomock.Eq(accountID), gomock.Eq(int32(1)), gomock.Eq(int32(1))).
					Times(1).
					Return([]domain.Transaction{sent}, int64(2), nil)
			},
			checkResponse: func(page domain.TransactionsPage, err error) {
				require.NoError(t, err)
				require.False(t, page.HasMore)
			},
		},
		{
			name:     "Repo err",
			pageSize: 1,
			offset:   0,
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, int64(0), errorspkg.ErrInternal)
			},
			checkResponse: func(page domain.TransactionsPage, err error) {
				require.Empty(t, page)
				require.EqualError(t, err, errorspkg.ErrInternal.Error())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accountService := NewMockAccountService(ctrl)
			tc.buildStubs(repo)

			service := New(repo, accountService)

			page, err := service.ListTransactions(context.Background(), accountID, tc.pageSize, tc.offset)
			tc.checkResponse(page, err)
		})
	}
}

func TestListMutations(t *testing.T) {
	accountID := "acc-self"

	summary := domain.MutationsSummary{
		TotalDebited:  "30.00",
		TotalCredited: "100.00",
		NetChange:     "70.00",
	}

	mutations := []domain.Mutation{
		{ID: "m2", AccountID: accountID, BalanceBefore: "100.00", BalanceAfter: "70.00", Type: domain.MutationDebit},
		{ID: "m1", AccountID: accountID, BalanceBefore: "0.00", BalanceAfter: "100.00", Type: domain.MutationCredit},
	}

	testCases := []struct {
		name          string
		mutationType  string
		buildStubs    func(repo *MockRepo)
		checkResponse func(page domain.MutationsPage, err error)
	}{
		{
			name:         "Invalid type filter",
			mutationType: "withdrawal",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListMutations(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(page domain.MutationsPage, err error) {
				require.Empty(t, page)
				require.EqualError(t, err, domain.ErrInvalidMutationType.Error())
			},
		},
		{
			name:         "OK unfiltered",
			mutationType: "",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListMutations(gomock.Any(), gomock.Eq(accountID), gomock.Eq(int32(20)), gomock.Eq(int32(0)), gomock.Eq("")).
					Times(1).
					Return(mutations, int64(2), summary, nil)
			},
			checkResponse: func(page domain.MutationsPage, err error) {
				require.NoError(t, err)
				require.Equal(t, int64(2), page.Total)
				require.False(t, page.HasMore)
				require.Equal(t, summary, page.Summary)
			},
		},
		{
			name:         "OK filtered by debit",
			mutationType: "debit",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().ListMutations(gomock.Any(), gomock.Eq(accountID), gomock.Eq(int32(20)), gomock.Eq(int32(0)), gomock.Eq("debit")).
					Times(1).
					Return(mutations[:1], int64(1), domain.MutationsSummary{
						TotalDebited:  "30.00",
						TotalCredited: "0.00",
						NetChange:     "-30.00",
					}, nil)
			},
			checkResponse: func(page domain.MutationsPage, err error) {
				require.NoError(t, err)
				require.Len(t, page.Items, 1)
				require.Equal(t, "-30.00", page.Summary.NetChange)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			accountService := NewMockAccountService(ctrl)
			tc.buildStubs(repo)

			service := New(repo, accountService)

			page, err := service.ListMutations(context.Background(), accountID, 0, 0, tc.mutationType)
			tc.checkResponse(page, err)
		})
	}
}
