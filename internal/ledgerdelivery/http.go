// Package ledgerdelivery manages delivery layer of the ledger engine.
package ledgerdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pay-ledger/internal/domain"
	"github.com/go-petr/pay-ledger/internal/middleware"
	"github.com/go-petr/pay-ledger/internal/paymentevents"
	"github.com/go-petr/pay-ledger/pkg/errorspkg"
	"github.com/go-petr/pay-ledger/pkg/jsonresponse"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Pay(ctx context.Context, arg domain.CreatePaymentParams) (domain.PaymentTxResult, error)
	GetBalance(ctx context.Context, accountID string) (string, error)
	ListTransactions(ctx context.Context, accountID string, pageSize, offset int32) (domain.TransactionsPage, error)
	ListMutations(ctx context.Context, accountID string, pageSize, offset int32, mutationType string) (domain.MutationsPage, error)
}

// Publisher emits payment-completed events after the engine commits.
type Publisher interface {
	PaymentCompleted(ctx context.Context, event paymentevents.PaymentCompleted) error
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service   Service
	publisher Publisher
}

// NewHandler returns ledger handler.
func NewHandler(ls Service, pub Publisher) *Handler {
	return &Handler{
		service:   ls,
		publisher: pub,
	}
}

type payRequest struct {
	ReceiverID    string `json:"receiver_id" binding:"required"`
	Amount        string `json:"amount" binding:"required,amount"`
	OrderID       string `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
	Product       string `json:"product"`
	Notes         string `json:"notes"`
}

type payData struct {
	Payment domain.PaymentTxResult `json:"payment"`
}

type payResponse struct {
	Data payData `json:"data,omitempty"`
}

// Pay handles http request to transfer money from the acting account.
func (h *Handler) Pay(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req payRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	senderID := gctx.MustGet(middleware.AccountIDKey).(string)

	arg := domain.CreatePaymentParams{
		SenderID:      senderID,
		ReceiverID:    req.ReceiverID,
		Amount:        req.Amount,
		OrderID:       req.OrderID,
		PaymentMethod: req.PaymentMethod,
		Product:       req.Product,
		Notes:         req.Notes,
	}

	result, err := h.service.Pay(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			domain.ErrInvalidAmount,
			domain.ErrSelfTransfer,
			domain.ErrSenderNotFound,
			domain.ErrReceiverNotFound,
			domain.ErrSenderBanned,
			domain.ErrReceiverBanned,
			domain.ErrSenderBalanceMissing,
			domain.ErrInsufficientFunds:
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

			return
		case domain.ErrDuplicateOrderID:
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))

			return
		case errorspkg.ErrLockTimeout:
			gctx.JSON(http.StatusServiceUnavailable, jsonresponse.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	if err := h.publisher.PaymentCompleted(ctx, paymentevents.FromResult(result)); err != nil {
		// The payment is committed; a publish failure must not fail the request.
		l.Error().Err(err).Str("transaction_id", result.Transaction.ID).Msg("publish payment event")
	}

	gctx.JSON(http.StatusOK, payResponse{Data: payData{result}})
}

type balanceData struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

type balanceResponse struct {
	Data balanceData `json:"data,omitempty"`
}

// GetBalance handles http request to read the acting account's balance.
func (h *Handler) GetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	accountID := gctx.MustGet(middleware.AccountIDKey).(string)

	balance, err := h.service.GetBalance(ctx, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, balanceResponse{
		Data: balanceData{AccountID: accountID, Balance: balance},
	})
}

type listRequest struct {
	Limit  int32 `form:"limit" binding:"omitempty,min=1"`
	Offset int32 `form:"offset" binding:"omitempty,min=0"`
}

type transactionsResponse struct {
	Data domain.TransactionsPage `json:"data"`
}

// ListTransactions handles http request to read the acting account's
// transaction history.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	accountID := gctx.MustGet(middleware.AccountIDKey).(string)

	page, err := h.service.ListTransactions(ctx, accountID, req.Limit, req.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, transactionsResponse{Data: page})
}

type listMutationsRequest struct {
	Limit  int32  `form:"limit" binding:"omitempty,min=1"`
	Offset int32  `form:"offset" binding:"omitempty,min=0"`
	Type   string `form:"type" binding:"omitempty,oneof=debit credit"`
}

type mutationsResponse struct {
	Data domain.MutationsPage `json:"data"`
}

// ListMutations handles http request to read the acting account's mutation
// history.
func (h *Handler) ListMutations(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listMutationsRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	accountID := gctx.MustGet(middleware.AccountIDKey).(string)

	page, err := h.service.ListMutations(ctx, accountID, req.Limit, req.Offset, req.Type)
	if err != nil {
		if err == domain.ErrInvalidMutationType {
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
			return
		}

		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, mutationsResponse{Data: page})
}
