package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pay-ledger/internal/domain"
	"github.com/go-petr/pay-ledger/pkg/apikeypkg"
	"github.com/go-petr/pay-ledger/pkg/errorspkg"
	"github.com/go-petr/pay-ledger/pkg/jsonresponse"
)

// Header and context keys used by the auth middleware.
const (
	APIKeyHeader    = "X-API-Key"
	AccountIDHeader = "X-Account-ID"
	AccountIDKey    = "acting_account_id"
)

// AccountService provides the account lookups needed to resolve the acting
// account.
type AccountService interface {
	Get(ctx context.Context, id string) (domain.Account, error)
}

// APIKeyAuth gates all ledger routes behind the static API key and resolves a
// verified, non-banned acting account from the request headers. Handlers
// behind it can rely on AccountIDKey being set.
func APIKeyAuth(apiKeyHash string, accounts AccountService) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		key := gctx.GetHeader(APIKeyHeader)
		if key == "" {
			err := errors.New("api key is not provided")
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(err))

			return
		}

		if err := apikeypkg.Check(key, apiKeyHash); err != nil {
			err = errors.New("invalid api key")
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(err))

			return
		}

		accountID := gctx.GetHeader(AccountIDHeader)
		if accountID == "" {
			err := errors.New("account id is not provided")
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(err))

			return
		}

		account, err := accounts.Get(gctx.Request.Context(), accountID)
		if err != nil {
			if err == domain.ErrAccountNotFound {
				gctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(err))
				return
			}

			gctx.AbortWithStatusJSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

			return
		}

		if account.Banned {
			gctx.AbortWithStatusJSON(http.StatusForbidden, jsonresponse.Error(domain.ErrAccountBanned))
			return
		}

		if !account.Verified {
			gctx.AbortWithStatusJSON(http.StatusForbidden, jsonresponse.Error(domain.ErrAccountNotVerified))
			return
		}

		gctx.Set(AccountIDKey, account.ID)
		gctx.Next()
	}
}
