package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/go-petr/pay-ledger/internal/domain"
	"github.com/go-petr/pay-ledger/pkg/apikeypkg"
	"github.com/go-petr/pay-ledger/pkg/errorspkg"
	"github.com/stretchr/testify/require"
)

type stubAccountService struct {
	get func(ctx context.Context, id string) (domain.Account, error)
}

func (s stubAccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	return s.get(ctx, id)
}

func TestAPIKeyAuth(t *testing.T) {
	const (
		testKey   = "test-api-key"
		accountID = "acc-tester"
	)

	keyHash, err := apikeypkg.Hash(testKey)
	require.NoError(t, err)

	activeAccount := func(ctx context.Context, id string) (domain.Account, error) {
		require.Equal(t, accountID, id)
		return domain.Account{ID: id, Banned: false, Verified: true}, nil
	}

	testCases := []struct {
		name       string
		setHeaders func(request *http.Request)
		accounts   stubAccountService
		wantStatus int
	}{
		{
			name:       "NoAPIKey",
			setHeaders: func(request *http.Request) {},
			accounts:   stubAccountService{get: activeAccount},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "WrongAPIKey",
			setHeaders: func(request *http.Request) {
				request.Header.Set(APIKeyHeader, "wrong-key")
				request.Header.Set(AccountIDHeader, accountID)
			},
			accounts:   stubAccountService{get: activeAccount},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "NoAccountID",
			setHeaders: func(request *http.Request) {
				request.Header.Set(APIKeyHeader, testKey)
			},
			accounts:   stubAccountService{get: activeAccount},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "UnknownAccount",
			setHeaders: func(request *http.Request) {
				request.Header.Set(APIKeyHeader, testKey)
				request.Header.Set(AccountIDHeader, accountID)
			},
			accounts: stubAccountService{get: func(ctx context.Context, id string) (domain.Account, error) {
				return domain.Account{}, domain.ErrAccountNotFound
			}},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "AccountLookupError",
			setHeaders: func(request *http.Request) {
				request.Header.Set(APIKeyHeader, testKey)
				request.Header.Set(AccountIDHeader, accountID)
			},
			accounts: stubAccountService{get: func(ctx context.Context, id string) (domain.Account, error) {
				return domain.Account{}, errorspkg.ErrInternal
			}},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "BannedAccount",
			setHeaders: func(request *http.Request) {
				request.Header.Set(APIKeyHeader, testKey)
				request.Header.Set(AccountIDHeader, accountID)
			},
			accounts: stubAccountService{get: func(ctx context.Context, id string) (domain.Account, error) {
				return domain.Account{ID: id, Banned: true, Verified: true}, nil
			}},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "UnverifiedAccount",
			setHeaders: func(request *http.Request) {
				request.Header.Set(APIKeyHeader, testKey)
				request.Header.Set(AccountIDHeader, accountID)
			},
			accounts: stubAccountService{get: func(ctx context.Context, id string) (domain.Account, error) {
				return domain.Account{ID: id, Banned: false, Verified: false}, nil
			}},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "OK",
			setHeaders: func(request *http.Request) {
				request.Header.Set(APIKeyHeader, testKey)
				request.Header.Set(AccountIDHeader, accountID)
			},
			accounts:   stubAccountService{get: activeAccount},
			wantStatus: http.StatusOK,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			server := gin.New()
			server.Use(APIKeyAuth(keyHash, tc.accounts))
			server.GET("/ping", func(gctx *gin.Context) {
				require.Equal(t, accountID, gctx.MustGet(AccountIDKey))
				gctx.Status(http.StatusOK)
			})

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/ping", nil)
			tc.setHeaders(request)
			server.ServeHTTP(recorder, request)

			require.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}
