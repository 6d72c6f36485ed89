// Package accountservice manages business logic layer of accounts.
//
// The ledger consumes accounts read-only; creation, banning and verification
// happen in an external account-management service.
package accountservice

import (
	"context"

	"github.com/go-petr/pay-ledger/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
type Repo interface {
	Get(ctx context.Context, id string) (domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account business logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Get returns the account for the given account ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Account, error) {
	return s.repo.Get(ctx, id)
}
