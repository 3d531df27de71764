package ledgermock

import (
	"context"
	"time"

	domain "coopfin-backend/internal/domain/ledger"

	"github.com/shopspring/decimal"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, e *domain.Entry) error
	HasRecentRepaymentFn func(ctx context.Context, reference string, amount decimal.Decimal, since time.Time) (bool, error)
	LatestBalanceFn      func(ctx context.Context, cooperativeID string) (decimal.Decimal, error)
	ListByMemberFn       func(ctx context.Context, cooperativeID, memberID string) ([]domain.Entry, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Entry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}
func (m *Repo) HasRecentRepayment(ctx context.Context, reference string, amount decimal.Decimal, since time.Time) (bool, error) {
	if m.HasRecentRepaymentFn != nil {
		return m.HasRecentRepaymentFn(ctx, reference, amount, since)
	}
	return false, nil
}
func (m *Repo) LatestBalance(ctx context.Context, cooperativeID string) (decimal.Decimal, error) {
	if m.LatestBalanceFn != nil {
		return m.LatestBalanceFn(ctx, cooperativeID)
	}
	return decimal.Zero, nil
}
func (m *Repo) ListByMember(ctx context.Context, cooperativeID, memberID string) ([]domain.Entry, error) {
	if m.ListByMemberFn != nil {
		return m.ListByMemberFn(ctx, cooperativeID, memberID)
	}
	return nil, nil
}
