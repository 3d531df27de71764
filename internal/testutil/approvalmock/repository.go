package approvalmock

import (
	"context"

	domain "coopfin-backend/internal/domain/approval"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn               func(ctx context.Context, a *domain.Approval) error
	GetByLoanAndApproverFn func(ctx context.Context, loanID uint64, approverID string) (*domain.Approval, error)
	CountByLoanFn          func(ctx context.Context, loanID uint64) (int64, error)
	ListByLoanFn           func(ctx context.Context, loanID uint64) ([]domain.Approval, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Approval) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByLoanAndApprover(ctx context.Context, loanID uint64, approverID string) (*domain.Approval, error) {
	if m.GetByLoanAndApproverFn != nil {
		return m.GetByLoanAndApproverFn(ctx, loanID, approverID)
	}
	return nil, context.Canceled
}

func (m *Repo) CountByLoan(ctx context.Context, loanID uint64) (int64, error) {
	if m.CountByLoanFn != nil {
		return m.CountByLoanFn(ctx, loanID)
	}
	return 0, nil
}

func (m *Repo) ListByLoan(ctx context.Context, loanID uint64) ([]domain.Approval, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}
