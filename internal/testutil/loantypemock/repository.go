package loantypemock

import (
	"context"

	domain "coopfin-backend/internal/domain/loantype"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn            func(ctx context.Context, t *domain.LoanType) error
	SaveFn              func(ctx context.Context, t *domain.LoanType) error
	GetByTypeIDFn       func(ctx context.Context, loanTypeID string) (*domain.LoanType, error)
	GetByIDFn           func(ctx context.Context, id uint64) (*domain.LoanType, error)
	ListByCooperativeFn func(ctx context.Context, cooperativeID string) ([]domain.LoanType, error)
	DeleteFn            func(ctx context.Context, t *domain.LoanType) error
}

func (m *Repo) Create(ctx context.Context, t *domain.LoanType) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, t *domain.LoanType) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}
func (m *Repo) GetByTypeID(ctx context.Context, loanTypeID string) (*domain.LoanType, error) {
	if m.GetByTypeIDFn != nil {
		return m.GetByTypeIDFn(ctx, loanTypeID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.LoanType, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByCooperative(ctx context.Context, cooperativeID string) ([]domain.LoanType, error) {
	if m.ListByCooperativeFn != nil {
		return m.ListByCooperativeFn(ctx, cooperativeID)
	}
	return nil, nil
}
func (m *Repo) Delete(ctx context.Context, t *domain.LoanType) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, t)
	}
	return nil
}
