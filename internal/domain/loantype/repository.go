package loantype

import "context"

type Repository interface {
	Create(ctx context.Context, t *LoanType) error
	Save(ctx context.Context, t *LoanType) error
	GetByTypeID(ctx context.Context, loanTypeID string) (*LoanType, error)
	GetByID(ctx context.Context, id uint64) (*LoanType, error)
	ListByCooperative(ctx context.Context, cooperativeID string) ([]LoanType, error)
	Delete(ctx context.Context, t *LoanType) error
}
