package repayment

import "context"

type Repository interface {
	Create(ctx context.Context, r *Repayment) error
	Save(ctx context.Context, r *Repayment) error
	GetByRepaymentID(ctx context.Context, repaymentID string) (*Repayment, error)
	// GetByRepaymentIDForUpdate locks the row so two reviewers cannot
	// resolve the same submission.
	GetByRepaymentIDForUpdate(ctx context.Context, repaymentID string) (*Repayment, error)
	ListByLoan(ctx context.Context, loanID uint64) ([]Repayment, error)
}
