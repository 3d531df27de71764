package approval

import "context"

type Repository interface {
	// Create a new approval row (DB uniqueness backs the per-approver guard)
	Create(ctx context.Context, a *Approval) error

	// GetByLoanAndApprover finds an approver's existing decision, if any.
	GetByLoanAndApprover(ctx context.Context, loanID uint64, approverID string) (*Approval, error)

	// CountByLoan is the quorum read; callers run it inside the same
	// transaction as the decision write.
	CountByLoan(ctx context.Context, loanID uint64) (int64, error)

	ListByLoan(ctx context.Context, loanID uint64) ([]Approval, error)
}
