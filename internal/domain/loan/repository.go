package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the rest of the transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// GetByIDForUpdate is the numeric-FK flavor, used when the caller only
	// holds a child row.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	ListByMember(ctx context.Context, cooperativeID, memberID string) ([]Loan, error)
	// CountActiveByMemberAndType feeds the active-loan cap check.
	CountActiveByMemberAndType(ctx context.Context, memberID string, loanTypeID uint64) (int64, error)
	// CountByType reports how many loans reference a loan type at all.
	CountByType(ctx context.Context, loanTypeID uint64) (int64, error)
}

type GuarantorRepository interface {
	CreateAll(ctx context.Context, rows []*Guarantor) error
	Save(ctx context.Context, g *Guarantor) error
	GetByLoanAndMember(ctx context.Context, loanID uint64, memberID string) (*Guarantor, error)
	ListByLoan(ctx context.Context, loanID uint64) ([]Guarantor, error)
}

type ScheduleRepository interface {
	CreateAll(ctx context.Context, rows []*ScheduleRow) error
	Save(ctx context.Context, row *ScheduleRow) error
	ListByLoan(ctx context.Context, loanID uint64) ([]ScheduleRow, error)
	// ListByLoanForUpdate returns the rows ordered by installment number with
	// row locks held, for repayment allocation.
	ListByLoanForUpdate(ctx context.Context, loanID uint64) ([]ScheduleRow, error)
}
