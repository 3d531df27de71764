package uow

import (
	"context"

	"coopfin-backend/internal/domain/approval"
	"coopfin-backend/internal/domain/ledger"
	"coopfin-backend/internal/domain/loan"
	"coopfin-backend/internal/domain/loantype"
	"coopfin-backend/internal/domain/repayment"
)

// Repos bundles every repository bound to one transaction.
type Repos struct {
	Loans      loan.Repository
	Guarantors loan.GuarantorRepository
	Schedules  loan.ScheduleRepository
	Approvals  approval.Repository
	LoanTypes  loantype.Repository
	Repayments repayment.Repository
	Ledger     ledger.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in. Disbursement
	// and repayment allocation run through this so schedule writes, loan
	// totals and the ledger insert commit or fail as one unit.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
