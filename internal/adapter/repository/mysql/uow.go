package mysql

import (
	"context"
	"errors"

	"coopfin-backend/internal/domain/fault"
	"coopfin-backend/internal/domain/loan"
	"coopfin-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:      &LoanRepository{db: tx},
		Guarantors: &GuarantorRepository{db: tx},
		Schedules:  &ScheduleRepository{db: tx},
		Approvals:  &ApprovalRepository{db: tx},
		LoanTypes:  &LoanTypeRepository{db: tx},
		Repayments: &RepaymentRepository{db: tx},
		Ledger:     &LedgerRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.New(fault.NotFound, "loan %s not found", loanID)
			}
			return err
		}
		return fn(r, l)
	})
}
