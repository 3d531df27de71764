package mysql

import (
	"context"

	loanDomain "coopfin-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := forUpdate(r.db.WithContext(ctx)).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := forUpdate(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByMember(ctx context.Context, cooperativeID, memberID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("cooperative_id = ? AND member_id = ?", cooperativeID, memberID).
		Order("requested_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) CountActiveByMemberAndType(ctx context.Context, memberID string, loanTypeID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("member_id = ? AND loan_type_id = ? AND status IN ?",
			memberID, loanTypeID, []loanDomain.Status{
				loanDomain.StatusPending, loanDomain.StatusApproved,
				loanDomain.StatusDisbursed, loanDomain.StatusRepaying,
			}).
		Count(&n)
	return n, res.Error
}

func (r *LoanRepository) CountByType(ctx context.Context, loanTypeID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("loan_type_id = ?", loanTypeID).
		Count(&n)
	return n, res.Error
}
