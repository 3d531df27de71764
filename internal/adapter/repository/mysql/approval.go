package mysql

import (
	"context"

	approvalDomain "coopfin-backend/internal/domain/approval"

	"gorm.io/gorm"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

func (r *ApprovalRepository) Create(ctx context.Context, a *approvalDomain.Approval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApprovalRepository) GetByLoanAndApprover(ctx context.Context, loanID uint64, approverID string) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND approver_id = ?", loanID, approverID).
		First(&out)
	return &out, res.Error
}

func (r *ApprovalRepository) CountByLoan(ctx context.Context, loanID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&approvalDomain.Approval{}).
		Where("loan_id = ?", loanID).
		Count(&n)
	return n, res.Error
}

func (r *ApprovalRepository) ListByLoan(ctx context.Context, loanID uint64) ([]approvalDomain.Approval, error) {
	var out []approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("decided_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
