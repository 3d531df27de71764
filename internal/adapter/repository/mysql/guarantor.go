package mysql

import (
	"context"

	loanDomain "coopfin-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type GuarantorRepository struct{ db *gorm.DB }

func NewGuarantorRepository(db *gorm.DB) *GuarantorRepository { return &GuarantorRepository{db: db} }

func (r *GuarantorRepository) CreateAll(ctx context.Context, rows []*loanDomain.Guarantor) error {
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *GuarantorRepository) Save(ctx context.Context, g *loanDomain.Guarantor) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *GuarantorRepository) GetByLoanAndMember(ctx context.Context, loanID uint64, memberID string) (*loanDomain.Guarantor, error) {
	var out loanDomain.Guarantor
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND member_id = ?", loanID, memberID).
		First(&out)
	return &out, res.Error
}

func (r *GuarantorRepository) ListByLoan(ctx context.Context, loanID uint64) ([]loanDomain.Guarantor, error) {
	var out []loanDomain.Guarantor
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
