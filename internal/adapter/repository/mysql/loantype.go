package mysql

import (
	"context"

	typeDomain "coopfin-backend/internal/domain/loantype"

	"gorm.io/gorm"
)

type LoanTypeRepository struct{ db *gorm.DB }

func NewLoanTypeRepository(db *gorm.DB) *LoanTypeRepository { return &LoanTypeRepository{db: db} }

func (r *LoanTypeRepository) Create(ctx context.Context, t *typeDomain.LoanType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *LoanTypeRepository) Save(ctx context.Context, t *typeDomain.LoanType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *LoanTypeRepository) GetByTypeID(ctx context.Context, loanTypeID string) (*typeDomain.LoanType, error) {
	var out typeDomain.LoanType
	res := r.db.WithContext(ctx).Where("loan_type_id = ?", loanTypeID).First(&out)
	return &out, res.Error
}

func (r *LoanTypeRepository) GetByID(ctx context.Context, id uint64) (*typeDomain.LoanType, error) {
	var out typeDomain.LoanType
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanTypeRepository) ListByCooperative(ctx context.Context, cooperativeID string) ([]typeDomain.LoanType, error) {
	var out []typeDomain.LoanType
	res := r.db.WithContext(ctx).
		Where("cooperative_id = ?", cooperativeID).
		Order("name ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanTypeRepository) Delete(ctx context.Context, t *typeDomain.LoanType) error {
	return r.db.WithContext(ctx).Delete(t).Error
}
