package mysql

import (
	"context"

	loanDomain "coopfin-backend/internal/domain/loan"

	"gorm.io/gorm"
)

type ScheduleRepository struct{ db *gorm.DB }

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository { return &ScheduleRepository{db: db} }

func (r *ScheduleRepository) CreateAll(ctx context.Context, rows []*loanDomain.ScheduleRow) error {
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *ScheduleRepository) Save(ctx context.Context, row *loanDomain.ScheduleRow) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *ScheduleRepository) ListByLoan(ctx context.Context, loanID uint64) ([]loanDomain.ScheduleRow, error) {
	var out []loanDomain.ScheduleRow
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("installment_number ASC").
		Find(&out)
	return out, res.Error
}

func (r *ScheduleRepository) ListByLoanForUpdate(ctx context.Context, loanID uint64) ([]loanDomain.ScheduleRow, error) {
	var out []loanDomain.ScheduleRow
	res := forUpdate(r.db.WithContext(ctx)).
		Where("loan_id = ?", loanID).
		Order("installment_number ASC").
		Find(&out)
	return out, res.Error
}
