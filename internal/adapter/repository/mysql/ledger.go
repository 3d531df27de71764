package mysql

import (
	"context"
	"errors"
	"time"

	ledgerDomain "coopfin-backend/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Create(ctx context.Context, e *ledgerDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *LedgerRepository) HasRecentRepayment(ctx context.Context, reference string, amount decimal.Decimal, since time.Time) (bool, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&ledgerDomain.Entry{}).
		Where("entry_type = ? AND reference = ? AND amount = ? AND created_at >= ?",
			ledgerDomain.TypeLoanRepayment, reference, amount, since).
		Count(&n)
	return n > 0, res.Error
}

func (r *LedgerRepository) LatestBalance(ctx context.Context, cooperativeID string) (decimal.Decimal, error) {
	var out ledgerDomain.Entry
	res := r.db.WithContext(ctx).
		Where("cooperative_id = ?", cooperativeID).
		Order("id DESC").
		First(&out)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, res.Error
	}
	return out.BalanceAfter, nil
}

func (r *LedgerRepository) ListByMember(ctx context.Context, cooperativeID, memberID string) ([]ledgerDomain.Entry, error) {
	var out []ledgerDomain.Entry
	res := r.db.WithContext(ctx).
		Where("cooperative_id = ? AND member_id = ?", cooperativeID, memberID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
