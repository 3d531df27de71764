package loanmock

import (
	"context"

	domain "coopfin-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn                     func(ctx context.Context, l *domain.Loan) error
	SaveFn                       func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn                func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn       func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByIDForUpdateFn           func(ctx context.Context, id uint64) (*domain.Loan, error)
	ListByMemberFn               func(ctx context.Context, cooperativeID, memberID string) ([]domain.Loan, error)
	CountActiveByMemberAndTypeFn func(ctx context.Context, memberID string, loanTypeID uint64) (int64, error)
	CountByTypeFn                func(ctx context.Context, loanTypeID uint64) (int64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}
func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled // or errors.New("not implemented")
}
func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByMember(ctx context.Context, cooperativeID, memberID string) ([]domain.Loan, error) {
	if m.ListByMemberFn != nil {
		return m.ListByMemberFn(ctx, cooperativeID, memberID)
	}
	return nil, nil
}
func (m *Repo) CountActiveByMemberAndType(ctx context.Context, memberID string, loanTypeID uint64) (int64, error) {
	if m.CountActiveByMemberAndTypeFn != nil {
		return m.CountActiveByMemberAndTypeFn(ctx, memberID, loanTypeID)
	}
	return 0, nil
}
func (m *Repo) CountByType(ctx context.Context, loanTypeID uint64) (int64, error) {
	if m.CountByTypeFn != nil {
		return m.CountByTypeFn(ctx, loanTypeID)
	}
	return 0, nil
}

// GuarantorRepo mocks domain.GuarantorRepository.
type GuarantorRepo struct {
	CreateAllFn          func(ctx context.Context, rows []*domain.Guarantor) error
	SaveFn               func(ctx context.Context, g *domain.Guarantor) error
	GetByLoanAndMemberFn func(ctx context.Context, loanID uint64, memberID string) (*domain.Guarantor, error)
	ListByLoanFn         func(ctx context.Context, loanID uint64) ([]domain.Guarantor, error)
}

func (m *GuarantorRepo) CreateAll(ctx context.Context, rows []*domain.Guarantor) error {
	if m.CreateAllFn != nil {
		return m.CreateAllFn(ctx, rows)
	}
	return nil
}
func (m *GuarantorRepo) Save(ctx context.Context, g *domain.Guarantor) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, g)
	}
	return nil
}
func (m *GuarantorRepo) GetByLoanAndMember(ctx context.Context, loanID uint64, memberID string) (*domain.Guarantor, error) {
	if m.GetByLoanAndMemberFn != nil {
		return m.GetByLoanAndMemberFn(ctx, loanID, memberID)
	}
	return nil, context.Canceled
}
func (m *GuarantorRepo) ListByLoan(ctx context.Context, loanID uint64) ([]domain.Guarantor, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}

// ScheduleRepo mocks domain.ScheduleRepository.
type ScheduleRepo struct {
	CreateAllFn           func(ctx context.Context, rows []*domain.ScheduleRow) error
	SaveFn                func(ctx context.Context, row *domain.ScheduleRow) error
	ListByLoanFn          func(ctx context.Context, loanID uint64) ([]domain.ScheduleRow, error)
	ListByLoanForUpdateFn func(ctx context.Context, loanID uint64) ([]domain.ScheduleRow, error)
}

func (m *ScheduleRepo) CreateAll(ctx context.Context, rows []*domain.ScheduleRow) error {
	if m.CreateAllFn != nil {
		return m.CreateAllFn(ctx, rows)
	}
	return nil
}
func (m *ScheduleRepo) Save(ctx context.Context, row *domain.ScheduleRow) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, row)
	}
	return nil
}
func (m *ScheduleRepo) ListByLoan(ctx context.Context, loanID uint64) ([]domain.ScheduleRow, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanID)
	}
	return nil, nil
}
func (m *ScheduleRepo) ListByLoanForUpdate(ctx context.Context, loanID uint64) ([]domain.ScheduleRow, error) {
	if m.ListByLoanForUpdateFn != nil {
		return m.ListByLoanForUpdateFn(ctx, loanID)
	}
	return nil, nil
}
