package loantype

import (
	"context"
	"errors"

	"coopfin-backend/internal/domain/fault"
	"coopfin-backend/internal/domain/finance"
	domainLoan "coopfin-backend/internal/domain/loan"
	domain "coopfin-backend/internal/domain/loantype"
	"coopfin-backend/internal/domain/member"
	"coopfin-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	types domain.Repository
	loans domainLoan.Repository
	dir   member.Directory
}

func NewUsecase(types domain.Repository, loans domainLoan.Repository, dir member.Directory) *Usecase {
	return &Usecase{types: types, loans: loans, dir: dir}
}

type CreateInput struct {
	CooperativeID string
	ActorUserID   string
	Name          string
	Description   string

	MinAmount   decimal.Decimal
	MaxAmount   decimal.Decimal
	MinDuration int
	MaxDuration int

	RatePercent decimal.Decimal
	Mode        finance.Mode

	MaxActiveLoans            int
	RequiresGuarantors        bool
	MinGuarantors             int
	RequiresMultipleApprovals bool
	MinApprovers              int

	ApplicationFee        decimal.Decimal
	DeductInterestUpfront bool
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.LoanType, error) {
	actor, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.ActorUserID)
	if err != nil {
		return nil, err
	}
	if !u.dir.Can(actor, member.CapLoanTypeManage) {
		return nil, fault.New(fault.Forbidden, "member %s may not manage loan types", actor.MemberID)
	}
	if err := validatePolicy(in); err != nil {
		return nil, err
	}

	t := &domain.LoanType{
		LoanTypeID:                id.NewID32(),
		CooperativeID:             in.CooperativeID,
		Name:                      in.Name,
		Description:               in.Description,
		MinAmount:                 in.MinAmount,
		MaxAmount:                 in.MaxAmount,
		MinDurationMonths:         in.MinDuration,
		MaxDurationMonths:         in.MaxDuration,
		RatePercent:               in.RatePercent,
		Mode:                      in.Mode,
		MaxActiveLoans:            in.MaxActiveLoans,
		RequiresGuarantors:        in.RequiresGuarantors,
		MinGuarantors:             in.MinGuarantors,
		RequiresMultipleApprovals: in.RequiresMultipleApprovals,
		MinApprovers:              in.MinApprovers,
		ApplicationFee:            in.ApplicationFee,
		DeductInterestUpfront:     in.DeductInterestUpfront,
		Active:                    true,
	}
	if err := u.types.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update rewrites the type's policy figures. Loans already requested keep
// the figures they copied at request time.
func (u *Usecase) Update(ctx context.Context, loanTypeID string, in CreateInput) (*domain.LoanType, error) {
	t, err := u.authorize(ctx, in.CooperativeID, in.ActorUserID, loanTypeID)
	if err != nil {
		return nil, err
	}
	if err := validatePolicy(in); err != nil {
		return nil, err
	}

	t.Name = in.Name
	t.Description = in.Description
	t.MinAmount = in.MinAmount
	t.MaxAmount = in.MaxAmount
	t.MinDurationMonths = in.MinDuration
	t.MaxDurationMonths = in.MaxDuration
	t.RatePercent = in.RatePercent
	t.Mode = in.Mode
	t.MaxActiveLoans = in.MaxActiveLoans
	t.RequiresGuarantors = in.RequiresGuarantors
	t.MinGuarantors = in.MinGuarantors
	t.RequiresMultipleApprovals = in.RequiresMultipleApprovals
	t.MinApprovers = in.MinApprovers
	t.ApplicationFee = in.ApplicationFee
	t.DeductInterestUpfront = in.DeductInterestUpfront
	if err := u.types.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Deactivate stops new requests against the type without touching the loans
// that already reference it.
func (u *Usecase) Deactivate(ctx context.Context, cooperativeID, actorUserID, loanTypeID string) error {
	t, err := u.authorize(ctx, cooperativeID, actorUserID, loanTypeID)
	if err != nil {
		return err
	}
	t.Active = false
	return u.types.Save(ctx, t)
}

// Delete removes an unused loan type. Types referenced by any loan, in any
// status, cannot be deleted.
func (u *Usecase) Delete(ctx context.Context, cooperativeID, actorUserID, loanTypeID string) error {
	t, err := u.authorize(ctx, cooperativeID, actorUserID, loanTypeID)
	if err != nil {
		return err
	}
	n, err := u.loans.CountByType(ctx, t.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fault.New(fault.Conflict, "loan type %s is referenced by %d loans", t.Name, n)
	}
	return u.types.Delete(ctx, t)
}

func (u *Usecase) List(ctx context.Context, cooperativeID string) ([]domain.LoanType, error) {
	return u.types.ListByCooperative(ctx, cooperativeID)
}

func (u *Usecase) authorize(ctx context.Context, cooperativeID, actorUserID, loanTypeID string) (*domain.LoanType, error) {
	actor, err := u.dir.ActiveMember(ctx, cooperativeID, actorUserID)
	if err != nil {
		return nil, err
	}
	if !u.dir.Can(actor, member.CapLoanTypeManage) {
		return nil, fault.New(fault.Forbidden, "member %s may not manage loan types", actor.MemberID)
	}
	t, err := u.types.GetByTypeID(ctx, loanTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.New(fault.NotFound, "loan type %s not found", loanTypeID)
		}
		return nil, err
	}
	return t, nil
}

func validatePolicy(in CreateInput) error {
	switch {
	case in.Name == "":
		return fault.New(fault.Validation, "name is required")
	case !in.MinAmount.IsPositive() || in.MaxAmount.LessThan(in.MinAmount):
		return fault.New(fault.Validation, "amount bounds %s..%s are invalid", in.MinAmount, in.MaxAmount)
	case in.MinDuration < 1 || in.MaxDuration < in.MinDuration:
		return fault.New(fault.Validation, "duration bounds %d..%d are invalid", in.MinDuration, in.MaxDuration)
	case in.RatePercent.IsNegative():
		return fault.New(fault.Validation, "interest rate cannot be negative")
	case !in.Mode.Valid():
		return fault.New(fault.Validation, "unknown interest mode %q", in.Mode)
	case in.MaxActiveLoans < 1:
		return fault.New(fault.Validation, "max active loans must be at least 1")
	case in.RequiresGuarantors && in.MinGuarantors < 1:
		return fault.New(fault.Validation, "guarantor requirement needs a minimum count")
	case in.RequiresMultipleApprovals && in.MinApprovers < 2:
		return fault.New(fault.Validation, "multi-approver policy needs at least 2 approvers")
	case in.ApplicationFee.IsNegative():
		return fault.New(fault.Validation, "application fee cannot be negative")
	}
	return nil
}
