package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coopfin-backend/internal/domain/fault"
	"coopfin-backend/internal/domain/finance"
	domain "coopfin-backend/internal/domain/loan"
	"coopfin-backend/internal/domain/loantype"
	"coopfin-backend/internal/domain/member"
	"coopfin-backend/internal/domain/notify"
	"coopfin-backend/internal/domain/uow"
	"coopfin-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Usecase struct {
	loans    domain.Repository
	types    loantype.Repository
	uow      uow.UnitOfWork
	dir      member.Directory
	notifier notify.Notifier
	mailer   notify.Mailer
}

func NewUsecase(loans domain.Repository, types loantype.Repository, tx uow.UnitOfWork, dir member.Directory, n notify.Notifier, m notify.Mailer) *Usecase {
	return &Usecase{loans: loans, types: types, uow: tx, dir: dir, notifier: n, mailer: m}
}

// Request opens a member-initiated loan in pending status, with guarantor
// rows created from the supplied list in the same transaction.
func (u *Usecase) Request(ctx context.Context, in RequestInput) (*LoanDTO, error) {
	m, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.UserID)
	if err != nil {
		return nil, err
	}

	lt, err := u.types.GetByTypeID(ctx, in.LoanTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.New(fault.NotFound, "loan type %s not found", in.LoanTypeID)
		}
		return nil, err
	}
	if !lt.Active {
		return nil, fault.New(fault.Validation, "loan type %s is no longer offered", lt.Name)
	}
	policy := lt.Policy()

	if err := validateGuarantors(policy, m.MemberID, in.GuarantorIDs); err != nil {
		return nil, err
	}

	terms, err := finance.ComputeTerms(in.Amount, policy.RatePercent, in.Duration, policy.Mode, policy.DeductInterestUpfront)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := &domain.Loan{
		LoanID:             id.NewID32(),
		CooperativeID:      in.CooperativeID,
		MemberID:           m.MemberID,
		LoanTypeID:         &lt.ID,
		Amount:             in.Amount,
		Purpose:            in.Purpose,
		DurationMonths:     in.Duration,
		RatePercent:        policy.RatePercent,
		Mode:               policy.Mode,
		InterestAmount:     terms.Interest,
		MonthlyRepayment:   terms.Monthly,
		TotalRepayment:     terms.Total,
		OutstandingBalance: terms.Total,
		AmountRepaid:       decimal.Zero,
		Status:             domain.StatusPending,
		Initiator:          domain.MemberInitiated(),
		RequestedAt:        now,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// the eligibility count rides in the same tx as the insert so two
		// concurrent requests cannot both squeeze under the cap
		if err := checkEligibility(ctx, r.Loans, policy, m.MemberID, lt.ID, in.Amount, in.Duration); err != nil {
			return err
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		rows := make([]*domain.Guarantor, 0, len(in.GuarantorIDs))
		for _, gid := range in.GuarantorIDs {
			rows = append(rows, &domain.Guarantor{
				GuarantorID: id.NewID32(),
				LoanID:      l.ID,
				MemberID:    gid,
				Status:      domain.GuarantorPending,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return r.Guarantors.CreateAll(ctx, rows)
	})
	if err != nil {
		return nil, err
	}

	for _, gid := range in.GuarantorIDs {
		u.notifier.Notify(ctx, gid, notify.EventGuarantorRequested,
			"Guarantor request",
			fmt.Sprintf("%s asked you to guarantee a loan of %s", m.Name, in.Amount),
			map[string]any{"loan_id": l.LoanID})
	}
	u.notifier.NotifyAdmins(ctx, in.CooperativeID, notify.EventLoanRequested,
		"New loan request",
		fmt.Sprintf("%s requested %s over %d months", m.Name, in.Amount, in.Duration),
		map[string]any{"loan_id": l.LoanID}, in.UserID)
	if m.Email != "" {
		u.mailer.Send(ctx, m.Email, "Loan request received",
			fmt.Sprintf("Your request for %s over %d months is awaiting review. Total repayable: %s.", in.Amount, in.Duration, terms.Total))
	}

	return toDTO(l, lt.LoanTypeID), nil
}

// Override records a loan on a member's behalf. The caller needs the
// loan-record capability; the loan starts out approved and the active-loan
// cap is deliberately not checked.
func (u *Usecase) Override(ctx context.Context, in OverrideInput) (*LoanDTO, error) {
	actor, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.ActorUserID)
	if err != nil {
		return nil, err
	}
	if !u.dir.Can(actor, member.CapLoanRecord) {
		return nil, fault.New(fault.Forbidden, "member %s may not record loans", actor.MemberID)
	}
	borrower, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.MemberID)
	if err != nil {
		return nil, err
	}

	rate, mode := in.RatePercent, in.Mode
	upfront := false
	var typeRef string
	var typeID *uint64
	if in.LoanTypeID != "" {
		lt, err := u.types.GetByTypeID(ctx, in.LoanTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fault.New(fault.NotFound, "loan type %s not found", in.LoanTypeID)
			}
			return nil, err
		}
		rate, mode = lt.RatePercent, lt.Mode
		upfront = lt.DeductInterestUpfront
		typeRef = lt.LoanTypeID
		typeID = &lt.ID
	}

	terms, err := finance.ComputeTerms(in.Amount, rate, in.Duration, mode, upfront)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := &domain.Loan{
		LoanID:             id.NewID32(),
		CooperativeID:      in.CooperativeID,
		MemberID:           borrower.MemberID,
		LoanTypeID:         typeID,
		Amount:             in.Amount,
		Purpose:            in.Purpose,
		DurationMonths:     in.Duration,
		RatePercent:        rate,
		Mode:               mode,
		InterestAmount:     terms.Interest,
		MonthlyRepayment:   terms.Monthly,
		TotalRepayment:     terms.Total,
		OutstandingBalance: terms.Total,
		AmountRepaid:       decimal.Zero,
		Status:             domain.StatusApproved,
		Initiator:          domain.AdminInitiated(actor.MemberID),
		RequestedAt:        now,
		ReviewedAt:         &now,
	}
	if err := u.loans.Create(ctx, l); err != nil {
		return nil, err
	}

	u.notifier.Notify(ctx, borrower.UserID, notify.EventLoanApproved,
		"Loan recorded",
		fmt.Sprintf("A loan of %s over %d months was recorded and approved for you", in.Amount, in.Duration),
		map[string]any{"loan_id": l.LoanID})

	return toDTO(l, typeRef), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.New(fault.NotFound, "loan %s not found", loanID)
		}
		return nil, err
	}
	return toDTO(l, u.typeRef(ctx, l)), nil
}

func (u *Usecase) ListByMember(ctx context.Context, cooperativeID, memberID string) ([]LoanDTO, error) {
	ls, err := u.loans.ListByMember(ctx, cooperativeID, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i], u.typeRef(ctx, &ls[i])))
	}
	return out, nil
}

func (u *Usecase) typeRef(ctx context.Context, l *domain.Loan) string {
	if l.LoanTypeID == nil {
		return ""
	}
	lt, err := u.types.GetByID(ctx, *l.LoanTypeID)
	if err != nil {
		return ""
	}
	return lt.LoanTypeID
}

// checkEligibility enforces the loan type's amount/duration bounds and its
// concurrent active-loan cap. Admin overrides never reach this.
func checkEligibility(ctx context.Context, loans domain.Repository, p loantype.Policy, memberID string, loanTypeID uint64, amount decimal.Decimal, duration int) error {
	if amount.LessThan(p.MinAmount) || amount.GreaterThan(p.MaxAmount) {
		return fault.New(fault.Validation, "amount %s outside allowed range %s..%s", amount, p.MinAmount, p.MaxAmount)
	}
	if duration < p.MinDuration || duration > p.MaxDuration {
		return fault.New(fault.Validation, "duration %d outside allowed range %d..%d months", duration, p.MinDuration, p.MaxDuration)
	}
	active, err := loans.CountActiveByMemberAndType(ctx, memberID, loanTypeID)
	if err != nil {
		return err
	}
	if active >= int64(p.MaxActiveLoans) {
		return fault.New(fault.Conflict, "member already has %d active loans of this type (limit %d)", active, p.MaxActiveLoans)
	}
	return nil
}

func validateGuarantors(p loantype.Policy, borrowerID string, ids []string) error {
	quorum := p.GuarantorQuorum()
	if len(ids) < quorum {
		return fault.New(fault.Validation, "loan type requires at least %d guarantors, got %d", quorum, len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, gid := range ids {
		if gid == borrowerID {
			return fault.New(fault.Validation, "a member cannot guarantee their own loan")
		}
		if _, dup := seen[gid]; dup {
			return fault.New(fault.Validation, "duplicate guarantor %s", gid)
		}
		seen[gid] = struct{}{}
	}
	return nil
}
