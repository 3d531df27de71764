package repayment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coopfin-backend/internal/domain/fault"
	"coopfin-backend/internal/domain/ledger"
	domainLoan "coopfin-backend/internal/domain/loan"
	"coopfin-backend/internal/domain/member"
	"coopfin-backend/internal/domain/notify"
	domain "coopfin-backend/internal/domain/repayment"
	"coopfin-backend/internal/domain/uow"
	"coopfin-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DuplicateWindow is how long an identical-amount submission against the
// same loan is treated as a double-tap rather than a new payment. A
// heuristic, not an idempotency key: two genuine identical payments inside
// the window are rejected and must be retried after it passes.
const DuplicateWindow = 2 * time.Minute

type Usecase struct {
	loans      domainLoan.Repository
	repayments domain.Repository
	entries    ledger.Repository
	uow        uow.UnitOfWork
	dir        member.Directory
	notifier   notify.Notifier
	mailer     notify.Mailer
}

func NewUsecase(loans domainLoan.Repository, reps domain.Repository, entries ledger.Repository, tx uow.UnitOfWork, dir member.Directory, n notify.Notifier, m notify.Mailer) *Usecase {
	return &Usecase{loans: loans, repayments: reps, entries: entries, uow: tx, dir: dir, notifier: n, mailer: m}
}

// Record routes a repayment. Borrowers without confirm authority get their
// payment parked as a pending submission; reviewers (and admins recording on
// a member's behalf) apply it to the schedule immediately.
func (u *Usecase) Record(ctx context.Context, in RecordInput) (*RecordDTO, error) {
	actor, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.ActorUserID)
	if err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, fault.New(fault.Validation, "repayment amount must be positive, got %s", in.Amount)
	}

	l, err := u.loans.GetByLoanID(ctx, in.LoanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.New(fault.NotFound, "loan %s not found", in.LoanID)
		}
		return nil, err
	}
	if err := l.EnsureStatus(domainLoan.StatusDisbursed, domainLoan.StatusRepaying); err != nil {
		return nil, err
	}

	canConfirm := u.dir.Can(actor, member.CapRepaymentConfirm)
	isOwner := l.MemberID == actor.MemberID
	if !canConfirm && !isOwner {
		return nil, fault.New(fault.Forbidden, "member %s may not record repayments on loan %s", actor.MemberID, in.LoanID)
	}

	if err := u.guardDuplicate(ctx, l, in.Amount); err != nil {
		return nil, err
	}

	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	if !canConfirm {
		return u.selfReport(ctx, actor, l, in, paidAt)
	}
	return u.applyDirect(ctx, actor, l.LoanID, in.Amount, paidAt)
}

// Review resolves a pending self-reported repayment. Confirming runs the
// same allocation as a direct recording, with the originally reported
// amount; rejecting needs a reason and moves no money. Either way the row
// is resolved exactly once.
func (u *Usecase) Review(ctx context.Context, in ReviewInput) (*ReviewDTO, error) {
	actor, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.ActorUserID)
	if err != nil {
		return nil, err
	}
	if !u.dir.Can(actor, member.CapRepaymentConfirm) {
		return nil, fault.New(fault.Forbidden, "member %s may not review repayments", actor.MemberID)
	}
	if !in.Confirm && in.Reason == "" {
		return nil, fault.New(fault.Validation, "a rejection reason is required")
	}

	var (
		dto        *ReviewDTO
		submitter  string
		loanPublic string
		completed  bool
	)
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		rp, err := r.Repayments.GetByRepaymentIDForUpdate(ctx, in.RepaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.New(fault.NotFound, "repayment %s not found", in.RepaymentID)
			}
			return err
		}
		if rp.Resolved() {
			return fault.New(fault.Conflict, "repayment %s was already %s", rp.RepaymentID, rp.Status)
		}
		submitter = rp.SubmittedBy

		now := time.Now().UTC()
		rp.ReviewedBy = &actor.MemberID
		rp.ReviewedAt = &now

		if !in.Confirm {
			rp.Status = domain.StatusRejected
			rp.RejectionReason = in.Reason
			if err := r.Repayments.Save(ctx, rp); err != nil {
				return err
			}
			dto = &ReviewDTO{RepaymentID: rp.RepaymentID, Status: string(rp.Status)}
			return nil
		}

		l, err := r.Loans.GetByIDForUpdate(ctx, rp.LoanID)
		if err != nil {
			return err
		}
		if err := l.EnsureStatus(domainLoan.StatusDisbursed, domainLoan.StatusRepaying); err != nil {
			return err
		}
		loanPublic = l.LoanID

		rp.Status = domain.StatusConfirmed
		if err := r.Repayments.Save(ctx, rp); err != nil {
			return err
		}

		allocated, unallocated, err := allocate(ctx, r, l, rp.Amount, actor.MemberID, now)
		if err != nil {
			return err
		}
		completed = l.Status == domainLoan.StatusCompleted
		dto = &ReviewDTO{
			RepaymentID: rp.RepaymentID,
			LoanID:      l.LoanID,
			Status:      string(rp.Status),
			Allocated:   allocated,
			Unallocated: unallocated,
			Outstanding: l.OutstandingBalance,
			LoanStatus:  string(l.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.Confirm {
		u.notifyProgress(ctx, submitter, loanPublic, completed, dto.Outstanding)
	} else {
		u.notifier.Notify(ctx, submitter, notify.EventRepaymentRejected,
			"Repayment rejected",
			fmt.Sprintf("Your reported repayment was rejected: %s", in.Reason),
			map[string]any{"repayment_id": in.RepaymentID, "reason": in.Reason})
	}
	return dto, nil
}

// guardDuplicate rejects an identical-amount resubmission within the
// window, looking at both applied entries (ledger) and still-pending
// self-reports.
func (u *Usecase) guardDuplicate(ctx context.Context, l *domainLoan.Loan, amount decimal.Decimal) error {
	since := time.Now().UTC().Add(-DuplicateWindow)
	dup, err := u.entries.HasRecentRepayment(ctx, ledger.LoanReference(l.LoanID), amount, since)
	if err != nil {
		return err
	}
	if !dup {
		rows, err := u.repayments.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		for _, rp := range rows {
			if rp.Status == domain.StatusPending && rp.Amount.Equal(amount) && rp.CreatedAt.After(since) {
				dup = true
				break
			}
		}
	}
	if dup {
		return fault.New(fault.Conflict,
			"a repayment of %s against loan %s was already submitted in the last %s", amount, l.LoanID, DuplicateWindow)
	}
	return nil
}

// selfReport parks the payment for review; no schedule rows, loan totals or
// ledger entries move until a reviewer confirms it.
func (u *Usecase) selfReport(ctx context.Context, actor *member.Member, l *domainLoan.Loan, in RecordInput, paidAt time.Time) (*RecordDTO, error) {
	receipt := in.Receipt
	if receipt == "" {
		receipt = id.NewReference()
	}
	rp := &domain.Repayment{
		RepaymentID:   id.NewID32(),
		LoanID:        l.ID,
		CooperativeID: l.CooperativeID,
		MemberID:      l.MemberID,
		Amount:        in.Amount,
		Method:        in.Method,
		PaidAt:        paidAt,
		Receipt:       receipt,
		SubmittedBy:   actor.MemberID,
		Status:        domain.StatusPending,
	}
	if err := u.repayments.Create(ctx, rp); err != nil {
		return nil, err
	}

	u.notifier.NotifyAdmins(ctx, l.CooperativeID, notify.EventRepaymentSubmitted,
		"Repayment awaiting confirmation",
		fmt.Sprintf("%s reported a repayment of %s on loan %s", actor.Name, in.Amount, l.LoanID),
		map[string]any{"repayment_id": rp.RepaymentID, "loan_id": l.LoanID}, actor.UserID)
	u.notifier.Notify(ctx, actor.UserID, notify.EventRepaymentSubmitted,
		"Repayment submitted",
		fmt.Sprintf("Your repayment of %s is awaiting confirmation", in.Amount),
		map[string]any{"repayment_id": rp.RepaymentID})
	if actor.Email != "" {
		u.mailer.Send(ctx, actor.Email, "Repayment submitted",
			fmt.Sprintf("We received your repayment report of %s (receipt %s). You will be notified once it is confirmed.", in.Amount, receipt))
	}

	return &RecordDTO{
		LoanID:      l.LoanID,
		RepaymentID: rp.RepaymentID,
		Outcome:     OutcomePendingConfirmation,
		Amount:      in.Amount,
		Allocated:   decimal.Zero,
		Unallocated: decimal.Zero,
		Outstanding: l.OutstandingBalance,
		LoanStatus:  string(l.Status),
	}, nil
}

// applyDirect allocates the payment inside a loan-locked transaction.
func (u *Usecase) applyDirect(ctx context.Context, actor *member.Member, loanID string, amount decimal.Decimal, paidAt time.Time) (*RecordDTO, error) {
	var (
		dto        *RecordDTO
		borrowerID string
		completed  bool
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		// re-check under lock; the unlocked read above may be stale
		if err := l.EnsureStatus(domainLoan.StatusDisbursed, domainLoan.StatusRepaying); err != nil {
			return err
		}
		borrowerID = l.MemberID

		allocated, unallocated, err := allocate(ctx, r, l, amount, actor.MemberID, paidAt)
		if err != nil {
			return err
		}
		completed = l.Status == domainLoan.StatusCompleted
		dto = &RecordDTO{
			LoanID:      l.LoanID,
			Outcome:     OutcomeApplied,
			Amount:      amount,
			Allocated:   allocated,
			Unallocated: unallocated,
			Outstanding: l.OutstandingBalance,
			LoanStatus:  string(l.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifyProgress(ctx, borrowerID, loanID, completed, dto.Outstanding)
	return dto, nil
}

// allocate spreads the amount across outstanding installments oldest-first,
// updates the loan's totals and status, and appends the incoming ledger
// entry. Amount beyond the total due is not allocated; it is returned so
// the caller can surface it.
func allocate(ctx context.Context, r uow.Repos, l *domainLoan.Loan, amount decimal.Decimal, actorID string, paidAt time.Time) (allocated, unallocated decimal.Decimal, err error) {
	rows, err := r.Schedules.ListByLoanForUpdate(ctx, l.ID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	remaining := amount
	for i := range rows {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		row := &rows[i]
		if row.Status == domainLoan.SchedulePaid {
			continue
		}
		due := row.Due()
		if !due.IsPositive() {
			continue
		}
		applied := decimal.Min(remaining, due)
		row.Paid = row.Paid.Add(applied)
		if row.Paid.GreaterThanOrEqual(row.Total) {
			row.Status = domainLoan.SchedulePaid
			t := paidAt
			row.PaidAt = &t
		} else {
			row.Status = domainLoan.SchedulePartial
		}
		if err := r.Schedules.Save(ctx, row); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		remaining = remaining.Sub(applied)
	}

	allocated = amount.Sub(remaining)
	unallocated = remaining

	l.ApplyRepaid(allocated, paidAt)
	if err := r.Loans.Save(ctx, l); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if allocated.IsPositive() {
		balance, err := r.Ledger.LatestBalance(ctx, l.CooperativeID)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		entry := &ledger.Entry{
			EntryID:       id.NewReference(),
			CooperativeID: l.CooperativeID,
			MemberID:      l.MemberID,
			Type:          ledger.TypeLoanRepayment,
			Amount:        allocated,
			BalanceAfter:  balance.Add(allocated),
			Reference:     ledger.LoanReference(l.LoanID),
			CreatedBy:     actorID,
		}
		if err := r.Ledger.Create(ctx, entry); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
	}
	return allocated, unallocated, nil
}

func (u *Usecase) notifyProgress(ctx context.Context, borrowerID, loanID string, completed bool, outstanding decimal.Decimal) {
	if completed {
		u.notifier.Notify(ctx, borrowerID, notify.EventLoanCompleted,
			"Loan fully repaid",
			fmt.Sprintf("Congratulations, loan %s is fully repaid.", loanID),
			map[string]any{"loan_id": loanID})
		return
	}
	u.notifier.Notify(ctx, borrowerID, notify.EventRepaymentRecorded,
		"Repayment recorded",
		fmt.Sprintf("Payment received. Outstanding balance on loan %s is now %s.", loanID, outstanding),
		map[string]any{"loan_id": loanID, "outstanding": outstanding.String()})
}
