package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainApproval "coopfin-backend/internal/domain/approval"
	"coopfin-backend/internal/domain/fault"
	domainLoan "coopfin-backend/internal/domain/loan"
	"coopfin-backend/internal/domain/member"
	"coopfin-backend/internal/domain/notify"
	"coopfin-backend/internal/domain/uow"
	"coopfin-backend/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	uow      uow.UnitOfWork
	dir      member.Directory
	notifier notify.Notifier
}

func NewUsecase(tx uow.UnitOfWork, dir member.Directory, n notify.Notifier) *Usecase {
	return &Usecase{uow: tx, dir: dir, notifier: n}
}

// Approve records one approver's decision. Under a single-approver policy
// the first approval flips the loan to approved; under a multi-approver
// policy the loan stays pending until the quorum of distinct approvers is
// reached. Each approver gets at most one decision per loan.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*DecisionDTO, error) {
	actor, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.ActorUserID)
	if err != nil {
		return nil, err
	}
	if !u.dir.Can(actor, member.CapLoanApprove) {
		return nil, fault.New(fault.Forbidden, "member %s may not approve loans", actor.MemberID)
	}

	var (
		dto         *DecisionDTO
		borrowerID  string
		approvedNow bool
	)
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status == domainLoan.StatusApproved {
			return fault.New(fault.Conflict, "loan %s is already approved", l.LoanID)
		}
		if err := l.EnsureStatus(domainLoan.StatusPending); err != nil {
			return err
		}
		borrowerID = l.MemberID

		if _, err := r.Approvals.GetByLoanAndApprover(ctx, l.ID, actor.MemberID); err == nil {
			return fault.New(fault.Conflict, "approver %s already approved loan %s", actor.MemberID, l.LoanID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		quorum := 1
		if l.LoanTypeID != nil {
			lt, err := r.LoanTypes.GetByID(ctx, *l.LoanTypeID)
			if err != nil {
				return err
			}
			quorum = lt.Policy().ApproverQuorum()
		}

		now := time.Now().UTC()
		a := &domainApproval.Approval{
			ApprovalID: id.NewID32(),
			LoanID:     l.ID,
			ApproverID: actor.MemberID,
			Note:       in.Note,
			DecidedAt:  now,
		}
		if err := r.Approvals.Create(ctx, a); err != nil {
			return err
		}

		count, err := r.Approvals.CountByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		if count >= int64(quorum) {
			l.Status = domainLoan.StatusApproved
			l.ReviewedAt = &now
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			approvedNow = true
		}

		dto = &DecisionDTO{
			ApprovalID:        a.ApprovalID,
			LoanID:            l.LoanID,
			ApproverID:        actor.MemberID,
			Decision:          "approved",
			LoanStatus:        string(l.Status),
			ApprovalsRecorded: int(count),
			ApprovalsRequired: quorum,
			DecidedAt:         now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if approvedNow {
		u.notifier.Notify(ctx, borrowerID, notify.EventLoanApproved,
			"Loan approved",
			fmt.Sprintf("Your loan %s has been approved and is awaiting disbursement", in.LoanID),
			map[string]any{"loan_id": in.LoanID})
	} else {
		u.notifier.Notify(ctx, borrowerID, notify.EventLoanRequested,
			"Approval progress",
			fmt.Sprintf("Your loan %s has %d of %d required approvals", in.LoanID, dto.ApprovalsRecorded, dto.ApprovalsRequired),
			map[string]any{"loan_id": in.LoanID})
	}
	return dto, nil
}

// Reject moves a pending loan to the terminal rejected status. A reason is
// mandatory; no further transitions are possible afterwards.
func (u *Usecase) Reject(ctx context.Context, in RejectInput) (*DecisionDTO, error) {
	actor, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.ActorUserID)
	if err != nil {
		return nil, err
	}
	if !u.dir.Can(actor, member.CapLoanApprove) {
		return nil, fault.New(fault.Forbidden, "member %s may not reject loans", actor.MemberID)
	}
	if in.Reason == "" {
		return nil, fault.New(fault.Validation, "a rejection reason is required")
	}

	var (
		dto        *DecisionDTO
		borrowerID string
	)
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if err := l.EnsureStatus(domainLoan.StatusPending); err != nil {
			return err
		}
		borrowerID = l.MemberID

		now := time.Now().UTC()
		l.Status = domainLoan.StatusRejected
		l.ReviewedAt = &now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		dto = &DecisionDTO{
			LoanID:     l.LoanID,
			ApproverID: actor.MemberID,
			Decision:   "rejected",
			LoanStatus: string(l.Status),
			DecidedAt:  now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Notify(ctx, borrowerID, notify.EventLoanRejected,
		"Loan rejected",
		fmt.Sprintf("Your loan %s was rejected: %s", in.LoanID, in.Reason),
		map[string]any{"loan_id": in.LoanID, "reason": in.Reason})
	return dto, nil
}
