package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coopfin-backend/internal/domain/fault"
	domain "coopfin-backend/internal/domain/loan"
	"coopfin-backend/internal/domain/notify"
	"coopfin-backend/internal/domain/uow"

	"gorm.io/gorm"
)

// RespondAsGuarantor records a guarantor's approve/reject decision. The
// transition is terminal; once the loan type's guarantor quorum is reached
// the cooperative's approvers are told the loan is ready for review. That
// notification is advisory only and never changes the loan's status.
func (u *Usecase) RespondAsGuarantor(ctx context.Context, in GuarantorResponseInput) (*GuarantorDTO, error) {
	m, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !in.Approve && in.Reason == "" {
		return nil, fault.New(fault.Validation, "a rejection reason is required")
	}

	var (
		dto           *GuarantorDTO
		quorumJustHit bool
		borrowerID    string
	)
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if err := l.EnsureStatus(domain.StatusPending); err != nil {
			return err
		}
		borrowerID = l.MemberID

		g, err := r.Guarantors.GetByLoanAndMember(ctx, l.ID, m.MemberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fault.New(fault.Forbidden, "member %s is not a guarantor on loan %s", m.MemberID, in.LoanID)
			}
			return err
		}
		if g.Responded() {
			return fault.New(fault.Conflict, "guarantor %s already responded %s", m.MemberID, g.Status)
		}

		now := time.Now().UTC()
		g.RespondedAt = &now
		if in.Approve {
			g.Status = domain.GuarantorApproved
		} else {
			g.Status = domain.GuarantorRejected
			g.RejectionReason = in.Reason
		}
		if err := r.Guarantors.Save(ctx, g); err != nil {
			return err
		}

		if in.Approve && l.LoanTypeID != nil {
			lt, err := r.LoanTypes.GetByID(ctx, *l.LoanTypeID)
			if err != nil {
				return err
			}
			quorum := lt.Policy().GuarantorQuorum()
			if quorum > 0 {
				all, err := r.Guarantors.ListByLoan(ctx, l.ID)
				if err != nil {
					return err
				}
				approved := 0
				for _, row := range all {
					if row.Status == domain.GuarantorApproved {
						approved++
					}
				}
				// fire only on the response that crosses the line, so a
				// stale re-read cannot re-trigger it
				quorumJustHit = approved == quorum
			}
		}

		dto = &GuarantorDTO{
			GuarantorID: g.GuarantorID,
			LoanID:      l.LoanID,
			MemberID:    g.MemberID,
			Status:      string(g.Status),
			RespondedAt: g.RespondedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if quorumJustHit {
		u.notifier.NotifyAdmins(ctx, in.CooperativeID, notify.EventLoanReadyForReview,
			"Loan ready for review",
			fmt.Sprintf("All required guarantors approved loan %s", in.LoanID),
			map[string]any{"loan_id": in.LoanID})
	}
	if !in.Approve {
		u.notifier.Notify(ctx, borrowerID, notify.EventLoanRejected,
			"Guarantor declined",
			fmt.Sprintf("%s declined to guarantee your loan: %s", m.Name, in.Reason),
			map[string]any{"loan_id": in.LoanID})
	}
	return dto, nil
}
