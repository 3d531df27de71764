package disbursement

import (
	"context"
	"fmt"
	"time"

	"coopfin-backend/internal/domain/fault"
	"coopfin-backend/internal/domain/finance"
	"coopfin-backend/internal/domain/ledger"
	domainLoan "coopfin-backend/internal/domain/loan"
	"coopfin-backend/internal/domain/member"
	"coopfin-backend/internal/domain/notify"
	"coopfin-backend/internal/domain/uow"
	"coopfin-backend/pkg/id"

	"github.com/shopspring/decimal"
)

type Usecase struct {
	uow      uow.UnitOfWork
	dir      member.Directory
	notifier notify.Notifier
}

func NewUsecase(tx uow.UnitOfWork, dir member.Directory, n notify.Notifier) *Usecase {
	return &Usecase{uow: tx, dir: dir, notifier: n}
}

type Input struct {
	CooperativeID string
	LoanID        string
	ActorUserID   string
	// StartDate overrides the deduction start; first installment falls one
	// month after it. Zero means "from disbursement".
	StartDate *time.Time
}

type DTO struct {
	LoanID          string          `json:"loan_id"`
	Status          string          `json:"status"`
	ApplicationFee  decimal.Decimal `json:"application_fee"`
	InterestUpfront decimal.Decimal `json:"interest_deducted_upfront"`
	NetDisbursed    decimal.Decimal `json:"net_disbursement"`
	FirstDueDate    time.Time       `json:"first_due_date"`
	Installments    int             `json:"installments"`
	DisbursedAt     time.Time       `json:"disbursed_at"`
}

// Disburse pays out an approved loan. Fee and (when the type says so) the
// full interest are withheld from the payout; the repayment schedule, the
// loan's disbursement fields and the outgoing ledger entry commit as one
// transaction. There is no way back from here: failures surface to the
// caller, but a disbursed loan never returns to pending.
func (u *Usecase) Disburse(ctx context.Context, in Input) (*DTO, error) {
	actor, err := u.dir.ActiveMember(ctx, in.CooperativeID, in.ActorUserID)
	if err != nil {
		return nil, err
	}
	if !u.dir.Can(actor, member.CapLoanDisburse) {
		return nil, fault.New(fault.Forbidden, "member %s may not disburse loans", actor.MemberID)
	}

	var (
		dto        *DTO
		borrowerID string
	)
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if err := l.EnsureStatus(domainLoan.StatusApproved); err != nil {
			return err
		}
		borrowerID = l.MemberID

		fee := decimal.Zero
		upfront := decimal.Zero
		if l.LoanTypeID != nil {
			lt, err := r.LoanTypes.GetByID(ctx, *l.LoanTypeID)
			if err != nil {
				return err
			}
			fee = lt.ApplicationFee
			if lt.DeductInterestUpfront {
				upfront = l.InterestAmount
			}
		}

		net := l.Amount.Sub(fee).Sub(upfront)
		if !net.IsPositive() {
			return fault.New(fault.Validation,
				"deductions %s leave nothing to disburse from %s", fee.Add(upfront), l.Amount)
		}

		now := time.Now().UTC()
		start := now
		if in.StartDate != nil {
			start = in.StartDate.UTC()
			l.DeductionStartDate = in.StartDate
		}

		rows, err := finance.BuildSchedule(finance.ScheduleInput{
			Principal:   l.Amount,
			RatePercent: l.RatePercent,
			Months:      l.DurationMonths,
			Mode:        l.Mode,
			Terms: finance.Terms{
				Interest: l.InterestAmount,
				Monthly:  l.MonthlyRepayment,
				Total:    l.TotalRepayment,
			},
			UpfrontInterest: upfront.IsPositive(),
			Start:           start,
		})
		if err != nil {
			return err
		}

		scheduleRows := make([]*domainLoan.ScheduleRow, 0, len(rows))
		for _, row := range rows {
			scheduleRows = append(scheduleRows, &domainLoan.ScheduleRow{
				ScheduleID: id.NewID32(),
				LoanID:     l.ID,
				Number:     row.Number,
				DueDate:    row.DueDate,
				Principal:  row.Principal,
				Interest:   row.Interest,
				Total:      row.Total,
				Paid:       decimal.Zero,
				Status:     domainLoan.SchedulePending,
			})
		}
		if err := r.Schedules.CreateAll(ctx, scheduleRows); err != nil {
			return err
		}

		l.Status = domainLoan.StatusDisbursed
		l.ApplicationFee = fee
		l.InterestDeductedUpfront = upfront
		l.NetDisbursement = net
		l.AmountDisbursed = l.Amount
		l.DisbursedAt = &now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		balance, err := r.Ledger.LatestBalance(ctx, l.CooperativeID)
		if err != nil {
			return err
		}
		entry := &ledger.Entry{
			EntryID:       id.NewReference(),
			CooperativeID: l.CooperativeID,
			MemberID:      l.MemberID,
			Type:          ledger.TypeLoanDisbursement,
			Amount:        net.Neg(),
			BalanceAfter:  balance.Sub(net),
			Reference:     ledger.LoanReference(l.LoanID),
			CreatedBy:     actor.MemberID,
		}
		if err := r.Ledger.Create(ctx, entry); err != nil {
			return err
		}

		dto = &DTO{
			LoanID:          l.LoanID,
			Status:          string(l.Status),
			ApplicationFee:  fee,
			InterestUpfront: upfront,
			NetDisbursed:    net,
			FirstDueDate:    rows[0].DueDate,
			Installments:    len(rows),
			DisbursedAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.notifier.Notify(ctx, borrowerID, notify.EventLoanDisbursed,
		"Loan disbursed",
		fmt.Sprintf("%s has been paid out. First installment is due %s.",
			dto.NetDisbursed, dto.FirstDueDate.Format("2 Jan 2006")),
		map[string]any{"loan_id": in.LoanID, "net_disbursement": dto.NetDisbursed.String()})
	return dto, nil
}
