package finance

import (
	"time"

	"coopfin-backend/internal/domain/fault"

	"github.com/shopspring/decimal"
)

// Installment is one row of a repayment schedule before persistence.
type Installment struct {
	Number    int
	DueDate   time.Time
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Total     decimal.Decimal
}

// ScheduleInput carries the figures frozen on a loan at disbursement time.
type ScheduleInput struct {
	Principal       decimal.Decimal
	RatePercent     decimal.Decimal
	Months          int
	Mode            Mode
	Terms           Terms
	UpfrontInterest bool      // interest already withheld; installments carry none
	Start           time.Time // first due date is Start + 1 month
}

// BuildSchedule produces the full installment list for a disbursed loan.
// The final installment is corrected so the schedule sums exactly to
// Terms.Total, absorbing all rounding drift from the earlier rows.
func BuildSchedule(in ScheduleInput) ([]Installment, error) {
	if in.Months < 1 {
		return nil, fault.New(fault.Validation, "duration must be at least 1 month, got %d", in.Months)
	}
	if !in.Mode.Valid() {
		return nil, fault.New(fault.Validation, "unknown interest mode %q", in.Mode)
	}
	if in.Start.IsZero() {
		in.Start = time.Now().UTC()
	}

	n := decimal.NewFromInt(int64(in.Months))
	monthlyRate := MonthlyRate(in.RatePercent)
	amortized := in.Mode == ModeReducingBalance && !monthlyRate.IsZero() && !in.UpfrontInterest

	// even-split figures for the flat / zero-rate / upfront branch
	evenPrincipal := in.Principal.Div(n).Ceil()
	evenInterest := decimal.Zero
	if !in.UpfrontInterest {
		evenInterest = in.Terms.Interest.Div(n).Ceil()
	}

	out := make([]Installment, 0, in.Months)
	remaining := in.Principal
	sumPrev := decimal.Zero

	for i := 1; i <= in.Months; i++ {
		var principal, interest decimal.Decimal
		if amortized {
			interest = remaining.Mul(monthlyRate).Ceil()
			principal = in.Terms.Monthly.Sub(interest)
			remaining = remaining.Sub(principal)
		} else {
			principal = evenPrincipal
			interest = evenInterest
		}

		if i == in.Months {
			// reconcile: the last row absorbs all accumulated rounding
			total := in.Terms.Total.Sub(sumPrev)
			principal = total.Sub(interest)
			if principal.IsNegative() {
				principal = decimal.Zero
			}
			interest = total.Sub(principal)
			if interest.IsNegative() {
				interest = decimal.Zero
			}
		}

		total := principal.Add(interest)
		sumPrev = sumPrev.Add(total)
		out = append(out, Installment{
			Number:    i,
			DueDate:   in.Start.AddDate(0, i, 0),
			Principal: principal,
			Interest:  interest,
			Total:     total,
		})
	}
	return out, nil
}
