package finance

import (
	"coopfin-backend/internal/domain/fault"

	"github.com/shopspring/decimal"
)

// Mode selects how interest is charged over the life of a loan.
type Mode string

const (
	// ModeFlat charges interest once on the original principal.
	ModeFlat Mode = "flat"
	// ModeReducingBalance recomputes interest each month on the remaining
	// principal with a fixed monthly installment (standard EMI).
	ModeReducingBalance Mode = "reducing_balance"
)

func (m Mode) Valid() bool { return m == ModeFlat || m == ModeReducingBalance }

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Terms are the repayment figures fixed on a loan at request time. All
// roundups use ceiling so the cooperative never under-collects.
type Terms struct {
	Interest decimal.Decimal
	Monthly  decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTerms derives the interest amount, monthly installment and total
// repayable for a principal at an annual percentage rate over a number of
// months. With deductUpfront the interest is withheld from the disbursement
// instead, so the member only repays principal.
func ComputeTerms(principal, ratePercent decimal.Decimal, months int, mode Mode, deductUpfront bool) (Terms, error) {
	if !principal.IsPositive() {
		return Terms{}, fault.New(fault.Validation, "principal must be positive, got %s", principal)
	}
	if ratePercent.IsNegative() {
		return Terms{}, fault.New(fault.Validation, "interest rate cannot be negative, got %s", ratePercent)
	}
	if months < 1 {
		return Terms{}, fault.New(fault.Validation, "duration must be at least 1 month, got %d", months)
	}
	if !mode.Valid() {
		return Terms{}, fault.New(fault.Validation, "unknown interest mode %q", mode)
	}

	n := decimal.NewFromInt(int64(months))
	var t Terms

	switch mode {
	case ModeFlat:
		t.Interest = principal.Mul(ratePercent).Div(hundred).Ceil()
		t.Total = principal.Add(t.Interest)
		t.Monthly = t.Total.Div(n).Ceil()
	case ModeReducingBalance:
		r := MonthlyRate(ratePercent)
		if r.IsZero() {
			// interest-free even split
			t.Interest = decimal.Zero
			t.Total = principal
			t.Monthly = principal.Div(n).Ceil()
			break
		}
		onePlusRPowN := decimal.NewFromInt(1).Add(r).Pow(n)
		emi := principal.Mul(r).Mul(onePlusRPowN).
			Div(onePlusRPowN.Sub(decimal.NewFromInt(1))).Ceil()
		t.Monthly = emi
		t.Total = emi.Mul(n)
		t.Interest = t.Total.Sub(principal)
	}

	if deductUpfront {
		// Interest is taken out of the disbursed amount, so the schedule
		// only ever collects principal.
		t.Total = principal
		t.Monthly = principal.Div(n).Ceil()
	}
	return t, nil
}

// MonthlyRate converts an annual percentage rate to a monthly fraction.
func MonthlyRate(ratePercent decimal.Decimal) decimal.Decimal {
	return ratePercent.Div(hundred).Div(twelve)
}
