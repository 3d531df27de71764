package loan

import (
	"time"

	"coopfin-backend/internal/domain/finance"
	domain "coopfin-backend/internal/domain/loan"

	"github.com/shopspring/decimal"
)

// RequestInput is a member asking for a loan against a loan type.
type RequestInput struct {
	CooperativeID string
	UserID        string // acting member's user id
	LoanTypeID    string
	Amount        decimal.Decimal
	Purpose       string
	Duration      int // months
	GuarantorIDs  []string
}

// OverrideInput is an admin recording a loan directly; eligibility checks
// are skipped and the loan starts out approved.
type OverrideInput struct {
	CooperativeID string
	ActorUserID   string
	MemberID      string // borrower
	LoanTypeID    string // optional
	Amount        decimal.Decimal
	Purpose       string
	Duration      int
	RatePercent   decimal.Decimal // used when no loan type is given
	Mode          finance.Mode    // used when no loan type is given
}

type GuarantorResponseInput struct {
	CooperativeID string
	LoanID        string
	UserID        string // responding guarantor's user id
	Approve       bool
	Reason        string // required on rejection
}

type LoanDTO struct {
	LoanID        string `json:"loan_id"`
	CooperativeID string `json:"cooperative_id"`
	MemberID      string `json:"member_id"`
	LoanTypeID    string `json:"loan_type_id,omitempty"`

	Amount   decimal.Decimal `json:"amount"`
	Purpose  string          `json:"purpose,omitempty"`
	Duration int             `json:"duration_months"`
	Rate     decimal.Decimal `json:"rate_percent"`
	Mode     finance.Mode    `json:"interest_mode"`

	Interest    decimal.Decimal `json:"interest_amount"`
	Monthly     decimal.Decimal `json:"monthly_repayment"`
	Total       decimal.Decimal `json:"total_repayment"`
	Outstanding decimal.Decimal `json:"outstanding_balance"`
	Repaid      decimal.Decimal `json:"amount_repaid"`

	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	DisbursedAt *time.Time `json:"disbursed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type GuarantorDTO struct {
	GuarantorID string     `json:"guarantor_id"`
	LoanID      string     `json:"loan_id"`
	MemberID    string     `json:"member_id"`
	Status      string     `json:"status"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

func toDTO(l *domain.Loan, loanTypeID string) *LoanDTO {
	return &LoanDTO{
		LoanID:        l.LoanID,
		CooperativeID: l.CooperativeID,
		MemberID:      l.MemberID,
		LoanTypeID:    loanTypeID,
		Amount:        l.Amount,
		Purpose:       l.Purpose,
		Duration:      l.DurationMonths,
		Rate:          l.RatePercent,
		Mode:          l.Mode,
		Interest:      l.InterestAmount,
		Monthly:       l.MonthlyRepayment,
		Total:         l.TotalRepayment,
		Outstanding:   l.OutstandingBalance,
		Repaid:        l.AmountRepaid,
		Status:        string(l.Status),
		RequestedAt:   l.RequestedAt,
		DisbursedAt:   l.DisbursedAt,
		CompletedAt:   l.CompletedAt,
	}
}
