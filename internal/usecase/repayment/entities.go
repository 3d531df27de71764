package repayment

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordInput is a repayment being reported, by the borrower themself or by
// someone with confirm authority.
type RecordInput struct {
	CooperativeID string
	LoanID        string
	ActorUserID   string
	Amount        decimal.Decimal
	Method        string
	PaidAt        time.Time // zero means now
	Receipt       string
}

type ReviewInput struct {
	CooperativeID string
	RepaymentID   string
	ActorUserID   string
	Confirm       bool
	Reason        string // required on rejection
}

// Outcome of recording or confirming a repayment.
const (
	OutcomePendingConfirmation = "pending_confirmation"
	OutcomeApplied             = "applied"
)

type RecordDTO struct {
	LoanID      string `json:"loan_id"`
	RepaymentID string `json:"repayment_id,omitempty"` // set on the self-report path
	Outcome     string `json:"outcome"`

	Amount decimal.Decimal `json:"amount"`
	// Allocated is what actually landed on schedule rows; Unallocated is the
	// overpayment remainder the caller must refund or re-book.
	Allocated   decimal.Decimal `json:"allocated"`
	Unallocated decimal.Decimal `json:"unallocated"`

	Outstanding decimal.Decimal `json:"outstanding_balance"`
	LoanStatus  string          `json:"loan_status"`
}

type ReviewDTO struct {
	RepaymentID string `json:"repayment_id"`
	LoanID      string `json:"loan_id"`
	Status      string `json:"status"`

	Allocated   decimal.Decimal `json:"allocated"`
	Unallocated decimal.Decimal `json:"unallocated"`
	Outstanding decimal.Decimal `json:"outstanding_balance"`
	LoanStatus  string          `json:"loan_status"`
}
