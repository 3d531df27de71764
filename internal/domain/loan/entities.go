package loan

import (
	"time"

	"coopfin-backend/internal/domain/fault"
	"coopfin-backend/internal/domain/finance"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusDisbursed Status = "disbursed"
	StatusRepaying  Status = "repaying"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

// Active statuses count against a loan type's concurrent-loan cap.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDisbursed, StatusRepaying:
		return true
	}
	return false
}

type InitiatorKind string

const (
	InitiatorMember InitiatorKind = "member"
	InitiatorAdmin  InitiatorKind = "admin"
)

// Initiator records who opened the loan. Admin-initiated loans skip
// eligibility checks and start out approved; every reader must branch on
// Kind rather than testing a nullable admin id.
type Initiator struct {
	Kind    InitiatorKind `gorm:"column:initiator_kind;type:varchar(10);not null"`
	AdminID string        `gorm:"column:initiated_by;size:32"`
}

func MemberInitiated() Initiator { return Initiator{Kind: InitiatorMember} }

func AdminInitiated(adminID string) Initiator {
	return Initiator{Kind: InitiatorAdmin, AdminID: adminID}
}

type Loan struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanID string `gorm:"column:loan_id;type:char(32);not null;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`

	CooperativeID string  `gorm:"column:cooperative_id;type:char(32);not null;index" json:"cooperative_id"`
	MemberID      string  `gorm:"column:member_id;type:char(32);not null;index:idx_loans_member_status" json:"member_id"`
	LoanTypeID    *uint64 `gorm:"column:loan_type_id;index" json:"-"`

	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Purpose        string          `gorm:"column:purpose;type:text" json:"purpose"`
	DurationMonths int             `gorm:"column:duration_months;not null" json:"duration_months"`
	// rate and mode are copied from the loan type at request time, never
	// live-linked back to it
	RatePercent decimal.Decimal `gorm:"column:rate_percent;type:decimal(6,2);not null" json:"rate_percent"`
	Mode        finance.Mode    `gorm:"column:interest_mode;type:varchar(20);not null" json:"interest_mode"`

	InterestAmount     decimal.Decimal `gorm:"column:interest_amount;type:decimal(18,2)" json:"interest_amount"`
	MonthlyRepayment   decimal.Decimal `gorm:"column:monthly_repayment;type:decimal(18,2)" json:"monthly_repayment"`
	TotalRepayment     decimal.Decimal `gorm:"column:total_repayment;type:decimal(18,2)" json:"total_repayment"`
	OutstandingBalance decimal.Decimal `gorm:"column:outstanding_balance;type:decimal(18,2)" json:"outstanding_balance"`
	AmountRepaid       decimal.Decimal `gorm:"column:amount_repaid;type:decimal(18,2)" json:"amount_repaid"`

	Status    Status `gorm:"column:status;type:varchar(12);not null;index:idx_loans_member_status" json:"status"`
	Initiator `json:"-"`

	ApplicationFee          decimal.Decimal `gorm:"column:application_fee;type:decimal(18,2)" json:"application_fee"`
	InterestDeductedUpfront decimal.Decimal `gorm:"column:interest_deducted_upfront;type:decimal(18,2)" json:"interest_deducted_upfront"`
	NetDisbursement         decimal.Decimal `gorm:"column:net_disbursement;type:decimal(18,2)" json:"net_disbursement"`
	AmountDisbursed         decimal.Decimal `gorm:"column:amount_disbursed;type:decimal(18,2)" json:"amount_disbursed"`
	DeductionStartDate      *time.Time      `gorm:"column:deduction_start_date" json:"deduction_start_date,omitempty"`

	RequestedAt time.Time  `gorm:"column:requested_at;not null" json:"requested_at"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	DisbursedAt *time.Time `gorm:"column:disbursed_at" json:"disbursed_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// EnsureStatus fails with an invalid-transition fault naming the current
// status unless it is one of want.
func (l *Loan) EnsureStatus(want ...Status) error {
	for _, s := range want {
		if l.Status == s {
			return nil
		}
	}
	return fault.New(fault.InvalidTransition, "loan %s is %s", l.LoanID, l.Status)
}

// ApplyRepaid updates the repayment totals after an allocation. The
// outstanding balance is floored at zero and completion is forward-only.
func (l *Loan) ApplyRepaid(amount decimal.Decimal, at time.Time) {
	l.AmountRepaid = l.AmountRepaid.Add(amount)
	l.OutstandingBalance = l.TotalRepayment.Sub(l.AmountRepaid)
	if l.OutstandingBalance.IsNegative() {
		l.OutstandingBalance = decimal.Zero
	}
	if l.OutstandingBalance.IsZero() {
		if l.CompletedAt == nil {
			t := at
			l.CompletedAt = &t
		}
		l.Status = StatusCompleted
		return
	}
	l.Status = StatusRepaying
}
