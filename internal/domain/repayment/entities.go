package repayment

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Repayment is a member's self-reported payment waiting for a reviewer.
// Money only moves when a reviewer confirms it; until then the schedule,
// loan totals and ledger are untouched.
type Repayment struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	RepaymentID string `gorm:"column:repayment_id;type:char(32);not null;uniqueIndex" json:"repayment_id"`
	// FK to loans.id (numeric)
	LoanID        uint64 `gorm:"column:loan_id;not null;index" json:"-"`
	CooperativeID string `gorm:"column:cooperative_id;type:char(32);not null;index" json:"cooperative_id"`
	MemberID      string `gorm:"column:member_id;type:char(32);not null" json:"member_id"`

	Amount  decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Method  string          `gorm:"column:payment_method;size:40" json:"payment_method"`
	PaidAt  time.Time       `gorm:"column:paid_at;not null" json:"paid_at"`
	Receipt string          `gorm:"column:receipt_reference;size:64" json:"receipt_reference,omitempty"`

	SubmittedBy string `gorm:"column:submitted_by;type:char(32);not null" json:"submitted_by"`
	Status      Status `gorm:"column:status;type:varchar(10);not null;default:'pending'" json:"status"`

	ReviewedBy      *string    `gorm:"column:reviewed_by;type:char(32)" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	RejectionReason string     `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Repayment) TableName() string { return "loan_repayments" }

func (r *Repayment) Resolved() bool { return r.Status != StatusPending }
