package loan

import (
	"time"

	"gorm.io/gorm"
)

type GuarantorStatus string

const (
	GuarantorPending  GuarantorStatus = "pending"
	GuarantorApproved GuarantorStatus = "approved"
	GuarantorRejected GuarantorStatus = "rejected"
)

// Guarantor is one (loan, guarantor member) row. The set is fixed at
// request time; only the status side transitions, once, to a terminal value.
type Guarantor struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	GuarantorID string `gorm:"column:guarantor_id;type:char(32);not null;uniqueIndex" json:"guarantor_id"`
	// FK to loans.id (numeric)
	LoanID   uint64 `gorm:"column:loan_id;not null;index;uniqueIndex:ux_guarantors_loan_member" json:"-"`
	MemberID string `gorm:"column:member_id;type:char(32);not null;uniqueIndex:ux_guarantors_loan_member" json:"member_id"`

	Status          GuarantorStatus `gorm:"column:status;type:varchar(10);not null;default:'pending'" json:"status"`
	RespondedAt     *time.Time      `gorm:"column:responded_at" json:"responded_at,omitempty"`
	RejectionReason string          `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Guarantor) TableName() string { return "loan_guarantors" }

func (g *Guarantor) Responded() bool { return g.Status != GuarantorPending }
