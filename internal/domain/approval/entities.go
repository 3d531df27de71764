package approval

import (
	"time"

	"gorm.io/gorm"
)

// Approval is one approver's recorded decision on a loan. Rows are
// append-only; the unique (loan, approver) index enforces at most one
// decision per approver at the storage layer as well.
type Approval struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	ApprovalID string `gorm:"column:approval_id;type:char(32);not null;uniqueIndex" json:"approval_id"`
	// FK to loans.id (numeric)
	LoanID     uint64 `gorm:"column:loan_id;not null;index;uniqueIndex:ux_approvals_loan_approver" json:"-"`
	ApproverID string `gorm:"column:approver_id;type:char(32);not null;uniqueIndex:ux_approvals_loan_approver" json:"approver_id"`

	Note      string         `gorm:"column:note;type:text" json:"note,omitempty"`
	DecidedAt time.Time      `gorm:"column:decided_at;not null" json:"decided_at"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Approval) TableName() string { return "loan_approvals" }
