package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ScheduleStatus string

const (
	SchedulePending ScheduleStatus = "pending"
	SchedulePartial ScheduleStatus = "partial"
	SchedulePaid    ScheduleStatus = "paid"
)

// ScheduleRow is one installment of a disbursed loan. Rows are created once,
// atomically, at disbursement; only the repayment processor mutates the paid
// fields afterwards.
type ScheduleRow struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ScheduleID string `gorm:"column:schedule_id;type:char(32);not null;uniqueIndex" json:"schedule_id"`
	// FK to loans.id (numeric)
	LoanID uint64 `gorm:"column:loan_id;not null;index;uniqueIndex:ux_schedules_loan_number" json:"-"`
	Number int    `gorm:"column:installment_number;not null;uniqueIndex:ux_schedules_loan_number" json:"installment_number"`

	DueDate   time.Time       `gorm:"column:due_date;not null" json:"due_date"`
	Principal decimal.Decimal `gorm:"column:principal_amount;type:decimal(18,2);not null" json:"principal_amount"`
	Interest  decimal.Decimal `gorm:"column:interest_amount;type:decimal(18,2);not null" json:"interest_amount"`
	Total     decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null" json:"total_amount"`

	Paid   decimal.Decimal `gorm:"column:paid_amount;type:decimal(18,2);not null;default:0" json:"paid_amount"`
	Status ScheduleStatus  `gorm:"column:status;type:varchar(10);not null;default:'pending'" json:"status"`
	PaidAt *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (ScheduleRow) TableName() string { return "loan_repayment_schedules" }

// Due is the unpaid remainder of this installment.
func (r *ScheduleRow) Due() decimal.Decimal { return r.Total.Sub(r.Paid) }
