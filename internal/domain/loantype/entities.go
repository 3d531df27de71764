package loantype

import (
	"time"

	"coopfin-backend/internal/domain/finance"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoanType is the policy template new loans are requested against. It is
// immutable from the loan engine's point of view: loans copy its figures at
// request time, and administrative updates never rewrite existing loans.
type LoanType struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LoanTypeID string `gorm:"column:loan_type_id;type:char(32);not null;uniqueIndex" json:"loan_type_id"`

	CooperativeID string `gorm:"column:cooperative_id;type:char(32);not null;index" json:"cooperative_id"`
	Name          string `gorm:"column:name;size:120;not null" json:"name"`
	Description   string `gorm:"column:description;type:text" json:"description,omitempty"`

	MinAmount         decimal.Decimal `gorm:"column:min_amount;type:decimal(18,2);not null" json:"min_amount"`
	MaxAmount         decimal.Decimal `gorm:"column:max_amount;type:decimal(18,2);not null" json:"max_amount"`
	MinDurationMonths int             `gorm:"column:min_duration_months;not null" json:"min_duration_months"`
	MaxDurationMonths int             `gorm:"column:max_duration_months;not null" json:"max_duration_months"`

	RatePercent decimal.Decimal `gorm:"column:rate_percent;type:decimal(6,2);not null" json:"rate_percent"`
	Mode        finance.Mode    `gorm:"column:interest_mode;type:varchar(20);not null" json:"interest_mode"`

	MaxActiveLoans int `gorm:"column:max_active_loans;not null;default:1" json:"max_active_loans"`

	RequiresGuarantors bool `gorm:"column:requires_guarantors;not null;default:false" json:"requires_guarantors"`
	MinGuarantors      int  `gorm:"column:min_guarantors;not null;default:0" json:"min_guarantors"`

	RequiresMultipleApprovals bool `gorm:"column:requires_multiple_approvals;not null;default:false" json:"requires_multiple_approvals"`
	MinApprovers              int  `gorm:"column:min_approvers;not null;default:1" json:"min_approvers"`

	ApplicationFee        decimal.Decimal `gorm:"column:application_fee;type:decimal(18,2);not null;default:0" json:"application_fee"`
	DeductInterestUpfront bool            `gorm:"column:deduct_interest_upfront;not null;default:false" json:"deduct_interest_upfront"`

	Active bool `gorm:"column:active;not null;default:true" json:"active"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (LoanType) TableName() string { return "loan_types" }

// Policy is the immutable slice of a loan type the workflows consume. The
// interest calculator and approval workflow take it as an explicit argument
// so both stay pure and testable.
type Policy struct {
	RatePercent           decimal.Decimal
	Mode                  finance.Mode
	DeductInterestUpfront bool
	ApplicationFee        decimal.Decimal

	MinAmount   decimal.Decimal
	MaxAmount   decimal.Decimal
	MinDuration int
	MaxDuration int

	MaxActiveLoans int

	RequiresGuarantors bool
	MinGuarantors      int

	RequiresMultipleApprovals bool
	MinApprovers              int
}

func (t *LoanType) Policy() Policy {
	return Policy{
		RatePercent:               t.RatePercent,
		Mode:                      t.Mode,
		DeductInterestUpfront:     t.DeductInterestUpfront,
		ApplicationFee:            t.ApplicationFee,
		MinAmount:                 t.MinAmount,
		MaxAmount:                 t.MaxAmount,
		MinDuration:               t.MinDurationMonths,
		MaxDuration:               t.MaxDurationMonths,
		MaxActiveLoans:            t.MaxActiveLoans,
		RequiresGuarantors:        t.RequiresGuarantors,
		MinGuarantors:             t.MinGuarantors,
		RequiresMultipleApprovals: t.RequiresMultipleApprovals,
		MinApprovers:              t.MinApprovers,
	}
}

// ApproverQuorum is the number of distinct approvals needed before a loan
// flips to approved.
func (p Policy) ApproverQuorum() int {
	if !p.RequiresMultipleApprovals || p.MinApprovers < 1 {
		return 1
	}
	return p.MinApprovers
}

// GuarantorQuorum is the number of guarantor approvals needed before the
// loan is surfaced for review; zero when guarantors are not required.
func (p Policy) GuarantorQuorum() int {
	if !p.RequiresGuarantors {
		return 0
	}
	if p.MinGuarantors < 1 {
		return 1
	}
	return p.MinGuarantors
}
