package mysql

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM, no decimal types) ---
// Decimal columns are plain text; shopspring decimal scans them fine.

type loanSQLite struct {
	ID                      uint64         `gorm:"primaryKey;column:id"`
	LoanID                  string         `gorm:"size:32;column:loan_id"`
	CooperativeID           string         `gorm:"size:32;column:cooperative_id"`
	MemberID                string         `gorm:"size:32;column:member_id"`
	LoanTypeID              *uint64        `gorm:"column:loan_type_id"`
	Amount                  string         `gorm:"column:amount"`
	Purpose                 string         `gorm:"column:purpose"`
	DurationMonths          int            `gorm:"column:duration_months"`
	RatePercent             string         `gorm:"column:rate_percent"`
	Mode                    string         `gorm:"column:interest_mode"`
	InterestAmount          string         `gorm:"column:interest_amount"`
	MonthlyRepayment        string         `gorm:"column:monthly_repayment"`
	TotalRepayment          string         `gorm:"column:total_repayment"`
	OutstandingBalance      string         `gorm:"column:outstanding_balance"`
	AmountRepaid            string         `gorm:"column:amount_repaid"`
	Status                  string         `gorm:"type:text;column:status"`
	InitiatorKind           string         `gorm:"column:initiator_kind"`
	InitiatedBy             string         `gorm:"column:initiated_by"`
	ApplicationFee          string         `gorm:"column:application_fee"`
	InterestDeductedUpfront string         `gorm:"column:interest_deducted_upfront"`
	NetDisbursement         string         `gorm:"column:net_disbursement"`
	AmountDisbursed         string         `gorm:"column:amount_disbursed"`
	DeductionStartDate      *time.Time     `gorm:"column:deduction_start_date"`
	RequestedAt             time.Time      `gorm:"column:requested_at"`
	ReviewedAt              *time.Time     `gorm:"column:reviewed_at"`
	DisbursedAt             *time.Time     `gorm:"column:disbursed_at"`
	CompletedAt             *time.Time     `gorm:"column:completed_at"`
	CreatedAt               time.Time      `gorm:"column:created_at"`
	UpdatedAt               time.Time      `gorm:"column:updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (loanSQLite) TableName() string { return "loans" }

type guarantorSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	GuarantorID     string         `gorm:"size:32;column:guarantor_id"`
	LoanID          uint64         `gorm:"column:loan_id"`
	MemberID        string         `gorm:"size:32;column:member_id"`
	Status          string         `gorm:"type:text;column:status"`
	RespondedAt     *time.Time     `gorm:"column:responded_at"`
	RejectionReason string         `gorm:"column:rejection_reason"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (guarantorSQLite) TableName() string { return "loan_guarantors" }

type scheduleSQLite struct {
	ID         uint64         `gorm:"primaryKey;column:id"`
	ScheduleID string         `gorm:"size:32;column:schedule_id"`
	LoanID     uint64         `gorm:"column:loan_id"`
	Number     int            `gorm:"column:installment_number"`
	DueDate    time.Time      `gorm:"column:due_date"`
	Principal  string         `gorm:"column:principal_amount"`
	Interest   string         `gorm:"column:interest_amount"`
	Total      string         `gorm:"column:total_amount"`
	Paid       string         `gorm:"column:paid_amount"`
	Status     string         `gorm:"type:text;column:status"`
	PaidAt     *time.Time     `gorm:"column:paid_at"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (scheduleSQLite) TableName() string { return "loan_repayment_schedules" }

type approvalSQLite struct {
	ID         uint64         `gorm:"primaryKey;column:id"`
	ApprovalID string         `gorm:"size:32;column:approval_id"`
	LoanID     uint64         `gorm:"column:loan_id"`
	ApproverID string         `gorm:"size:32;column:approver_id"`
	Note       string         `gorm:"column:note"`
	DecidedAt  time.Time      `gorm:"column:decided_at"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (approvalSQLite) TableName() string { return "loan_approvals" }

type loanTypeSQLite struct {
	ID                        uint64         `gorm:"primaryKey;column:id"`
	LoanTypeID                string         `gorm:"size:32;column:loan_type_id"`
	CooperativeID             string         `gorm:"size:32;column:cooperative_id"`
	Name                      string         `gorm:"column:name"`
	Description               string         `gorm:"column:description"`
	MinAmount                 string         `gorm:"column:min_amount"`
	MaxAmount                 string         `gorm:"column:max_amount"`
	MinDurationMonths         int            `gorm:"column:min_duration_months"`
	MaxDurationMonths         int            `gorm:"column:max_duration_months"`
	RatePercent               string         `gorm:"column:rate_percent"`
	Mode                      string         `gorm:"column:interest_mode"`
	MaxActiveLoans            int            `gorm:"column:max_active_loans"`
	RequiresGuarantors        bool           `gorm:"column:requires_guarantors"`
	MinGuarantors             int            `gorm:"column:min_guarantors"`
	RequiresMultipleApprovals bool           `gorm:"column:requires_multiple_approvals"`
	MinApprovers              int            `gorm:"column:min_approvers"`
	ApplicationFee            string         `gorm:"column:application_fee"`
	DeductInterestUpfront     bool           `gorm:"column:deduct_interest_upfront"`
	Active                    bool           `gorm:"column:active"`
	CreatedAt                 time.Time      `gorm:"column:created_at"`
	UpdatedAt                 time.Time      `gorm:"column:updated_at"`
	DeletedAt                 gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (loanTypeSQLite) TableName() string { return "loan_types" }

type repaymentSQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	RepaymentID     string         `gorm:"size:32;column:repayment_id"`
	LoanID          uint64         `gorm:"column:loan_id"`
	CooperativeID   string         `gorm:"size:32;column:cooperative_id"`
	MemberID        string         `gorm:"size:32;column:member_id"`
	Amount          string         `gorm:"column:amount"`
	Method          string         `gorm:"column:payment_method"`
	PaidAt          time.Time      `gorm:"column:paid_at"`
	Receipt         string         `gorm:"column:receipt_reference"`
	SubmittedBy     string         `gorm:"size:32;column:submitted_by"`
	Status          string         `gorm:"type:text;column:status"`
	ReviewedBy      *string        `gorm:"column:reviewed_by"`
	ReviewedAt      *time.Time     `gorm:"column:reviewed_at"`
	RejectionReason string         `gorm:"column:rejection_reason"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (repaymentSQLite) TableName() string { return "loan_repayments" }

type ledgerSQLite struct {
	ID            uint64    `gorm:"primaryKey;column:id"`
	EntryID       string    `gorm:"size:36;column:entry_id"`
	CooperativeID string    `gorm:"size:32;column:cooperative_id"`
	MemberID      string    `gorm:"size:32;column:member_id"`
	Type          string    `gorm:"type:text;column:entry_type"`
	Amount        string    `gorm:"column:amount"`
	BalanceAfter  string    `gorm:"column:balance_after"`
	Reference     string    `gorm:"column:reference"`
	CreatedBy     string    `gorm:"size:32;column:created_by"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (ledgerSQLite) TableName() string { return "ledger_entries" }

type memberSQLite struct {
	ID            uint64 `gorm:"primaryKey;column:id"`
	MemberID      string `gorm:"size:32;column:member_id"`
	UserID        string `gorm:"size:32;column:user_id"`
	CooperativeID string `gorm:"size:32;column:cooperative_id"`
	Name          string `gorm:"column:name"`
	Email         string `gorm:"column:email"`
	Role          string `gorm:"column:role"`
	Permissions   string `gorm:"column:permissions"`
	Active        bool   `gorm:"column:active"`
}

func (memberSQLite) TableName() string { return "members" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schema, never the domain models.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&loanSQLite{}, &guarantorSQLite{}, &scheduleSQLite{},
		&approvalSQLite{}, &loanTypeSQLite{}, &repaymentSQLite{},
		&ledgerSQLite{}, &memberSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
