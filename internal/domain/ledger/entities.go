package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	TypeLoanDisbursement EntryType = "loan_disbursement"
	TypeLoanRepayment    EntryType = "loan_repayment"
	TypeManualCredit     EntryType = "manual_credit"
	TypeManualDebit      EntryType = "manual_debit"
	TypeContribution     EntryType = "contribution"
)

// Entry is one append-only money movement. Entries are never updated or
// deleted; BalanceAfter is a best-effort running figure, not authoritative.
type Entry struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	EntryID string `gorm:"column:entry_id;type:char(36);not null;uniqueIndex" json:"entry_id"`

	CooperativeID string `gorm:"column:cooperative_id;type:char(32);not null;index" json:"cooperative_id"`
	MemberID      string `gorm:"column:member_id;type:char(32);not null;index" json:"member_id"`

	Type EntryType `gorm:"column:entry_type;type:varchar(24);not null;index:idx_ledger_type_ref" json:"entry_type"`
	// signed: negative for money leaving the pool, positive for money entering
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"column:balance_after;type:decimal(18,2)" json:"balance_after"`

	// Reference ties the entry back to its source row, e.g. "loan:<loan_id>",
	// and deduplicates against derived entries.
	Reference string `gorm:"column:reference;size:64;not null;index:idx_ledger_type_ref" json:"reference"`
	CreatedBy string `gorm:"column:created_by;type:char(32);not null" json:"created_by"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (Entry) TableName() string { return "ledger_entries" }

// LoanReference is the canonical reference string for loan-scoped entries.
func LoanReference(loanID string) string { return fmt.Sprintf("loan:%s", loanID) }
