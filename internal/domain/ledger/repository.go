package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Create appends one entry. There is no update or delete.
	Create(ctx context.Context, e *Entry) error

	// HasRecentRepayment reports whether a loan_repayment entry with this
	// reference and the identical amount exists at or after since. Backs the
	// duplicate-submission window.
	HasRecentRepayment(ctx context.Context, reference string, amount decimal.Decimal, since time.Time) (bool, error)

	// LatestBalance returns the best-effort running balance for a
	// cooperative (zero when the ledger is empty).
	LatestBalance(ctx context.Context, cooperativeID string) (decimal.Decimal, error)

	ListByMember(ctx context.Context, cooperativeID, memberID string) ([]Entry, error)
}
