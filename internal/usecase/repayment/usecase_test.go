package repayment

import (
	"context"
	"testing"
	"time"

	"coopfin-backend/internal/domain/fault"
	"coopfin-backend/internal/domain/ledger"
	domainLoan "coopfin-backend/internal/domain/loan"
	"coopfin-backend/internal/domain/member"
	domain "coopfin-backend/internal/domain/repayment"
	"coopfin-backend/internal/domain/uow"
	"coopfin-backend/internal/testutil/ledgermock"
	"coopfin-backend/internal/testutil/loanmock"
	"coopfin-backend/internal/testutil/membermock"
	"coopfin-backend/internal/testutil/notifymock"
	"coopfin-backend/internal/testutil/repaymentmock"
	"coopfin-backend/internal/testutil/uowmock"

	"github.com/shopspring/decimal"
)

const coopID = "cccccccccccccccccccccccccccccccc"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func borrower() *member.Member {
	return &member.Member{
		MemberID:      "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		UserID:        "borrower-user",
		CooperativeID: coopID,
		Name:          "Budi",
		Email:         "budi@example.com",
		Role:          "member",
		Active:        true,
	}
}

func treasurer() *member.Member {
	return &member.Member{
		MemberID:      "tttttttttttttttttttttttttttttttt",
		UserID:        "treasurer-user",
		CooperativeID: coopID,
		Role:          "treasurer",
		Active:        true,
	}
}

func disbursedLoan() *domainLoan.Loan {
	return &domainLoan.Loan{
		ID:                 42,
		LoanID:             "llllllllllllllllllllllllllllllll",
		CooperativeID:      coopID,
		MemberID:           "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		TotalRepayment:     dec("7000"),
		OutstandingBalance: dec("7000"),
		AmountRepaid:       decimal.Zero,
		Status:             domainLoan.StatusDisbursed,
	}
}

func twoRowSchedule() []domainLoan.ScheduleRow {
	return []domainLoan.ScheduleRow{
		{ID: 1, LoanID: 42, Number: 1, Total: dec("3000"), Paid: decimal.Zero, Status: domainLoan.SchedulePending},
		{ID: 2, LoanID: 42, Number: 2, Total: dec("4000"), Paid: decimal.Zero, Status: domainLoan.SchedulePending},
	}
}

func loanTx(repos uow.Repos, l *domainLoan.Loan) *uowmock.UoW {
	return uowmock.New().WithWithinLoanTx(func(ctx context.Context, loanID string, fn func(uow.Repos, *domainLoan.Loan) error) error {
		return fn(repos, l)
	})
}

func TestRecord_Direct_AllocatesOldestFirst(t *testing.T) {
	l := disbursedLoan()
	rows := twoRowSchedule()

	var savedRows []domainLoan.ScheduleRow
	schedules := &loanmock.ScheduleRepo{
		ListByLoanForUpdateFn: func(ctx context.Context, loanID uint64) ([]domainLoan.ScheduleRow, error) {
			return rows, nil
		},
		SaveFn: func(ctx context.Context, row *domainLoan.ScheduleRow) error {
			savedRows = append(savedRows, *row)
			return nil
		},
	}
	var entry *ledger.Entry
	entries := &ledgermock.Repo{
		CreateFn: func(ctx context.Context, e *ledger.Entry) error {
			entry = e
			return nil
		},
	}
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) { return l, nil },
	}
	notifier := &notifymock.Notifier{}

	uc := NewUsecase(loans, &repaymentmock.Repo{}, entries,
		loanTx(uow.Repos{Loans: loans, Schedules: schedules, Ledger: entries}, l),
		membermock.Static(treasurer()), notifier, &notifymock.Mailer{})

	dto, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "treasurer-user", Amount: dec("5000"),
	})
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if dto.Outcome != OutcomeApplied {
		t.Fatalf("outcome=%s", dto.Outcome)
	}
	if !dto.Allocated.Equal(dec("5000")) || !dto.Unallocated.IsZero() {
		t.Fatalf("allocated=%s unallocated=%s", dto.Allocated, dto.Unallocated)
	}
	if len(savedRows) != 2 {
		t.Fatalf("rows saved: %d", len(savedRows))
	}
	if savedRows[0].Status != domainLoan.SchedulePaid || !savedRows[0].Paid.Equal(dec("3000")) {
		t.Fatalf("row 1: %+v", savedRows[0])
	}
	if savedRows[1].Status != domainLoan.SchedulePartial || !savedRows[1].Paid.Equal(dec("2000")) {
		t.Fatalf("row 2: %+v", savedRows[1])
	}
	if !l.OutstandingBalance.Equal(dec("2000")) || l.Status != domainLoan.StatusRepaying {
		t.Fatalf("loan: outstanding=%s status=%s", l.OutstandingBalance, l.Status)
	}
	if entry == nil || !entry.Amount.Equal(dec("5000")) || entry.Type != ledger.TypeLoanRepayment {
		t.Fatalf("ledger entry: %+v", entry)
	}
	if len(notifier.Direct) != 1 {
		t.Fatalf("borrower not notified: %d", len(notifier.Direct))
	}
}

func TestRecord_Direct_FinalPaymentCompletesLoan(t *testing.T) {
	l := disbursedLoan()
	rows := twoRowSchedule()

	schedules := &loanmock.ScheduleRepo{
		ListByLoanForUpdateFn: func(ctx context.Context, loanID uint64) ([]domainLoan.ScheduleRow, error) {
			return rows, nil
		},
	}
	entries := &ledgermock.Repo{}
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) { return l, nil },
	}
	notifier := &notifymock.Notifier{}

	uc := NewUsecase(loans, &repaymentmock.Repo{}, entries,
		loanTx(uow.Repos{Loans: loans, Schedules: schedules, Ledger: entries}, l),
		membermock.Static(treasurer()), notifier, &notifymock.Mailer{})

	dto, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "treasurer-user", Amount: dec("7000"),
	})
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if dto.LoanStatus != string(domainLoan.StatusCompleted) {
		t.Fatalf("loan status=%s", dto.LoanStatus)
	}
	if !dto.Outstanding.IsZero() {
		t.Fatalf("outstanding=%s", dto.Outstanding)
	}
	if l.CompletedAt == nil {
		t.Fatalf("completion timestamp not set")
	}
	if len(notifier.Direct) != 1 {
		t.Fatalf("completion notification missing")
	}
}

func TestRecord_Direct_OverpaymentReturnsUnallocated(t *testing.T) {
	l := disbursedLoan()
	rows := twoRowSchedule()

	schedules := &loanmock.ScheduleRepo{
		ListByLoanForUpdateFn: func(ctx context.Context, loanID uint64) ([]domainLoan.ScheduleRow, error) {
			return rows, nil
		},
	}
	var entry *ledger.Entry
	entries := &ledgermock.Repo{
		CreateFn: func(ctx context.Context, e *ledger.Entry) error {
			entry = e
			return nil
		},
	}
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) { return l, nil },
	}

	uc := NewUsecase(loans, &repaymentmock.Repo{}, entries,
		loanTx(uow.Repos{Loans: loans, Schedules: schedules, Ledger: entries}, l),
		membermock.Static(treasurer()), &notifymock.Notifier{}, &notifymock.Mailer{})

	dto, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "treasurer-user", Amount: dec("10000"),
	})
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if !dto.Allocated.Equal(dec("7000")) || !dto.Unallocated.Equal(dec("3000")) {
		t.Fatalf("allocated=%s unallocated=%s", dto.Allocated, dto.Unallocated)
	}
	// only the allocated part hits the books
	if entry == nil || !entry.Amount.Equal(dec("7000")) {
		t.Fatalf("ledger entry: %+v", entry)
	}
	if dto.LoanStatus != string(domainLoan.StatusCompleted) {
		t.Fatalf("loan status=%s", dto.LoanStatus)
	}
}

func TestRecord_SelfReport_ParksPendingSubmission(t *testing.T) {
	l := disbursedLoan()

	var created *domain.Repayment
	reps := &repaymentmock.Repo{
		CreateFn: func(ctx context.Context, rp *domain.Repayment) error {
			created = rp
			return nil
		},
		ListByLoanFn: func(ctx context.Context, loanID uint64) ([]domain.Repayment, error) { return nil, nil },
	}
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) { return l, nil },
	}
	schedules := &loanmock.ScheduleRepo{
		ListByLoanForUpdateFn: func(context.Context, uint64) ([]domainLoan.ScheduleRow, error) {
			t.Fatalf("self-report must not touch the schedule")
			return nil, nil
		},
	}
	notifier := &notifymock.Notifier{}
	mailer := &notifymock.Mailer{}

	uc := NewUsecase(loans, reps, &ledgermock.Repo{},
		loanTx(uow.Repos{Loans: loans, Schedules: schedules}, l),
		membermock.Static(borrower()), notifier, mailer)

	dto, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "borrower-user",
		Amount: dec("3000"), Method: "bank_transfer",
	})
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if dto.Outcome != OutcomePendingConfirmation {
		t.Fatalf("outcome=%s", dto.Outcome)
	}
	if dto.RepaymentID == "" {
		t.Fatalf("repayment id missing")
	}
	if created == nil || created.Status != domain.StatusPending || !created.Amount.Equal(dec("3000")) {
		t.Fatalf("submission: %+v", created)
	}
	// loan untouched
	if !l.OutstandingBalance.Equal(dec("7000")) || l.Status != domainLoan.StatusDisbursed {
		t.Fatalf("loan moved on self-report: %+v", l)
	}
	if len(notifier.Admin) != 1 || len(notifier.Direct) != 1 {
		t.Fatalf("notifications: admin=%d direct=%d", len(notifier.Admin), len(notifier.Direct))
	}
	if len(mailer.Sends) != 1 {
		t.Fatalf("mail: %d", len(mailer.Sends))
	}
}

func TestRecord_DuplicateInLedgerWindow_Conflict(t *testing.T) {
	l := disbursedLoan()
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) { return l, nil },
	}
	entries := &ledgermock.Repo{
		HasRecentRepaymentFn: func(ctx context.Context, ref string, amount decimal.Decimal, since time.Time) (bool, error) {
			if ref != ledger.LoanReference(l.LoanID) {
				t.Fatalf("reference=%s", ref)
			}
			return true, nil
		},
	}

	uc := NewUsecase(loans, &repaymentmock.Repo{}, entries, uowmock.New(),
		membermock.Static(treasurer()), &notifymock.Notifier{}, &notifymock.Mailer{})

	_, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "treasurer-user", Amount: dec("3000"),
	})
	if !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("want Conflict fault, got %v", err)
	}
}

func TestRecord_SelfReportDoubleTap_Conflict(t *testing.T) {
	l := disbursedLoan()
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) { return l, nil },
	}
	// the first report is still pending, so nothing is in the ledger yet
	reps := &repaymentmock.Repo{
		ListByLoanFn: func(ctx context.Context, loanID uint64) ([]domain.Repayment, error) {
			return []domain.Repayment{{
				RepaymentID: "first", LoanID: 42, Amount: dec("3000"),
				Status: domain.StatusPending, CreatedAt: time.Now().UTC().Add(-90 * time.Second),
			}}, nil
		},
		CreateFn: func(context.Context, *domain.Repayment) error {
			t.Fatalf("second submission must not be created")
			return nil
		},
	}

	uc := NewUsecase(loans, reps, &ledgermock.Repo{}, uowmock.New(),
		membermock.Static(borrower()), &notifymock.Notifier{}, &notifymock.Mailer{})

	_, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "borrower-user", Amount: dec("3000"),
	})
	if !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("want Conflict fault, got %v", err)
	}
}

func TestRecord_DifferentAmountInsideWindow_Allowed(t *testing.T) {
	l := disbursedLoan()
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) { return l, nil },
	}
	reps := &repaymentmock.Repo{
		ListByLoanFn: func(ctx context.Context, loanID uint64) ([]domain.Repayment, error) {
			return []domain.Repayment{{
				RepaymentID: "first", LoanID: 42, Amount: dec("3000"),
				Status: domain.StatusPending, CreatedAt: time.Now().UTC().Add(-90 * time.Second),
			}}, nil
		},
	}

	uc := NewUsecase(loans, reps, &ledgermock.Repo{}, uowmock.New(),
		membermock.Static(borrower()), &notifymock.Notifier{}, &notifymock.Mailer{})

	dto, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "borrower-user", Amount: dec("4500"),
	})
	if err != nil {
		t.Fatalf("Record err: %v", err)
	}
	if dto.Outcome != OutcomePendingConfirmation {
		t.Fatalf("outcome=%s", dto.Outcome)
	}
}

func TestRecord_NonPositiveAmount(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, &repaymentmock.Repo{}, &ledgermock.Repo{}, uowmock.New(),
		membermock.Static(treasurer()), &notifymock.Notifier{}, &notifymock.Mailer{})

	_, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: "llllllllllllllllllllllllllllllll",
		ActorUserID: "treasurer-user", Amount: decimal.Zero,
	})
	if !fault.IsKind(err, fault.Validation) {
		t.Fatalf("want Validation fault, got %v", err)
	}
}

func TestRecord_StrangerOnSomeoneElsesLoan_Forbidden(t *testing.T) {
	l := disbursedLoan()
	stranger := borrower()
	stranger.MemberID = "ssssssssssssssssssssssssssssssss"

	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) { return l, nil },
	}
	uc := NewUsecase(loans, &repaymentmock.Repo{}, &ledgermock.Repo{}, uowmock.New(),
		membermock.Static(stranger), &notifymock.Notifier{}, &notifymock.Mailer{})

	_, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "borrower-user", Amount: dec("3000"),
	})
	if !fault.IsKind(err, fault.Forbidden) {
		t.Fatalf("want Forbidden fault, got %v", err)
	}
}

func TestRecord_PendingLoan_InvalidTransition(t *testing.T) {
	l := disbursedLoan()
	l.Status = domainLoan.StatusPending
	loans := &loanmock.Repo{
		GetByLoanIDFn: func(ctx context.Context, loanID string) (*domainLoan.Loan, error) { return l, nil },
	}
	uc := NewUsecase(loans, &repaymentmock.Repo{}, &ledgermock.Repo{}, uowmock.New(),
		membermock.Static(treasurer()), &notifymock.Notifier{}, &notifymock.Mailer{})

	_, err := uc.Record(context.Background(), RecordInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "treasurer-user", Amount: dec("3000"),
	})
	if !fault.IsKind(err, fault.InvalidTransition) {
		t.Fatalf("want InvalidTransition fault, got %v", err)
	}
}

func TestReview_Confirm_AppliesReportedAmount(t *testing.T) {
	l := disbursedLoan()
	rows := twoRowSchedule()
	rp := &domain.Repayment{
		RepaymentID: "rprprprprprprprprprprprprprprprp", LoanID: 42,
		CooperativeID: coopID, MemberID: l.MemberID,
		Amount: dec("3000"), SubmittedBy: l.MemberID, Status: domain.StatusPending,
	}

	var savedRepayment *domain.Repayment
	reps := &repaymentmock.Repo{
		GetByRepaymentIDForUpdateFn: func(ctx context.Context, id string) (*domain.Repayment, error) { return rp, nil },
		SaveFn: func(ctx context.Context, got *domain.Repayment) error {
			savedRepayment = got
			return nil
		},
	}
	loans := &loanmock.Repo{
		GetByIDForUpdateFn: func(ctx context.Context, id uint64) (*domainLoan.Loan, error) {
			if id != 42 {
				t.Fatalf("loan id=%d", id)
			}
			return l, nil
		},
	}
	schedules := &loanmock.ScheduleRepo{
		ListByLoanForUpdateFn: func(ctx context.Context, loanID uint64) ([]domainLoan.ScheduleRow, error) {
			return rows, nil
		},
	}
	entries := &ledgermock.Repo{}
	repos := uow.Repos{Loans: loans, Schedules: schedules, Repayments: reps, Ledger: entries}
	tx := uowmock.New().WithWithinTx(func(ctx context.Context, fn func(uow.Repos) error) error {
		return fn(repos)
	})
	notifier := &notifymock.Notifier{}

	uc := NewUsecase(loans, reps, entries, tx, membermock.Static(treasurer()), notifier, &notifymock.Mailer{})

	dto, err := uc.Review(context.Background(), ReviewInput{
		CooperativeID: coopID, RepaymentID: rp.RepaymentID, ActorUserID: "treasurer-user", Confirm: true,
	})
	if err != nil {
		t.Fatalf("Review err: %v", err)
	}
	if dto.Status != string(domain.StatusConfirmed) {
		t.Fatalf("status=%s", dto.Status)
	}
	if !dto.Allocated.Equal(dec("3000")) {
		t.Fatalf("allocated=%s", dto.Allocated)
	}
	if savedRepayment == nil || savedRepayment.ReviewedBy == nil || savedRepayment.ReviewedAt == nil {
		t.Fatalf("review audit fields not set: %+v", savedRepayment)
	}
	if !l.OutstandingBalance.Equal(dec("4000")) {
		t.Fatalf("outstanding=%s", l.OutstandingBalance)
	}
	if len(notifier.Direct) != 1 {
		t.Fatalf("submitter not notified")
	}
}

func TestReview_Reject_MovesNoMoney(t *testing.T) {
	rp := &domain.Repayment{
		RepaymentID: "rprprprprprprprprprprprprprprprp", LoanID: 42,
		CooperativeID: coopID, Amount: dec("3000"),
		SubmittedBy: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Status: domain.StatusPending,
	}
	reps := &repaymentmock.Repo{
		GetByRepaymentIDForUpdateFn: func(ctx context.Context, id string) (*domain.Repayment, error) { return rp, nil },
	}
	loans := &loanmock.Repo{
		GetByIDForUpdateFn: func(context.Context, uint64) (*domainLoan.Loan, error) {
			t.Fatalf("rejecting must not lock the loan")
			return nil, nil
		},
	}
	repos := uow.Repos{Loans: loans, Repayments: reps}
	tx := uowmock.New().WithWithinTx(func(ctx context.Context, fn func(uow.Repos) error) error {
		return fn(repos)
	})
	notifier := &notifymock.Notifier{}

	uc := NewUsecase(loans, reps, &ledgermock.Repo{}, tx, membermock.Static(treasurer()), notifier, &notifymock.Mailer{})

	dto, err := uc.Review(context.Background(), ReviewInput{
		CooperativeID: coopID, RepaymentID: rp.RepaymentID, ActorUserID: "treasurer-user",
		Confirm: false, Reason: "no matching bank transfer",
	})
	if err != nil {
		t.Fatalf("Review err: %v", err)
	}
	if dto.Status != string(domain.StatusRejected) {
		t.Fatalf("status=%s", dto.Status)
	}
	if rp.RejectionReason != "no matching bank transfer" {
		t.Fatalf("reason=%s", rp.RejectionReason)
	}
	if len(notifier.Direct) != 1 {
		t.Fatalf("submitter not notified of rejection")
	}
}

func TestReview_RejectNeedsReason(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, &repaymentmock.Repo{}, &ledgermock.Repo{}, uowmock.New(),
		membermock.Static(treasurer()), &notifymock.Notifier{}, &notifymock.Mailer{})

	_, err := uc.Review(context.Background(), ReviewInput{
		CooperativeID: coopID, RepaymentID: "rprprprprprprprprprprprprprprprp",
		ActorUserID: "treasurer-user", Confirm: false,
	})
	if !fault.IsKind(err, fault.Validation) {
		t.Fatalf("want Validation fault, got %v", err)
	}
}

func TestReview_AlreadyResolved_Conflict(t *testing.T) {
	rp := &domain.Repayment{
		RepaymentID: "rprprprprprprprprprprprprprprprp", LoanID: 42,
		Amount: dec("3000"), Status: domain.StatusConfirmed,
	}
	reps := &repaymentmock.Repo{
		GetByRepaymentIDForUpdateFn: func(ctx context.Context, id string) (*domain.Repayment, error) { return rp, nil },
	}
	repos := uow.Repos{Repayments: reps}
	tx := uowmock.New().WithWithinTx(func(ctx context.Context, fn func(uow.Repos) error) error {
		return fn(repos)
	})

	uc := NewUsecase(&loanmock.Repo{}, reps, &ledgermock.Repo{}, tx,
		membermock.Static(treasurer()), &notifymock.Notifier{}, &notifymock.Mailer{})

	_, err := uc.Review(context.Background(), ReviewInput{
		CooperativeID: coopID, RepaymentID: rp.RepaymentID, ActorUserID: "treasurer-user", Confirm: true,
	})
	if !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("want Conflict fault, got %v", err)
	}
}

func TestReview_WithoutCapability_Forbidden(t *testing.T) {
	uc := NewUsecase(&loanmock.Repo{}, &repaymentmock.Repo{}, &ledgermock.Repo{}, uowmock.New(),
		membermock.Static(borrower()), &notifymock.Notifier{}, &notifymock.Mailer{})

	_, err := uc.Review(context.Background(), ReviewInput{
		CooperativeID: coopID, RepaymentID: "rprprprprprprprprprprprprprprprp",
		ActorUserID: "borrower-user", Confirm: true,
	})
	if !fault.IsKind(err, fault.Forbidden) {
		t.Fatalf("want Forbidden fault, got %v", err)
	}
}
