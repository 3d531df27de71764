package approval

import (
	"context"
	"testing"

	domainApproval "coopfin-backend/internal/domain/approval"
	"coopfin-backend/internal/domain/fault"
	domainLoan "coopfin-backend/internal/domain/loan"
	"coopfin-backend/internal/domain/loantype"
	"coopfin-backend/internal/domain/member"
	"coopfin-backend/internal/domain/uow"
	"coopfin-backend/internal/testutil/approvalmock"
	"coopfin-backend/internal/testutil/loanmock"
	"coopfin-backend/internal/testutil/loantypemock"
	"coopfin-backend/internal/testutil/membermock"
	"coopfin-backend/internal/testutil/notifymock"
	"coopfin-backend/internal/testutil/uowmock"

	"gorm.io/gorm"
)

const coopID = "cccccccccccccccccccccccccccccccc"

func approver(memberID, userID string) *member.Member {
	return &member.Member{
		MemberID:      memberID,
		UserID:        userID,
		CooperativeID: coopID,
		Role:          "admin",
		Active:        true,
	}
}

func pendingLoan(typeID *uint64) *domainLoan.Loan {
	return &domainLoan.Loan{
		ID:            42,
		LoanID:        "llllllllllllllllllllllllllllllll",
		CooperativeID: coopID,
		MemberID:      "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		LoanTypeID:    typeID,
		Status:        domainLoan.StatusPending,
	}
}

// loanTx builds a UoW whose WithinLoanTx hands fn the given repos and loan.
func loanTx(repos uow.Repos, l *domainLoan.Loan) *uowmock.UoW {
	return uowmock.New().WithWithinLoanTx(func(ctx context.Context, loanID string, fn func(uow.Repos, *domainLoan.Loan) error) error {
		return fn(repos, l)
	})
}

func TestApprove_SingleApprover_FlipsLoan(t *testing.T) {
	l := pendingLoan(nil)
	var saved *domainLoan.Loan
	loans := &loanmock.Repo{
		SaveFn: func(ctx context.Context, got *domainLoan.Loan) error {
			saved = got
			return nil
		},
	}
	apprs := &approvalmock.Repo{
		GetByLoanAndApproverFn: func(context.Context, uint64, string) (*domainApproval.Approval, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CountByLoanFn: func(context.Context, uint64) (int64, error) { return 1, nil },
	}

	uc := NewUsecase(loanTx(uow.Repos{Loans: loans, Approvals: apprs}, l),
		membermock.Static(approver("a1", "a1-user")), &notifymock.Notifier{})

	dto, err := uc.Approve(context.Background(), ApproveInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "a1-user",
	})
	if err != nil {
		t.Fatalf("Approve err: %v", err)
	}
	if dto.LoanStatus != string(domainLoan.StatusApproved) {
		t.Fatalf("loan status=%s", dto.LoanStatus)
	}
	if dto.ApprovalsRecorded != 1 || dto.ApprovalsRequired != 1 {
		t.Fatalf("quorum: %d/%d", dto.ApprovalsRecorded, dto.ApprovalsRequired)
	}
	if saved == nil || saved.ReviewedAt == nil {
		t.Fatalf("loan not saved with review timestamp")
	}
}

func TestApprove_MultiApprover_StaysPendingUntilQuorum(t *testing.T) {
	lt := &loantype.LoanType{ID: 7, RequiresMultipleApprovals: true, MinApprovers: 2}
	typeID := lt.ID
	l := pendingLoan(&typeID)

	loans := &loanmock.Repo{
		SaveFn: func(context.Context, *domainLoan.Loan) error {
			t.Fatalf("loan must not be saved below quorum")
			return nil
		},
	}
	apprs := &approvalmock.Repo{
		GetByLoanAndApproverFn: func(context.Context, uint64, string) (*domainApproval.Approval, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CountByLoanFn: func(context.Context, uint64) (int64, error) { return 1, nil },
	}
	types := &loantypemock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*loantype.LoanType, error) { return lt, nil },
	}

	uc := NewUsecase(loanTx(uow.Repos{Loans: loans, Approvals: apprs, LoanTypes: types}, l),
		membermock.Static(approver("a1", "a1-user")), &notifymock.Notifier{})

	dto, err := uc.Approve(context.Background(), ApproveInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "a1-user",
	})
	if err != nil {
		t.Fatalf("Approve err: %v", err)
	}
	if dto.LoanStatus != string(domainLoan.StatusPending) {
		t.Fatalf("loan status=%s, want pending below quorum", dto.LoanStatus)
	}
	if dto.ApprovalsRecorded != 1 || dto.ApprovalsRequired != 2 {
		t.Fatalf("quorum: %d/%d", dto.ApprovalsRecorded, dto.ApprovalsRequired)
	}
}

func TestApprove_SecondDistinctApprover_ReachesQuorum(t *testing.T) {
	lt := &loantype.LoanType{ID: 7, RequiresMultipleApprovals: true, MinApprovers: 2}
	typeID := lt.ID
	l := pendingLoan(&typeID)

	var saved *domainLoan.Loan
	loans := &loanmock.Repo{
		SaveFn: func(ctx context.Context, got *domainLoan.Loan) error {
			saved = got
			return nil
		},
	}
	apprs := &approvalmock.Repo{
		GetByLoanAndApproverFn: func(context.Context, uint64, string) (*domainApproval.Approval, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CountByLoanFn: func(context.Context, uint64) (int64, error) { return 2, nil },
	}
	types := &loantypemock.Repo{
		GetByIDFn: func(ctx context.Context, id uint64) (*loantype.LoanType, error) { return lt, nil },
	}

	uc := NewUsecase(loanTx(uow.Repos{Loans: loans, Approvals: apprs, LoanTypes: types}, l),
		membermock.Static(approver("a2", "a2-user")), &notifymock.Notifier{})

	dto, err := uc.Approve(context.Background(), ApproveInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "a2-user",
	})
	if err != nil {
		t.Fatalf("Approve err: %v", err)
	}
	if dto.LoanStatus != string(domainLoan.StatusApproved) {
		t.Fatalf("loan status=%s", dto.LoanStatus)
	}
	if saved == nil || saved.Status != domainLoan.StatusApproved {
		t.Fatalf("loan not flipped: %+v", saved)
	}
}

func TestApprove_SameApproverTwice_Conflict(t *testing.T) {
	l := pendingLoan(nil)
	apprs := &approvalmock.Repo{
		GetByLoanAndApproverFn: func(context.Context, uint64, string) (*domainApproval.Approval, error) {
			return &domainApproval.Approval{ApprovalID: "existing", LoanID: 42, ApproverID: "a1"}, nil
		},
		CreateFn: func(context.Context, *domainApproval.Approval) error {
			t.Fatalf("Create must not be called for a duplicate approver")
			return nil
		},
	}

	uc := NewUsecase(loanTx(uow.Repos{Loans: &loanmock.Repo{}, Approvals: apprs}, l),
		membermock.Static(approver("a1", "a1-user")), &notifymock.Notifier{})

	_, err := uc.Approve(context.Background(), ApproveInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "a1-user",
	})
	if !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("want Conflict fault, got %v", err)
	}
}

func TestApprove_AlreadyApprovedLoan_Conflict(t *testing.T) {
	l := pendingLoan(nil)
	l.Status = domainLoan.StatusApproved

	uc := NewUsecase(loanTx(uow.Repos{}, l),
		membermock.Static(approver("a1", "a1-user")), &notifymock.Notifier{})

	_, err := uc.Approve(context.Background(), ApproveInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "a1-user",
	})
	if !fault.IsKind(err, fault.Conflict) {
		t.Fatalf("want Conflict fault, got %v", err)
	}
}

func TestApprove_DisbursedLoan_InvalidTransition(t *testing.T) {
	l := pendingLoan(nil)
	l.Status = domainLoan.StatusDisbursed

	uc := NewUsecase(loanTx(uow.Repos{}, l),
		membermock.Static(approver("a1", "a1-user")), &notifymock.Notifier{})

	_, err := uc.Approve(context.Background(), ApproveInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "a1-user",
	})
	if !fault.IsKind(err, fault.InvalidTransition) {
		t.Fatalf("want InvalidTransition fault, got %v", err)
	}
}

func TestApprove_WithoutCapability_Forbidden(t *testing.T) {
	plain := approver("m1", "m1-user")
	plain.Role = "member"

	uc := NewUsecase(uowmock.New(), membermock.Static(plain), &notifymock.Notifier{})

	_, err := uc.Approve(context.Background(), ApproveInput{
		CooperativeID: coopID, LoanID: "llllllllllllllllllllllllllllllll", ActorUserID: "m1-user",
	})
	if !fault.IsKind(err, fault.Forbidden) {
		t.Fatalf("want Forbidden fault, got %v", err)
	}
}

func TestReject_RequiresReason(t *testing.T) {
	uc := NewUsecase(uowmock.New(), membermock.Static(approver("a1", "a1-user")), &notifymock.Notifier{})

	_, err := uc.Reject(context.Background(), RejectInput{
		CooperativeID: coopID, LoanID: "llllllllllllllllllllllllllllllll", ActorUserID: "a1-user",
	})
	if !fault.IsKind(err, fault.Validation) {
		t.Fatalf("want Validation fault, got %v", err)
	}
}

func TestReject_PendingLoan_Terminal(t *testing.T) {
	l := pendingLoan(nil)
	var saved *domainLoan.Loan
	loans := &loanmock.Repo{
		SaveFn: func(ctx context.Context, got *domainLoan.Loan) error {
			saved = got
			return nil
		},
	}
	notifier := &notifymock.Notifier{}

	uc := NewUsecase(loanTx(uow.Repos{Loans: loans}, l),
		membermock.Static(approver("a1", "a1-user")), notifier)

	dto, err := uc.Reject(context.Background(), RejectInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "a1-user", Reason: "insufficient savings history",
	})
	if err != nil {
		t.Fatalf("Reject err: %v", err)
	}
	if dto.LoanStatus != string(domainLoan.StatusRejected) {
		t.Fatalf("loan status=%s", dto.LoanStatus)
	}
	if saved == nil || saved.Status != domainLoan.StatusRejected || saved.ReviewedAt == nil {
		t.Fatalf("loan not persisted rejected: %+v", saved)
	}
	if len(notifier.Direct) != 1 {
		t.Fatalf("borrower not notified: %d", len(notifier.Direct))
	}
}

func TestReject_NonPending_InvalidTransition(t *testing.T) {
	l := pendingLoan(nil)
	l.Status = domainLoan.StatusRejected

	uc := NewUsecase(loanTx(uow.Repos{}, l),
		membermock.Static(approver("a1", "a1-user")), &notifymock.Notifier{})

	_, err := uc.Reject(context.Background(), RejectInput{
		CooperativeID: coopID, LoanID: l.LoanID, ActorUserID: "a1-user", Reason: "late",
	})
	if !fault.IsKind(err, fault.InvalidTransition) {
		t.Fatalf("want InvalidTransition fault, got %v", err)
	}
}
