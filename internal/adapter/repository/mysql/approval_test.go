package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	approvalDomain "coopfin-backend/internal/domain/approval"
	"coopfin-backend/pkg/id"

	"gorm.io/gorm"
)

func makeApproval(loanID uint64, approverID string, when time.Time) *approvalDomain.Approval {
	return &approvalDomain.Approval{
		ApprovalID: id.NewID32(),
		LoanID:     loanID,
		ApproverID: approverID,
		Note:       "ok",
		DecidedAt:  when.UTC(),
	}
}

func TestApprovalCreateAndGetByLoanAndApprover(t *testing.T) {
	db := openTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	a := makeApproval(42, "aprv1aprv1aprv1aprv1aprv1aprv1ap", time.Now())
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByLoanAndApprover(ctx, 42, a.ApproverID)
	if err != nil {
		t.Fatalf("GetByLoanAndApprover: %v", err)
	}
	if got.ApprovalID != a.ApprovalID {
		t.Errorf("unexpected approval: %+v", got)
	}

	// a different approver on the same loan is not found
	if _, err := repo.GetByLoanAndApprover(ctx, 42, "someone-else"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestApprovalCountByLoan(t *testing.T) {
	db := openTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	now := time.Now()
	if err := repo.Create(ctx, makeApproval(42, "a1", now)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeApproval(42, "a2", now.Add(time.Minute))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeApproval(99, "a1", now)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := repo.CountByLoan(ctx, 42)
	if err != nil {
		t.Fatalf("CountByLoan: %v", err)
	}
	if n != 2 {
		t.Fatalf("count=%d, want 2", n)
	}

	all, err := repo.ListByLoan(ctx, 42)
	if err != nil {
		t.Fatalf("ListByLoan: %v", err)
	}
	if len(all) != 2 || all[0].ApproverID != "a1" {
		t.Fatalf("unexpected list: %+v", all)
	}
}
