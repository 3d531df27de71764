package approval

import (
	"time"
)

type ApproveInput struct {
	CooperativeID string
	LoanID        string
	ActorUserID   string // approver's user id
	Note          string
}

type RejectInput struct {
	CooperativeID string
	LoanID        string
	ActorUserID   string
	Reason        string // required
}

// DecisionDTO reports a recorded decision and the loan's resulting status.
type DecisionDTO struct {
	ApprovalID string `json:"approval_id,omitempty"`
	LoanID     string `json:"loan_id"`
	ApproverID string `json:"approver_id"`
	Decision   string `json:"decision"`
	LoanStatus string `json:"loan_status"`
	// Approvals recorded so far vs. the quorum the loan type demands.
	ApprovalsRecorded int       `json:"approvals_recorded"`
	ApprovalsRequired int       `json:"approvals_required"`
	DecidedAt         time.Time `json:"decided_at"`
}
