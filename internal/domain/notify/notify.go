package notify

import "context"

// Notification event types consumed by the delivery layer.
const (
	EventLoanRequested      = "loan_requested"
	EventGuarantorRequested = "guarantor_requested"
	EventLoanReadyForReview = "loan_ready_for_review"
	EventLoanApproved       = "loan_approved"
	EventLoanRejected       = "loan_rejected"
	EventLoanDisbursed      = "loan_disbursed"
	EventRepaymentSubmitted = "repayment_submitted"
	EventRepaymentRecorded  = "repayment_recorded"
	EventRepaymentRejected  = "repayment_rejected"
	EventLoanCompleted      = "loan_completed"
)

// Notifier delivers in-app notifications. Delivery is fire-and-forget:
// implementations swallow and log failures, and never block or abort the
// financial transaction that triggered them.
type Notifier interface {
	Notify(ctx context.Context, userID, event, title, body string, data map[string]any)
	NotifyAdmins(ctx context.Context, cooperativeID, event, title, body string, data map[string]any, exclude ...string)
}

// Mailer sends best-effort email. Same contract as Notifier: failures are
// logged, never returned.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string)
}
