package member

import "context"

// Member is the read-only view the engine gets of the host system's
// membership records. The core never writes members.
type Member struct {
	MemberID      string
	UserID        string
	CooperativeID string
	Name          string
	Email         string
	Role          string
	Permissions   []string
	Active        bool
}

// Capability is one of the enumerated actions the engine gates on. The host
// permission system uses free-form strings; they are only ever interpreted
// here, never pattern-matched inline in a workflow.
type Capability string

const (
	CapLoanApprove      Capability = "loan.approve"
	CapLoanRecord       Capability = "loan.record"
	CapLoanDisburse     Capability = "loan.disburse"
	CapRepaymentConfirm Capability = "repayment.confirm"
	CapLoanTypeManage   Capability = "loantype.manage"
)

// Directory is the permission oracle the usecases consume.
type Directory interface {
	// ActiveMember resolves an active member of the cooperative, or a
	// not-found fault.
	ActiveMember(ctx context.Context, cooperativeID, userID string) (*Member, error)
	// Can answers "does this member hold this capability", from role grants
	// plus the member's explicit permission set.
	Can(m *Member, c Capability) bool
}

// roleGrants maps well-known cooperative roles to their capabilities.
var roleGrants = map[string][]Capability{
	"admin":     {CapLoanApprove, CapLoanRecord, CapLoanDisburse, CapRepaymentConfirm, CapLoanTypeManage},
	"treasurer": {CapLoanRecord, CapLoanDisburse, CapRepaymentConfirm},
	"member":    {},
}

// HasCapability is the pure check behind Directory.Can.
func HasCapability(role string, permissions []string, c Capability) bool {
	for _, g := range roleGrants[role] {
		if g == c {
			return true
		}
	}
	for _, p := range permissions {
		if Capability(p) == c {
			return true
		}
	}
	return false
}
