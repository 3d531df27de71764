package membermock

import (
	"context"

	"coopfin-backend/internal/domain/member"
)

var _ member.Directory = (*Directory)(nil)

// Directory is a function-backed mock that satisfies member.Directory.
type Directory struct {
	ActiveMemberFn func(ctx context.Context, cooperativeID, userID string) (*member.Member, error)
	CanFn          func(m *member.Member, c member.Capability) bool
}

// Static builds a directory that resolves every lookup to m and answers
// capability checks from m's real role grants. Most tests only need this.
func Static(m *member.Member) *Directory {
	return &Directory{
		ActiveMemberFn: func(context.Context, string, string) (*member.Member, error) {
			return m, nil
		},
	}
}

func (d *Directory) ActiveMember(ctx context.Context, cooperativeID, userID string) (*member.Member, error) {
	if d.ActiveMemberFn != nil {
		return d.ActiveMemberFn(ctx, cooperativeID, userID)
	}
	return nil, context.Canceled
}

func (d *Directory) Can(m *member.Member, c member.Capability) bool {
	if d.CanFn != nil {
		return d.CanFn(m, c)
	}
	return member.HasCapability(m.Role, m.Permissions, c)
}
