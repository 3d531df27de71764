package member

import (
	"context"
	"errors"

	"coopfin-backend/internal/domain/fault"

	"gorm.io/gorm"
)

// Source is the raw membership lookup, implemented by the storage adapter
// against the host system's members table.
type Source interface {
	FindMember(ctx context.Context, cooperativeID, userID string) (*Member, error)
}

// DefaultDirectory resolves members through a Source and answers capability
// checks with the static role grants.
type DefaultDirectory struct{ src Source }

func NewDirectory(src Source) *DefaultDirectory { return &DefaultDirectory{src: src} }

var _ Directory = (*DefaultDirectory)(nil)

func (d *DefaultDirectory) ActiveMember(ctx context.Context, cooperativeID, userID string) (*Member, error) {
	m, err := d.src.FindMember(ctx, cooperativeID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.New(fault.Forbidden, "user %s is not a member of cooperative %s", userID, cooperativeID)
		}
		return nil, err
	}
	if !m.Active {
		return nil, fault.New(fault.Forbidden, "member %s is inactive", m.MemberID)
	}
	return m, nil
}

func (d *DefaultDirectory) Can(m *Member, c Capability) bool {
	return HasCapability(m.Role, m.Permissions, c)
}
