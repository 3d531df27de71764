package mysql

import (
	"context"
	"encoding/json"

	memberDomain "coopfin-backend/internal/domain/member"

	"gorm.io/gorm"
)

// memberRow is the adapter's view of the host system's members table. The
// engine never writes it.
type memberRow struct {
	MemberID      string `gorm:"column:member_id"`
	UserID        string `gorm:"column:user_id"`
	CooperativeID string `gorm:"column:cooperative_id"`
	Name          string `gorm:"column:name"`
	Email         string `gorm:"column:email"`
	Role          string `gorm:"column:role"`
	// JSON array of free-form permission strings
	Permissions string `gorm:"column:permissions"`
	Active      bool   `gorm:"column:active"`
}

func (memberRow) TableName() string { return "members" }

type MemberSource struct{ db *gorm.DB }

func NewMemberSource(db *gorm.DB) *MemberSource { return &MemberSource{db: db} }

func (s *MemberSource) FindMember(ctx context.Context, cooperativeID, userID string) (*memberDomain.Member, error) {
	var row memberRow
	res := s.db.WithContext(ctx).
		Where("cooperative_id = ? AND user_id = ?", cooperativeID, userID).
		First(&row)
	if res.Error != nil {
		return nil, res.Error
	}

	var perms []string
	if row.Permissions != "" {
		// a malformed permission blob degrades to role-only grants
		_ = json.Unmarshal([]byte(row.Permissions), &perms)
	}
	return &memberDomain.Member{
		MemberID:      row.MemberID,
		UserID:        row.UserID,
		CooperativeID: row.CooperativeID,
		Name:          row.Name,
		Email:         row.Email,
		Role:          row.Role,
		Permissions:   perms,
		Active:        row.Active,
	}, nil
}
