package mysql

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestMemberSourceFindMember(t *testing.T) {
	db := openTestDB(t)
	src := NewMemberSource(db)
	ctx := context.Background()

	seed := &memberSQLite{
		MemberID:      "mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm",
		UserID:        "uuuuuuuuuuuuuuuuuuuuuuuuuuuuuuuu",
		CooperativeID: "cccccccccccccccccccccccccccccccc",
		Name:          "Budi",
		Email:         "budi@example.com",
		Role:          "treasurer",
		Permissions:   `["loan.approve"]`,
		Active:        true,
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}

	m, err := src.FindMember(ctx, seed.CooperativeID, seed.UserID)
	if err != nil {
		t.Fatalf("FindMember: %v", err)
	}
	if m.MemberID != seed.MemberID || m.Role != "treasurer" || !m.Active {
		t.Fatalf("unexpected member: %+v", m)
	}
	if len(m.Permissions) != 1 || m.Permissions[0] != "loan.approve" {
		t.Fatalf("permissions not decoded: %+v", m.Permissions)
	}

	if _, err := src.FindMember(ctx, seed.CooperativeID, "nobody"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestMemberSourceMalformedPermissions(t *testing.T) {
	db := openTestDB(t)
	src := NewMemberSource(db)
	ctx := context.Background()

	seed := &memberSQLite{
		MemberID:      "m2",
		UserID:        "u2",
		CooperativeID: "cccccccccccccccccccccccccccccccc",
		Role:          "member",
		Permissions:   "{not json",
		Active:        true,
	}
	if err := db.Create(seed).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}

	m, err := src.FindMember(ctx, seed.CooperativeID, seed.UserID)
	if err != nil {
		t.Fatalf("FindMember: %v", err)
	}
	if len(m.Permissions) != 0 {
		t.Fatalf("malformed blob should degrade to no permissions: %+v", m.Permissions)
	}
}
