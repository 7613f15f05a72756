package store

import (
	"context"
	"testing"

	"github.com/findithq/findit/internal/db"
)

func TestCreateAndGetProfile(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	profile, err := CreateProfile(ctx, database, "alice@example.com", "hash123", "Alice", "+386 40 123 456")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if profile.Email != "alice@example.com" {
		t.Errorf("expected email 'alice@example.com', got %q", profile.Email)
	}
	if profile.FullName != "Alice" {
		t.Errorf("expected full name 'Alice', got %q", profile.FullName)
	}
	if profile.IsAdmin {
		t.Error("new profiles must not be admins")
	}

	got, err := GetProfile(ctx, database, profile.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got == nil || got.Email != "alice@example.com" {
		t.Errorf("expected alice, got %+v", got)
	}
}

func TestCreateProfileDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateProfile(ctx, database, "dup@example.com", "hash", "", ""); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if _, err := CreateProfile(ctx, database, "dup@example.com", "hash", "", ""); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestGetProfileByEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateProfile(ctx, database, "bob@example.com", "hash", "Bob", "")

	profile, err := GetProfileByEmail(ctx, database, "bob@example.com")
	if err != nil {
		t.Fatalf("GetProfileByEmail: %v", err)
	}
	if profile == nil {
		t.Fatal("expected profile, got nil")
	}

	missing, err := GetProfileByEmail(ctx, database, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetProfileByEmail: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing profile")
	}
}

func TestSetProfileAdmin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	profile, err := CreateProfile(ctx, database, "carol@example.com", "hash", "", "")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	if err := SetProfileAdmin(ctx, database, profile.ID, true); err != nil {
		t.Fatalf("SetProfileAdmin: %v", err)
	}
	got, _ := GetProfile(ctx, database, profile.ID)
	if !got.IsAdmin {
		t.Error("expected admin after grant")
	}

	if err := SetProfileAdmin(ctx, database, profile.ID, false); err != nil {
		t.Fatalf("SetProfileAdmin: %v", err)
	}
	got, _ = GetProfile(ctx, database, profile.ID)
	if got.IsAdmin {
		t.Error("expected non-admin after revoke")
	}
}

func TestUpdateProfile(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	profile, err := CreateProfile(ctx, database, "dave@example.com", "hash", "", "")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	if err := UpdateProfile(ctx, database, profile.ID, "Dave", "555-0100"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	got, _ := GetProfile(ctx, database, profile.ID)
	if got.FullName != "Dave" || got.Phone != "555-0100" {
		t.Errorf("expected updated fields, got %+v", got)
	}
}

func TestListAndCountProfiles(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateProfile(ctx, database, "a@example.com", "hash", "", "")
	CreateProfile(ctx, database, "b@example.com", "hash", "", "")

	profiles, err := ListProfiles(ctx, database)
	if err != nil {
		t.Fatalf("ListProfiles: %v", err)
	}
	if len(profiles) != 2 {
		t.Errorf("expected 2 profiles, got %d", len(profiles))
	}

	n, err := CountProfiles(ctx, database)
	if err != nil {
		t.Fatalf("CountProfiles: %v", err)
	}
	if n != 2 {
		t.Errorf("expected count 2, got %d", n)
	}
}
