package store

import (
	"context"
	"testing"
	"time"

	"github.com/findithq/findit/internal/db"
	"github.com/findithq/findit/internal/model"
)

func TestCreateAndGetCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	category, err := CreateCategory(ctx, database, "Electronics", "Phones, laptops, chargers")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if category.Name != "Electronics" {
		t.Errorf("expected name 'Electronics', got %q", category.Name)
	}

	got, err := GetCategory(ctx, database, category.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got == nil || got.Description != "Phones, laptops, chargers" {
		t.Errorf("expected category with description, got %+v", got)
	}

	missing, err := GetCategory(ctx, database, "nope")
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing category")
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateCategory(ctx, database, "Bags", ""); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if _, err := CreateCategory(ctx, database, "Bags", ""); err == nil {
		t.Error("expected error for duplicate name")
	}
}

func TestListCategoriesAlphabetical(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateCategory(ctx, database, "Keys", "")
	CreateCategory(ctx, database, "Accessories", "")
	CreateCategory(ctx, database, "Electronics", "")

	categories, err := ListCategories(ctx, database)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	want := []string{"Accessories", "Electronics", "Keys"}
	for i, name := range want {
		if categories[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, categories[i].Name)
		}
	}
}

func TestDeleteCategoryClearsItemReferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	profile, err := CreateProfile(ctx, database, "user@example.com", "hash", "", "")
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	category, err := CreateCategory(ctx, database, "Bags", "")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	item, err := CreateItem(ctx, database, profile.ID, model.NewItemInput{
		Kind:         model.KindLost,
		Title:        "Backpack",
		Description:  "Blue backpack",
		Location:     "Library",
		DateReported: time.Now(),
		CategoryID:   category.ID,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := DeleteCategory(ctx, database, category.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil {
		t.Fatal("item must survive its category")
	}
	if got.CategoryID != "" {
		t.Errorf("expected cleared category reference, got %q", got.CategoryID)
	}
	if got.CategoryName != "" {
		t.Errorf("expected no category name, got %q", got.CategoryName)
	}
}
