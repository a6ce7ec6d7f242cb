package profile

import (
	"context"
	"errors"
	"testing"
)

func TestMalformedUserIDReportsNotFound(t *testing.T) {
	store := NewStore(nil)
	ctx := context.Background()

	if _, err := store.UserByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UserByID: expected ErrNotFound, got %v", err)
	}
	if _, err := store.StaffByUserID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("StaffByUserID: expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateUserRole(ctx, "nope", "staff"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateUserRole: expected ErrNotFound, got %v", err)
	}
	if err := store.SetUserStatus(ctx, "nope", "active"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetUserStatus: expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateUserDivision(ctx, "nope", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateUserDivision: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserDivisionRejectsMalformedDivision(t *testing.T) {
	store := NewStore(nil)
	err := store.UpdateUserDivision(context.Background(), "b6f7f3a0-9c6e-4a1f-8a59-1f2d3c4b5a69", "not-a-division")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
