package workspace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-backend/internal/adapter/postgres/testhelper"
	"github.com/taskhive/taskhive-backend/internal/adapter/postgres/workspace"
	"github.com/taskhive/taskhive-backend/internal/domain"
)

func TestRepo_Create_RoundTripWithOwnerMembership(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := workspace.New(pool)
	ctx := context.Background()

	owner := testhelper.SeedUser(t, pool)
	desc := "planning board"

	created, err := repo.Create(ctx, domain.Workspace{
		ID:          uuid.New(),
		Name:        "Atlas Planning",
		Description: &desc,
		OwnerID:     owner.ID,
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if created.Name != "Atlas Planning" || created.Description == nil || *created.Description != desc {
		t.Errorf("round-trip mismatch: %+v", created)
	}

	// Creating a workspace makes the owner a member in the same call.
	isMember, err := repo.IsMember(ctx, created.ID, owner.ID)
	if err != nil {
		t.Fatalf("IsMember: unexpected error: %v", err)
	}
	if !isMember {
		t.Error("owner should be a member of the new workspace")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.ID != created.ID || got.OwnerID != owner.ID {
		t.Errorf("GetByID mismatch: %+v", got)
	}
}

func TestRepo_Create_DuplicateID(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := workspace.New(pool)
	ctx := context.Background()

	owner := testhelper.SeedUser(t, pool)
	ws := testhelper.SeedWorkspace(t, pool, owner.ID, "Original")

	_, err := repo.Create(ctx, domain.Workspace{ID: ws.ID, Name: "Clone", OwnerID: owner.ID})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRepo_Update(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := workspace.New(pool)
	ctx := context.Background()

	owner := testhelper.SeedUser(t, pool)
	ws := testhelper.SeedWorkspace(t, pool, owner.ID, "Before Rename")

	desc := "renamed board"
	updated, err := repo.Update(ctx, ws.ID, "After Rename", &desc)
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if updated.Name != "After Rename" || updated.Description == nil || *updated.Description != desc {
		t.Errorf("update not applied: %+v", updated)
	}
	if !updated.UpdatedAt.After(ws.UpdatedAt) {
		t.Errorf("updated_at should advance: %v -> %v", ws.UpdatedAt, updated.UpdatedAt)
	}

	_, err = repo.Update(ctx, uuid.New(), "Ghost", nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestRepo_SoftDelete_HidesFromGet(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := workspace.New(pool)
	ctx := context.Background()

	owner := testhelper.SeedUser(t, pool)
	ws := testhelper.SeedWorkspace(t, pool, owner.ID, "Doomed")

	if err := repo.SoftDelete(ctx, ws.ID); err != nil {
		t.Fatalf("SoftDelete: unexpected error: %v", err)
	}
	if _, err := repo.GetByID(ctx, ws.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after soft delete, got %v", err)
	}

	// The row stays in place for the audit trail.
	var deleted bool
	if err := pool.QueryRow(ctx, `SELECT is_deleted FROM workspaces WHERE id = $1`, ws.ID).Scan(&deleted); err != nil {
		t.Fatalf("raw read: %v", err)
	}
	if !deleted {
		t.Error("soft delete must keep the row with is_deleted set")
	}
}

func TestRepo_Membership(t *testing.T) {
	t.Parallel()
	pool := testhelper.SetupTestDB(t)
	repo := workspace.New(pool)
	ctx := context.Background()

	owner := testhelper.SeedUser(t, pool)
	guest := testhelper.SeedUser(t, pool)
	ws := testhelper.SeedWorkspace(t, pool, owner.ID, "Membership Fixtures")

	isMember, err := repo.IsMember(ctx, ws.ID, guest.ID)
	if err != nil {
		t.Fatalf("IsMember: unexpected error: %v", err)
	}
	if isMember {
		t.Fatal("guest should not be a member yet")
	}

	if err := repo.AddMember(ctx, ws.ID, guest.ID, domain.RoleMember); err != nil {
		t.Fatalf("AddMember: unexpected error: %v", err)
	}
	isMember, err = repo.IsMember(ctx, ws.ID, guest.ID)
	if err != nil {
		t.Fatalf("IsMember after add: unexpected error: %v", err)
	}
	if !isMember {
		t.Fatal("guest should be a member after AddMember")
	}

	if err := repo.RemoveMember(ctx, ws.ID, guest.ID); err != nil {
		t.Fatalf("RemoveMember: unexpected error: %v", err)
	}
	if err := repo.RemoveMember(ctx, ws.ID, guest.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound removing a non-member, got %v", err)
	}
}
