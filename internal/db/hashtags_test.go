package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/socialnet/socialnet/internal/models"
)

func TestHashtagCreateAndConflict(t *testing.T) {
	gdb := newTestDB(t)
	hashtags := NewHashtagRepository(NewRepository(gdb))
	ctx := context.Background()

	tag, err := hashtags.Create(ctx, "#Economy")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if tag.Name != "economy" {
		t.Errorf("Create() normalized name = %q, want %q", tag.Name, "economy")
	}
	if tag.Display() != "#economy" {
		t.Errorf("Display() = %q, want %q", tag.Display(), "#economy")
	}

	if _, err := hashtags.Create(ctx, "economy"); !errors.Is(err, ErrHashtagExists) {
		t.Errorf("Create() duplicate error = %v, want ErrHashtagExists", err)
	}
}

func TestHashtagRename(t *testing.T) {
	gdb := newTestDB(t)
	hashtags := NewHashtagRepository(NewRepository(gdb))
	ctx := context.Background()

	tag, err := hashtags.Create(ctx, "economy")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := hashtags.Create(ctx, "markets"); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	renamed, err := hashtags.Rename(ctx, tag.ID, "#Finance")
	if err != nil {
		t.Fatalf("Rename() error: %v", err)
	}
	if renamed.Name != "finance" {
		t.Errorf("Rename() name = %q, want %q", renamed.Name, "finance")
	}

	if _, err := hashtags.Rename(ctx, tag.ID, "markets"); !errors.Is(err, ErrHashtagExists) {
		t.Errorf("Rename() conflict error = %v, want ErrHashtagExists", err)
	}

	missing, err := hashtags.Rename(ctx, 9999, "ghost")
	if err != nil {
		t.Fatalf("Rename() missing id error: %v", err)
	}
	if missing != nil {
		t.Error("Rename() on missing id should return nil")
	}
}

func TestCommentsOrderNewestFirst(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	comments := NewCommentRepository(repo)
	ctx := context.Background()

	alice := seedAccount(t, gdb, "alice@test.com", "Alice", "Archer")
	post := seedPost(t, gdb, alice, "Test post", true)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		comment := &models.Comment{
			AuthorID:  alice.ID,
			PostID:    post.ID,
			Content:   "comment",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := gdb.Create(comment).Error; err != nil {
			t.Fatalf("failed to seed comment: %v", err)
		}
	}

	listed, err := comments.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListByPost() error: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("ListByPost() = %d comments, want 3", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].CreatedAt.After(listed[i-1].CreatedAt) {
			t.Error("comments must be ordered newest first")
			break
		}
	}
}
