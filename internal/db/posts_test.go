package db

import (
	"context"
	"testing"
	"time"

	"github.com/socialnet/socialnet/internal/models"
)

func TestValidatePublishRule(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		published   bool
		publishTime *time.Time
		wantErr     bool
	}{
		{
			name:      "published without publish time",
			published: true,
			wantErr:   false,
		},
		{
			name:        "published with publish time",
			published:   true,
			publishTime: &now,
			wantErr:     false,
		},
		{
			name:        "unpublished with publish time",
			published:   false,
			publishTime: &now,
			wantErr:     false,
		},
		{
			name:      "unpublished without publish time",
			published: false,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePublishRule(tt.published, tt.publishTime)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePublishRule() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateAttachesExistingHashtag(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	posts := NewPostRepository(repo)
	ctx := context.Background()

	alice := seedAccount(t, gdb, "alice@test.com", "Alice", "Archer")

	first := &models.Post{AuthorID: alice.ID, Title: "Cycles", Published: true}
	if err := posts.Create(ctx, first, []string{"economy"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// "#Economy" normalizes to the same name and must reuse the row
	second := &models.Post{AuthorID: alice.ID, Title: "Markets", Published: true}
	if err := posts.Create(ctx, second, []string{"#Economy", "innovations"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	var tagCount int64
	if err := gdb.Model(&models.Hashtag{}).Count(&tagCount).Error; err != nil {
		t.Fatalf("count error: %v", err)
	}
	if tagCount != 2 {
		t.Errorf("hashtag count = %d, want 2 (economy reused)", tagCount)
	}

	tags, err := posts.HashtagsFor(ctx, second.ID)
	if err != nil {
		t.Fatalf("HashtagsFor() error: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("HashtagsFor() = %d tags, want 2", len(tags))
	}
	if tags[0].Name != "economy" || tags[1].Name != "innovations" {
		t.Errorf("HashtagsFor() = [%s %s], want [economy innovations]", tags[0].Name, tags[1].Name)
	}
}

func TestDeletePostCascades(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	posts := NewPostRepository(repo)
	likes := NewLikeRepository(repo)
	ctx := context.Background()

	alice := seedAccount(t, gdb, "alice@test.com", "Alice", "Archer")
	bob := seedAccount(t, gdb, "bob@test.com", "Bob", "Becker")

	post := &models.Post{AuthorID: alice.ID, Title: "Doomed", Published: true}
	if err := posts.Create(ctx, post, []string{"economy"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	comment := &models.Comment{AuthorID: bob.ID, PostID: post.ID, Content: "nice"}
	if err := gdb.Create(comment).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	if err := likes.Toggle(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}

	if err := posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	for _, check := range []struct {
		name  string
		model interface{}
		want  int64
	}{
		{"posts", &models.Post{}, 0},
		{"comments", &models.Comment{}, 0},
		{"likes", &models.PostLike{}, 0},
		{"hashtag links", &models.PostHashtag{}, 0},
		// hashtags themselves survive their last post
		{"hashtags", &models.Hashtag{}, 1},
	} {
		var count int64
		if err := gdb.Model(check.model).Count(&count).Error; err != nil {
			t.Fatalf("count %s error: %v", check.name, err)
		}
		if count != check.want {
			t.Errorf("%s count = %d, want %d", check.name, count, check.want)
		}
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	accounts := NewAccountRepository(repo)
	posts := NewPostRepository(repo)
	follows := NewFollowRepository(repo)
	ctx := context.Background()

	alice := seedAccount(t, gdb, "alice@test.com", "Alice", "Archer")
	bob := seedAccount(t, gdb, "bob@test.com", "Bob", "Becker")

	post := &models.Post{AuthorID: alice.ID, Title: "Alice's post", Published: true}
	if err := posts.Create(ctx, post, nil); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	comment := &models.Comment{AuthorID: bob.ID, PostID: post.ID, Content: "by bob"}
	if err := gdb.Create(comment).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	if err := follows.Toggle(ctx, bob.ID, alice.ID); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}

	if err := accounts.Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	var postCount, commentCount, followCount, accountCount int64
	gdb.Model(&models.Post{}).Count(&postCount)
	gdb.Model(&models.Comment{}).Count(&commentCount)
	gdb.Model(&models.Follow{}).Count(&followCount)
	gdb.Model(&models.Account{}).Count(&accountCount)

	if postCount != 0 {
		t.Errorf("post count = %d, want 0", postCount)
	}
	if commentCount != 0 {
		t.Errorf("comment count = %d, want 0 (comments on deleted posts go too)", commentCount)
	}
	if followCount != 0 {
		t.Errorf("follow count = %d, want 0", followCount)
	}
	if accountCount != 1 {
		t.Errorf("account count = %d, want 1 (bob remains)", accountCount)
	}
}
