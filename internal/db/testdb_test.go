package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/socialnet/socialnet/internal/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
// A single connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = gdb.AutoMigrate(
		&models.Account{},
		&models.Post{},
		&models.Comment{},
		&models.Hashtag{},
		&models.Follow{},
		&models.PostLike{},
		&models.PostHashtag{},
		&models.AuthToken{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb
}

func seedAccount(t *testing.T, gdb *gorm.DB, email, firstName, lastName string) *models.Account {
	t.Helper()

	account := &models.Account{
		Email:        email,
		PasswordHash: "x",
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := gdb.Create(account).Error; err != nil {
		t.Fatalf("failed to seed account %s: %v", email, err)
	}
	return account
}

func seedPost(t *testing.T, gdb *gorm.DB, author *models.Account, title string, published bool) *models.Post {
	t.Helper()

	post := &models.Post{
		AuthorID:  author.ID,
		Title:     title,
		Content:   title + " content",
		Published: published,
	}
	if err := gdb.Create(post).Error; err != nil {
		t.Fatalf("failed to seed post %s: %v", title, err)
	}
	return post
}
