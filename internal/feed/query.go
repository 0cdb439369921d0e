// Package feed builds the post queries behind feed listings. The visible
// set for a viewer is their own published posts plus the published posts of
// accounts they follow; optional filters narrow that set and compose with
// AND. Detail retrieval by id deliberately does not go through this
// package: any authenticated caller may fetch any post directly.
package feed

import (
	"gorm.io/gorm"

	"github.com/socialnet/socialnet/internal/db"
	"github.com/socialnet/socialnet/internal/models"
)

// Filters holds the optional narrowing predicates for a feed listing.
// Empty fields are inactive. All matching is case-insensitive substring.
type Filters struct {
	Title          string
	AuthorLastName string
	Hashtag        string
}

// Predicate narrows a post query
type Predicate func(*gorm.DB) *gorm.DB

// Visible returns the base query for the posts a viewer may list: published
// posts authored by the viewer or by anyone the viewer follows.
func Visible(gdb *gorm.DB, viewerID int64) *gorm.DB {
	followed := gdb.Session(&gorm.Session{NewDB: true}).
		Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", viewerID)

	return gdb.Model(&models.Post{}).
		Where("posts.published = ?", true).
		Where("posts.author_id = ? OR posts.author_id IN (?)", viewerID, followed)
}

// ByTitle keeps posts whose title contains the substring
func ByTitle(title string) Predicate {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where(`LOWER(posts.title) LIKE ? ESCAPE '\'`, db.LikePattern(title))
	}
}

// ByAuthorLastName keeps posts whose author's last name contains the
// substring.
func ByAuthorLastName(lastName string) Predicate {
	return func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN accounts ON accounts.id = posts.author_id").
			Where(`LOWER(accounts.last_name) LIKE ? ESCAPE '\'`, db.LikePattern(lastName))
	}
}

// ByHashtag keeps posts carrying at least one hashtag whose name contains
// the substring.
func ByHashtag(tag string) Predicate {
	return func(q *gorm.DB) *gorm.DB {
		sub := q.Session(&gorm.Session{NewDB: true}).
			Model(&models.PostHashtag{}).
			Select("post_hashtags.post_id").
			Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
			Where(`LOWER(hashtags.name) LIKE ? ESCAPE '\'`, db.LikePattern(tag))
		return q.Where("posts.id IN (?)", sub)
	}
}

// Query composes the visible set with every active filter and orders the
// result newest first.
func Query(gdb *gorm.DB, viewerID int64, f Filters) *gorm.DB {
	q := Visible(gdb, viewerID)
	for _, p := range predicates(f) {
		q = p(q)
	}
	return q.Order("posts.created_at DESC")
}

func predicates(f Filters) []Predicate {
	var ps []Predicate
	if f.Title != "" {
		ps = append(ps, ByTitle(f.Title))
	}
	if f.AuthorLastName != "" {
		ps = append(ps, ByAuthorLastName(f.AuthorLastName))
	}
	if f.Hashtag != "" {
		ps = append(ps, ByHashtag(f.Hashtag))
	}
	return ps
}
