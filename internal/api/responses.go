package api

import (
	"time"

	"github.com/samber/lo"

	"github.com/socialnet/socialnet/internal/models"
)

// Each operation renders its own response shape through an explicit
// constructor; list, detail and upload responses are separate types rather
// than one payload with optional fields.

// timestampFormat is the wire format for created_at fields
const timestampFormat = "2006-01-02 15:04"

// AccountDetail is the single-account response shape
type AccountDetail struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Bio          string  `json:"bio"`
	Image        string  `json:"image,omitempty"`
	FollowerIDs  []int64 `json:"followers"`
	FollowingIDs []int64 `json:"followings"`
}

// NewAccountDetail builds the detail response for an account
func NewAccountDetail(a *models.Account, followerIDs, followingIDs []int64) AccountDetail {
	if followerIDs == nil {
		followerIDs = []int64{}
	}
	if followingIDs == nil {
		followingIDs = []int64{}
	}
	return AccountDetail{
		ID:           a.ID,
		Email:        a.Email,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		Bio:          a.Bio,
		Image:        a.Image,
		FollowerIDs:  followerIDs,
		FollowingIDs: followingIDs,
	}
}

// AccountListItem is the account list response shape: names plus counters
type AccountListItem struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Posts      int64  `json:"posts"`
	Followers  int64  `json:"followers"`
	Followings int64  `json:"followings"`
}

// NewAccountListItem builds the list response entry for an account
func NewAccountListItem(a *models.Account, stats *Stats) AccountListItem {
	return AccountListItem{
		ID:         a.ID,
		Email:      a.Email,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Posts:      stats.Posts,
		Followers:  stats.Followers,
		Followings: stats.Followings,
	}
}

// Stats mirrors db.Stats without importing it here
type Stats struct {
	Followers  int64
	Followings int64
	Posts      int64
}

// PostListItem is the feed listing response shape
type PostListItem struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Published   bool     `json:"published"`
	PublishTime *string  `json:"publish_time"`
	CreatedAt   string   `json:"created_at"`
	Likes       int64    `json:"likes"`
	Comments    int64    `json:"comments"`
	IsLiked     bool     `json:"is_liked"`
	Hashtags    []string `json:"hashtags"`
	Image       string   `json:"image,omitempty"`
}

// NewPostListItem builds the feed listing entry for a post. The author is
// rendered as the last name only; hashtags as bare normalized names.
func NewPostListItem(p *models.Post, likes, comments int64, isLiked bool, tags []*models.Hashtag) PostListItem {
	author := ""
	if p.Author != nil {
		author = p.Author.LastName
	}
	return PostListItem{
		ID:          p.ID,
		Title:       p.Title,
		Author:      author,
		Published:   p.Published,
		PublishTime: formatOptionalTime(p.PublishTime),
		CreatedAt:   p.CreatedAt.Format(timestampFormat),
		Likes:       likes,
		Comments:    comments,
		IsLiked:     isLiked,
		Hashtags:    hashtagNames(tags),
		Image:       p.Image,
	}
}

// PostDetail is the single-post response shape with embedded author and
// comments.
type PostDetail struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	Author      AccountListItem   `json:"author"`
	CreatedAt   string            `json:"created_at"`
	Published   bool              `json:"published"`
	PublishTime *string           `json:"publish_time"`
	Likes       int64             `json:"likes"`
	Comments    []CommentResponse `json:"comments"`
	Hashtags    []string          `json:"hashtags"`
	Image       string            `json:"image,omitempty"`
}

// NewPostDetail builds the detail response for a post
func NewPostDetail(p *models.Post, author AccountListItem, likes int64, comments []*models.Comment, tags []*models.Hashtag) PostDetail {
	return PostDetail{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Author:      author,
		CreatedAt:   p.CreatedAt.Format(timestampFormat),
		Published:   p.Published,
		PublishTime: formatOptionalTime(p.PublishTime),
		Likes:       likes,
		Comments:    lo.Map(comments, func(c *models.Comment, _ int) CommentResponse {
			return NewCommentResponse(c)
		}),
		Hashtags: hashtagNames(tags),
		Image:    p.Image,
	}
}

// CommentResponse is the comment response shape
type CommentResponse struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
	Content   string `json:"content"`
}

// NewCommentResponse builds the response for a comment, rendering the
// author as their email.
func NewCommentResponse(c *models.Comment) CommentResponse {
	author := ""
	if c.Author != nil {
		author = c.Author.Email
	}
	return CommentResponse{
		ID:        c.ID,
		Author:    author,
		CreatedAt: c.CreatedAt.Format(timestampFormat),
		Content:   c.Content,
	}
}

// HashtagResponse is the hashtag response shape; Display carries the
// leading '#'.
type HashtagResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Display string `json:"display"`
}

// NewHashtagResponse builds the response for a hashtag
func NewHashtagResponse(h *models.Hashtag) HashtagResponse {
	return HashtagResponse{
		ID:      h.ID,
		Name:    h.Name,
		Display: h.Display(),
	}
}

// ImageResponse is the upload response shape
type ImageResponse struct {
	Image string `json:"image"`
}

func hashtagNames(tags []*models.Hashtag) []string {
	return lo.Map(tags, func(h *models.Hashtag, _ int) string {
		return h.Name
	})
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
