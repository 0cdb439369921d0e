package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/socialnet/socialnet/internal/db"
	"github.com/socialnet/socialnet/internal/models"
)

// HashtagsAPI provides hashtag-related handlers
type HashtagsAPI struct {
	hashtags *db.HashtagRepository
}

// NewHashtagsAPI creates a new hashtags API
func NewHashtagsAPI(repo *db.Repository) *HashtagsAPI {
	return &HashtagsAPI{hashtags: db.NewHashtagRepository(repo)}
}

// List handles GET /hashtags
func (a *HashtagsAPI) List(c *gin.Context) {
	tags, err := a.hashtags.List(c.Request.Context())
	if err != nil {
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(tags, func(h *models.Hashtag, _ int) HashtagResponse {
		return NewHashtagResponse(h)
	}))
}

type hashtagRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create handles POST /hashtags
func (a *HashtagsAPI) Create(c *gin.Context) {
	var req hashtagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}
	if models.NormalizeHashtag(req.Name) == "" {
		abortValidation(c, "name", "hashtag name must not be empty")
		return
	}

	tag, err := a.hashtags.Create(c.Request.Context(), req.Name)
	if err != nil {
		if errors.Is(err, db.ErrHashtagExists) {
			abortValidation(c, "name", "hashtag name already exists")
			return
		}
		abortInternal(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewHashtagResponse(tag))
}

// Update handles PATCH /hashtags/:id
func (a *HashtagsAPI) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortBadRequest(c, "invalid hashtag id")
		return
	}

	var req hashtagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err.Error())
		return
	}
	if models.NormalizeHashtag(req.Name) == "" {
		abortValidation(c, "name", "hashtag name must not be empty")
		return
	}

	tag, err := a.hashtags.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, db.ErrHashtagExists) {
			abortValidation(c, "name", "hashtag name already exists")
			return
		}
		abortInternal(c, err)
		return
	}
	if tag == nil {
		abortNotFound(c, "hashtag")
		return
	}

	c.JSON(http.StatusOK, NewHashtagResponse(tag))
}
