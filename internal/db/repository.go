package db

import (
	"strings"

	"gorm.io/gorm"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Gorm exposes the underlying gorm handle for query composition
func (r *Repository) Gorm() *gorm.DB {
	return r.db
}

// likeEscaper neutralizes LIKE metacharacters in user-supplied filter text
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern builds a case-insensitive LIKE pattern matching the literal
// substring. Use together with `LIKE ? ESCAPE '\'` so % and _ in the input
// match themselves instead of acting as wildcards.
func LikePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
