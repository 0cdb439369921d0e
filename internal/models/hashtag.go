package models

import (
	"strings"
)

// Hashtag represents a unique normalized hashtag name. Names are stored
// lowercase without the leading '#'; Display re-adds it.
type Hashtag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"type:varchar(64);not null;uniqueIndex:hashtags_name_ux;column:name"`
}

// TableName specifies the table name for Hashtag
func (Hashtag) TableName() string {
	return "hashtags"
}

// Display returns the display form of the hashtag name
func (h Hashtag) Display() string {
	return "#" + h.Name
}

// NormalizeHashtag converts a raw hashtag name to its stored form:
// trimmed, lowercase, leading '#' removed.
func NormalizeHashtag(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.TrimPrefix(name, "#")
	return strings.ToLower(name)
}
