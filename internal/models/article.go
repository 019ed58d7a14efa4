package models

import "time"

// Article is a piece of writing owned by exactly one user.
type Article struct {
	Parent      string    `json:"_parent"` // owning user ID
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	DateCreated time.Time `json:"dateCreated"`
	Category    string    `json:"category"`
}

// ArticleUpdate carries the fields a partial update may change.
// Nil fields are left untouched.
type ArticleUpdate struct {
	Title    *string
	Content  *string
	Category *string
}

// Empty reports whether the update changes nothing.
func (u ArticleUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Category == nil
}
