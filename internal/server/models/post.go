package models

import "time"

type Post struct {
	ID           int64            `json:"id"`
	UserID       int64            `json:"user_id"`
	Title        string           `json:"title"`
	Text         string           `json:"text"`
	CommentCount int64            `json:"comment_count"`
	CreatedAt    time.Time        `json:"created_at"`
	Comments     []CommentSummary `json:"comments,omitempty"`
}

// PostPatch carries optional fields of a post update.
type PostPatch struct {
	Title *string
	Text  *string
}
