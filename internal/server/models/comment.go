package models

import "time"

type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentSummary is the trimmed comment embedded in post listings.
type CommentSummary struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"-"`
	Text   string `json:"text"`
}
