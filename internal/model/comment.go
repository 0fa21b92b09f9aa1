package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        int64     `json:"id"`
	ParentID  *int64    `json:"parentId"`
	PostID    int64     `json:"postId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentNode is one materialized level of a reply thread.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}
