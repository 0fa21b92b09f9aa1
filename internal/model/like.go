package model

import (
	"time"

	"github.com/google/uuid"
)

type Like struct {
	UserID    uuid.UUID `json:"userId"`
	PostID    int64     `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

type LikeState int

const (
	Unliked LikeState = iota
	Liked
)

func (s LikeState) String() string {
	if s == Liked {
		return "liked"
	}
	return "unliked"
}

func (s LikeState) Message() string {
	if s == Liked {
		return "Post liked"
	}
	return "Post unliked"
}
