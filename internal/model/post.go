package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        int64     `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FullPost struct {
	Post
	Author   UserAuthor `json:"author"`
	Likes    []*Like    `json:"likes"`
	Comments []*Comment `json:"comments"`
}

// PostPatch holds the optional fields of a post update. Nil means unchanged.
type PostPatch struct {
	Title   *string
	Content *string
	Tags    *[]string
}

func (p PostPatch) Apply(post *Post) {
	if p.Title != nil {
		post.Title = *p.Title
	}
	if p.Content != nil {
		post.Content = *p.Content
	}
	if p.Tags != nil {
		post.Tags = *p.Tags
	}
}
