package repository

import (
	"context"
	"errors"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	FindFull(ctx context.Context, id int64) (*model.FullPost, error)
	// FindPage returns posts newest first with author, likes and comments.
	FindPage(ctx context.Context, limit int, offset int) ([]*model.FullPost, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, post model.Post) (*model.Post, error)
	// Delete removes the post together with its likes and comments.
	Delete(ctx context.Context, id int64) error
}

type Like interface {
	Find(ctx context.Context, userID uuid.UUID, postID int64) (*model.Like, error)
	Create(ctx context.Context, like model.Like) error
	Delete(ctx context.Context, userID uuid.UUID, postID int64) (bool, error)
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	// FindByPost returns every comment of a post, oldest first.
	FindByPost(ctx context.Context, postID int64) ([]*model.Comment, error)
	// Delete removes the comment and all of its replies and returns how many
	// rows were removed.
	Delete(ctx context.Context, id int64) (int64, error)
}

type Health interface {
	Ping(ctx context.Context) error
}

type Repository struct {
	User
	Post
	Like
	Comment
	Health
}
