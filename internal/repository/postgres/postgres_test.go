package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestRepo connects to TEST_DATABASE_URL and applies the migrations.
func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Ping(ctx))
	require.NoError(t, Migrate(ctx, db))
	// Running twice is a no-op.
	require.NoError(t, Migrate(ctx, db))

	return New(db, zap.NewNop())
}

func seedUser(t *testing.T, repo *repository.Repository) *model.User {
	t.Helper()
	user, err := repo.User.Create(context.Background(), model.User{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Name:      "Ada Lovelace",
		Email:     uuid.NewString() + "@example.com",
		Password:  "hash",
	})
	require.NoError(t, err)
	return user
}

func TestUserRepo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	found, err := repo.User.FindByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "hash", found.Password)

	_, err = repo.User.Create(ctx, model.User{FirstName: "X", LastName: "Y", Name: "X Y", Email: user.Email, Password: "h"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.User.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	author := seedUser(t, repo)
	reader := seedUser(t, repo)

	post, err := repo.Post.Create(ctx, model.Post{AuthorID: author.ID, Title: "T", Content: "C", Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, post.Tags)

	_, err = repo.Post.Create(ctx, model.Post{AuthorID: uuid.New(), Title: "T", Content: "C"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.Like.Create(ctx, model.Like{UserID: reader.ID, PostID: post.ID}))
	assert.ErrorIs(t, repo.Like.Create(ctx, model.Like{UserID: reader.ID, PostID: post.ID}), repository.ErrDuplicate)

	root, err := repo.Comment.Create(ctx, model.Comment{PostID: post.ID, AuthorID: reader.ID, Content: "root"})
	require.NoError(t, err)
	_, err = repo.Comment.Create(ctx, model.Comment{PostID: post.ID, AuthorID: author.ID, Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)

	full, err := repo.Post.FindFull(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", full.Author.Name)
	assert.Len(t, full.Likes, 1)
	assert.Len(t, full.Comments, 2)

	page, err := repo.Post.FindPage(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, post.ID, page[0].ID)

	post.Title = "Renamed"
	updated, err := repo.Post.Update(ctx, *post)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, author.ID, updated.AuthorID)

	require.NoError(t, repo.Post.Delete(ctx, post.ID))
	_, err = repo.Post.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Like.Find(ctx, reader.ID, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Comment.FindByID(ctx, root.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Post.Delete(ctx, post.ID), repository.ErrNotFound)
}

func TestCommentSubtreeDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	author := seedUser(t, repo)

	post, err := repo.Post.Create(ctx, model.Post{AuthorID: author.ID, Title: "T", Content: "C"})
	require.NoError(t, err)

	root, err := repo.Comment.Create(ctx, model.Comment{PostID: post.ID, AuthorID: author.ID, Content: "root"})
	require.NoError(t, err)
	reply, err := repo.Comment.Create(ctx, model.Comment{PostID: post.ID, AuthorID: author.ID, Content: "reply", ParentID: &root.ID})
	require.NoError(t, err)
	_, err = repo.Comment.Create(ctx, model.Comment{PostID: post.ID, AuthorID: author.ID, Content: "nested", ParentID: &reply.ID})
	require.NoError(t, err)
	_, err = repo.Comment.Create(ctx, model.Comment{PostID: post.ID, AuthorID: author.ID, Content: "sibling"})
	require.NoError(t, err)

	deleted, err := repo.Comment.Delete(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	left, err := repo.Comment.FindByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "sibling", left[0].Content)

	require.NoError(t, repo.Post.Delete(ctx, post.ID))
}
