package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type likeRepo struct {
	db *pgxpool.Pool
}

func newLikeRepo(db *pgxpool.Pool) *likeRepo {
	return &likeRepo{
		db: db,
	}
}

func (r *likeRepo) Find(ctx context.Context, userID uuid.UUID, postID int64) (*model.Like, error) {
	var like model.Like
	if err := r.db.QueryRow(
		ctx,
		"SELECT l.user_id, l.post_id, l.created_at FROM likes l WHERE l.user_id = $1 AND l.post_id = $2",
		userID,
		postID,
	).Scan(&like.UserID, &like.PostID, &like.CreatedAt); err != nil {
		return nil, mapError(err)
	}

	return &like, nil
}

func (r *likeRepo) Create(ctx context.Context, like model.Like) error {
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(
		ctx,
		"INSERT INTO likes(user_id, post_id, created_at) VALUES($1, $2, $3)",
		like.UserID,
		like.PostID,
		like.CreatedAt,
	)
	return mapError(err)
}

func (r *likeRepo) Delete(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM likes WHERE user_id = $1 AND post_id = $2", userID, postID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
