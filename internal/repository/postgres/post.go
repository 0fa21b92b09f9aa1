package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const fullPostSelect = `SELECT
	p.id, p.author_id, p.title, p.content, p.tags, p.created_at, p.updated_at, u.name, u.image
	FROM posts p
	JOIN users u ON p.author_id = u.id`

type postRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func newPostRepo(db *pgxpool.Pool, logger *zap.Logger) *postRepo {
	return &postRepo{
		db:     db,
		logger: logger,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO posts(author_id, title, content, tags, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6) RETURNING id",
		post.AuthorID,
		post.Title,
		post.Content,
		post.Tags,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return nil, mapError(err)
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := r.db.QueryRow(
		ctx,
		"SELECT p.id, p.author_id, p.title, p.content, p.tags, p.created_at, p.updated_at FROM posts p WHERE p.id = $1",
		id,
	).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.Tags,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}

	return &post, nil
}

func (r *postRepo) FindFull(ctx context.Context, id int64) (*model.FullPost, error) {
	posts, err := r.findFull(ctx, fullPostSelect+" WHERE p.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, repository.ErrNotFound
	}

	return posts[0], nil
}

func (r *postRepo) FindPage(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	return r.findFull(
		ctx,
		fullPostSelect+" ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2",
		limit,
		offset,
	)
}

func (r *postRepo) findFull(ctx context.Context, query string, args ...interface{}) ([]*model.FullPost, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*model.FullPost, 0)
	postsMap := make(map[int64]*model.FullPost)
	ids := make([]int64, 0)
	for rows.Next() {
		post := &model.FullPost{
			Likes:    make([]*model.Like, 0),
			Comments: make([]*model.Comment, 0),
		}
		if err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Title,
			&post.Content,
			&post.Tags,
			&post.CreatedAt,
			&post.UpdatedAt,
			&post.Author.Name,
			&post.Author.Image,
		); err != nil {
			return nil, err
		}
		post.Author.ID = post.AuthorID

		posts = append(posts, post)
		postsMap[post.ID] = post
		ids = append(ids, post.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return posts, nil
	}

	if err := r.attachLikes(ctx, ids, postsMap); err != nil {
		return nil, err
	}
	if err := r.attachComments(ctx, ids, postsMap); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) attachLikes(ctx context.Context, ids []int64, postsMap map[int64]*model.FullPost) error {
	rows, err := r.db.Query(
		ctx,
		"SELECT l.user_id, l.post_id, l.created_at FROM likes l WHERE l.post_id = ANY($1) ORDER BY l.created_at",
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var like model.Like
		if err := rows.Scan(&like.UserID, &like.PostID, &like.CreatedAt); err != nil {
			return err
		}
		if post, ok := postsMap[like.PostID]; ok {
			post.Likes = append(post.Likes, &like)
		}
	}

	return rows.Err()
}

func (r *postRepo) attachComments(ctx context.Context, ids []int64, postsMap map[int64]*model.FullPost) error {
	rows, err := r.db.Query(
		ctx,
		"SELECT c.id, c.parent_id, c.post_id, c.author_id, c.content, c.created_at FROM comments c WHERE c.post_id = ANY($1) ORDER BY c.created_at, c.id",
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var comment model.Comment
		if err := scanComment(rows, &comment); err != nil {
			return err
		}
		if post, ok := postsMap[comment.PostID]; ok {
			post.Comments = append(post.Comments, &comment)
		}
	}

	return rows.Err()
}

func (r *postRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postRepo) Update(ctx context.Context, post model.Post) (*model.Post, error) {
	post.UpdatedAt = time.Now().UTC()
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if err := r.db.QueryRow(
		ctx,
		"UPDATE posts SET title = $2, content = $3, tags = $4, updated_at = $5 WHERE id = $1 RETURNING author_id, created_at",
		post.ID,
		post.Title,
		post.Content,
		post.Tags,
		post.UpdatedAt,
	).Scan(&post.AuthorID, &post.CreatedAt); err != nil {
		return nil, mapError(err)
	}

	return &post, nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		likes, err := tx.Exec(ctx, "DELETE FROM likes WHERE post_id = $1", id)
		if err != nil {
			return err
		}

		comments, err := tx.Exec(ctx, "DELETE FROM comments WHERE post_id = $1", id)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}

		r.logger.Debug("post deleted",
			zap.Int64("post_id", id),
			zap.Int64("likes", likes.RowsAffected()),
			zap.Int64("comments", comments.RowsAffected()),
		)

		return nil
	})
}
