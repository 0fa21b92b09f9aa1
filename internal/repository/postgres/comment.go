package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) *commentRepo {
	return &commentRepo{
		db: db,
	}
}

func scanComment(row pgx.Row, comment *model.Comment) error {
	return row.Scan(
		&comment.ID,
		&comment.ParentID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
	)
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	comment.CreatedAt = time.Now().UTC()
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO comments(parent_id, post_id, author_id, content, created_at) VALUES($1, $2, $3, $4, $5) RETURNING id",
		comment.ParentID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		return nil, mapError(err)
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	row := r.db.QueryRow(
		ctx,
		"SELECT c.id, c.parent_id, c.post_id, c.author_id, c.content, c.created_at FROM comments c WHERE c.id = $1",
		id,
	)
	if err := scanComment(row, &comment); err != nil {
		return nil, mapError(err)
	}

	return &comment, nil
}

func (r *commentRepo) FindByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT c.id, c.parent_id, c.post_id, c.author_id, c.content, c.created_at FROM comments c WHERE c.post_id = $1 ORDER BY c.created_at, c.id",
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		var comment model.Comment
		if err := scanComment(rows, &comment); err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepo) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`WITH RECURSIVE subtree AS (
			SELECT id FROM comments WHERE id = $1
			UNION ALL
			SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
		)
		DELETE FROM comments WHERE id IN (SELECT id FROM subtree)`,
		id,
	)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
