package service

import (
	"context"
	"errors"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
	opts   Options
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, opts Options) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
		opts:   opts,
	}
}

func (s *commentService) Create(ctx context.Context, postID int64, userID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthorized
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.repo.Comment.FindByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrParentNotFound
			}
			s.logger.Sugar().Errorf("failed to find parent comment(%d): %s", *input.ParentID, err.Error())
			return nil, ErrInternal
		}
		if parent.PostID != postID {
			return nil, ErrParentMismatch
		}
	}

	comment, err := s.repo.Comment.Create(ctx, model.Comment{
		ParentID: input.ParentID,
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// post, parent or author vanished between the checks and the insert
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to create user(%s) comment on post(%d): %s", userID.String(), postID, err.Error())
		return nil, ErrInternal
	}

	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, postID int64, commentID int64, userID uuid.UUID) error {
	comment, err := s.repo.Comment.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}
	if comment.PostID != postID {
		return ErrCommentNotFound
	}
	if comment.AuthorID != userID {
		return ErrForbiddenCommentDelete
	}

	deleted, err := s.repo.Comment.Delete(ctx, commentID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", commentID, err.Error())
		return ErrInternal
	}
	if deleted == 0 {
		return ErrCommentNotFound
	}

	return nil
}

// Thread returns the comment forest of a post. Levels below depth are cut off;
// depth < 1 means the configured default.
func (s *commentService) Thread(ctx context.Context, postID int64, depth int) ([]*model.CommentNode, error) {
	if depth < 1 {
		depth = s.opts.MaxDepth
	}
	if depth > MAX_THREAD_DEPTH {
		depth = MAX_THREAD_DEPTH
	}

	if err := s.ensurePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByPost(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comments of post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	return buildThread(comments, depth), nil
}

func (s *commentService) ensurePost(ctx context.Context, postID int64) error {
	if _, err := s.repo.Post.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return ErrInternal
	}
	return nil
}

// buildThread materializes comments (oldest first) level by level. Replies
// keep the input order.
func buildThread(comments []*model.Comment, depth int) []*model.CommentNode {
	children := make(map[int64][]*model.Comment)
	roots := make([]*model.CommentNode, 0)
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, &model.CommentNode{Comment: *c, Replies: make([]*model.CommentNode, 0)})
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	level := roots
	for d := 1; d < depth && len(level) > 0; d++ {
		next := make([]*model.CommentNode, 0)
		for _, node := range level {
			for _, c := range children[node.ID] {
				child := &model.CommentNode{Comment: *c, Replies: make([]*model.CommentNode, 0)}
				node.Replies = append(node.Replies, child)
				next = append(next, child)
			}
		}
		level = next
	}

	return roots
}
