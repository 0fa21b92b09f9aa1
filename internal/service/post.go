package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
	opts   Options
}

func newPostService(logger *zap.Logger, repo *repository.Repository, opts Options) Post {
	return &postService{
		logger: logger,
		repo:   repo,
		opts:   opts,
	}
}

// normalizePage applies the defaults for absent or invalid values and caps
// limit at the configured maximum.
func (s *postService) normalizePage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.opts.DefaultLimit
	}
	if limit > s.opts.MaxLimit {
		limit = s.opts.MaxLimit
	}
	return page, limit
}

func (s *postService) List(ctx context.Context, page int, limit int) (*dto.PostsResponse, error) {
	page, limit = s.normalizePage(page, limit)

	var (
		posts = make([]*model.FullPost, 0)
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.repo.Post.Count(gctx)
		return err
	})
	if page-1 <= (math.MaxInt32-1)/limit {
		offset := (page - 1) * limit
		g.Go(func() error {
			found, err := s.repo.Post.FindPage(gctx, limit, offset)
			if err != nil {
				return err
			}
			if found != nil {
				posts = found
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Sugar().Errorf("failed to list posts(page %d, limit %d): %s", page, limit, err.Error())
		return nil, ErrInternal
	}

	return &dto.PostsResponse{
		Data: posts,
		Meta: dto.PostsMeta{
			Total:      total,
			Page:       page,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			Limit:      limit,
		},
	}, nil
}

func (s *postService) Get(ctx context.Context, postID int64) (*model.FullPost, error) {
	post, err := s.repo.Post.FindFull(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	return post, nil
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error) {
	if authorID == uuid.Nil {
		return nil, ErrNotAuthorized
	}

	post := model.Post{
		AuthorID: authorID,
		Title:    strings.TrimSpace(input.Title),
		Content:  strings.TrimSpace(input.Content),
		Tags:     normalizeTags(input.Tags),
	}
	if post.Title == "" || post.Content == "" {
		return nil, ErrTitleContentRequired
	}

	createdPost, err := s.repo.Post.Create(ctx, post)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotAuthorized
		}
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	return createdPost, nil
}

func (s *postService) Update(ctx context.Context, postID int64, userID uuid.UUID, patch model.PostPatch) (*model.Post, error) {
	post, err := s.findOwned(ctx, postID, userID, ErrForbiddenPostUpdate)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrTitleContentRequired
		}
		patch.Title = &title
	}
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, ErrTitleContentRequired
		}
		patch.Content = &content
	}
	if patch.Tags != nil {
		tags := normalizeTags(*patch.Tags)
		patch.Tags = &tags
	}
	patch.Apply(post)

	updatedPost, err := s.repo.Post.Update(ctx, *post)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to update post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	return updatedPost, nil
}

func (s *postService) Delete(ctx context.Context, postID int64, userID uuid.UUID) error {
	if _, err := s.findOwned(ctx, postID, userID, ErrForbiddenPostDelete); err != nil {
		return err
	}

	if err := s.repo.Post.Delete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%d): %s", postID, err.Error())
		return ErrInternal
	}

	return nil
}

// findOwned loads a post and stops with forbidden when userID is not its author.
func (s *postService) findOwned(ctx context.Context, postID int64, userID uuid.UUID, forbidden error) (*model.Post, error) {
	post, err := s.repo.Post.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return nil, ErrInternal
	}

	if post.AuthorID != userID {
		return nil, forbidden
	}

	return post, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
