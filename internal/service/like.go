package service

import (
	"context"
	"errors"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type likeService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newLikeService(logger *zap.Logger, repo *repository.Repository) Like {
	return &likeService{
		logger: logger,
		repo:   repo,
	}
}

// Toggle flips the like of userID on postID. The (user, post) key is unique,
// so concurrent toggles settle on one row at most.
func (s *likeService) Toggle(ctx context.Context, userID uuid.UUID, postID int64) (model.LikeState, error) {
	if _, err := s.repo.Post.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Unliked, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return model.Unliked, ErrInternal
	}

	_, err := s.repo.Like.Find(ctx, userID, postID)
	if err == nil {
		if _, err := s.repo.Like.Delete(ctx, userID, postID); err != nil {
			s.logger.Sugar().Errorf("failed to delete user(%s) like on post(%d): %s", userID.String(), postID, err.Error())
			return model.Unliked, ErrInternal
		}
		return model.Unliked, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Sugar().Errorf("failed to find user(%s) like on post(%d): %s", userID.String(), postID, err.Error())
		return model.Unliked, ErrInternal
	}

	if err := s.repo.Like.Create(ctx, model.Like{UserID: userID, PostID: postID}); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return model.Liked, nil
		case errors.Is(err, repository.ErrNotFound):
			return model.Unliked, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to create user(%s) like on post(%d): %s", userID.String(), postID, err.Error())
		return model.Unliked, ErrInternal
	}

	return model.Liked, nil
}
