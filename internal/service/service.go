package service

import (
	"context"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/BloggingApp/social-service/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DEFAULT_LIMIT    = 5
	MAX_LIMIT        = 100
	DEFAULT_DEPTH    = 10
	MAX_THREAD_DEPTH = 50
)

type Auth interface {
	Signup(ctx context.Context, input dto.SignupRequest) (*dto.AuthResponse, error)
	Signin(ctx context.Context, input dto.SigninRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type Post interface {
	List(ctx context.Context, page int, limit int) (*dto.PostsResponse, error)
	Get(ctx context.Context, postID int64) (*model.FullPost, error)
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, error)
	Update(ctx context.Context, postID int64, userID uuid.UUID, patch model.PostPatch) (*model.Post, error)
	Delete(ctx context.Context, postID int64, userID uuid.UUID) error
}

type Like interface {
	Toggle(ctx context.Context, userID uuid.UUID, postID int64) (model.LikeState, error)
}

type Comment interface {
	Create(ctx context.Context, postID int64, userID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error)
	Delete(ctx context.Context, postID int64, commentID int64, userID uuid.UUID) error
	Thread(ctx context.Context, postID int64, depth int) ([]*model.CommentNode, error)
}

type Options struct {
	DefaultLimit int
	MaxLimit     int
	MaxDepth     int
}

func (o Options) withDefaults() Options {
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = DEFAULT_LIMIT
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = MAX_LIMIT
	}
	if o.MaxLimit < o.DefaultLimit {
		o.MaxLimit = o.DefaultLimit
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DEFAULT_DEPTH
	}
	if o.MaxDepth > MAX_THREAD_DEPTH {
		o.MaxDepth = MAX_THREAD_DEPTH
	}
	return o
}

type Service struct {
	Auth
	Post
	Like
	Comment
	repo *repository.Repository
}

func New(logger *zap.Logger, repo *repository.Repository, tokens *utils.TokenManager, hasher *utils.PasswordHasher, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		Auth:    newAuthService(logger, repo, tokens, hasher),
		Post:    newPostService(logger, repo, opts),
		Like:    newLikeService(logger, repo),
		Comment: newCommentService(logger, repo, opts),
		repo:    repo,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Health.Ping(ctx)
}
