package postgres

import (
	"context"
	"fmt"

	"github.com/BloggingApp/social-service/internal/config"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	return pool, nil
}

type healthRepo struct {
	db *pgxpool.Pool
}

func (r *healthRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func New(db *pgxpool.Pool, logger *zap.Logger) *repository.Repository {
	return &repository.Repository{
		User:    newUserRepo(db),
		Post:    newPostRepo(db, logger),
		Like:    newLikeRepo(db),
		Comment: newCommentRepo(db),
		Health:  &healthRepo{db: db},
	}
}
