package postgres

import (
	"context"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userRepo struct {
	db *pgxpool.Pool
}

func newUserRepo(db *pgxpool.Pool) *userRepo {
	return &userRepo{
		db: db,
	}
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now().UTC()

	if _, err := r.db.Exec(
		ctx,
		"INSERT INTO users(id, first_name, last_name, name, email, password, image, created_at) VALUES($1, $2, $3, $4, $5, $6, $7, $8)",
		user.ID,
		user.FirstName,
		user.LastName,
		user.Name,
		user.Email,
		user.Password,
		user.Image,
		user.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}

	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, "WHERE u.id = $1", id)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "WHERE u.email = $1", email)
}

func (r *userRepo) findOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	var (
		user     model.User
		password *string
	)
	if err := r.db.QueryRow(
		ctx,
		"SELECT u.id, u.first_name, u.last_name, u.name, u.email, u.password, u.image, u.created_at FROM users u "+where,
		arg,
	).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Name,
		&user.Email,
		&password,
		&user.Image,
		&user.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	if password != nil {
		user.Password = *password
	}

	return &user, nil
}
