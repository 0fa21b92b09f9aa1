// Package memory is a process-local implementation of the repository
// interfaces. It mirrors the constraints of the Postgres schema (unique email,
// one like per user and post, cascading deletes) and backs the test suites and
// the "memory" store driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/BloggingApp/social-service/internal/model"
	"github.com/BloggingApp/social-service/internal/repository"
	"github.com/google/uuid"
)

type likeKey struct {
	userID uuid.UUID
	postID int64
}

type store struct {
	mu sync.RWMutex

	users         map[uuid.UUID]model.User
	usersByEmail  map[string]uuid.UUID
	posts         map[int64]model.Post
	likes         map[likeKey]model.Like
	comments      map[int64]model.Comment
	nextPostID    int64
	nextCommentID int64
	now           func() time.Time
}

func New() *repository.Repository {
	s := &store{
		users:        make(map[uuid.UUID]model.User),
		usersByEmail: make(map[string]uuid.UUID),
		posts:        make(map[int64]model.Post),
		likes:        make(map[likeKey]model.Like),
		comments:     make(map[int64]model.Comment),
		now:          nextInstant(),
	}

	return &repository.Repository{
		User:    &userRepo{s},
		Post:    &postRepo{s},
		Like:    &likeRepo{s},
		Comment: &commentRepo{s},
		Health:  &healthRepo{},
	}
}

// nextInstant returns a clock that never repeats, so creation order is also
// timestamp order.
func nextInstant() func() time.Time {
	var last time.Time
	return func() time.Time {
		now := time.Now().UTC()
		if !now.After(last) {
			now = last.Add(time.Microsecond)
		}
		last = now
		return now
	}
}

type healthRepo struct{}

func (healthRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

type userRepo struct{ s *store }

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.usersByEmail[user.Email]; exists {
		return nil, repository.ErrDuplicate
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.s.now()

	r.s.users[user.ID] = user
	r.s.usersByEmail[user.Email] = user.ID

	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usersByEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := r.s.users[id]
	return &user, nil
}

type postRepo struct{ s *store }

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[post.AuthorID]; !ok {
		return nil, repository.ErrNotFound
	}

	r.s.nextPostID++
	post.ID = r.s.nextPostID
	post.CreatedAt = r.s.now()
	post.UpdatedAt = post.CreatedAt
	post.Tags = cloneTags(post.Tags)
	r.s.posts[post.ID] = post

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	post.Tags = cloneTags(post.Tags)
	return &post, nil
}

func (r *postRepo) FindFull(ctx context.Context, id int64) (*model.FullPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.s.fullPost(post), nil
}

func (r *postRepo) FindPage(ctx context.Context, limit int, offset int) ([]*model.FullPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ordered := make([]model.Post, 0, len(r.s.posts))
	for _, post := range r.s.posts {
		ordered = append(ordered, post)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].ID > ordered[j].ID
		}
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})

	posts := make([]*model.FullPost, 0, limit)
	for i := offset; i < len(ordered) && len(posts) < limit; i++ {
		posts = append(posts, r.s.fullPost(ordered[i]))
	}

	return posts, nil
}

func (r *postRepo) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return int64(len(r.s.posts)), nil
}

func (r *postRepo) Update(ctx context.Context, post model.Post) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.posts[post.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	stored.Title = post.Title
	stored.Content = post.Content
	stored.Tags = cloneTags(post.Tags)
	stored.UpdatedAt = r.s.now()
	r.s.posts[post.ID] = stored

	stored.Tags = cloneTags(stored.Tags)
	return &stored, nil
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	for key := range r.s.likes {
		if key.postID == id {
			delete(r.s.likes, key)
		}
	}
	for commentID, comment := range r.s.comments {
		if comment.PostID == id {
			delete(r.s.comments, commentID)
		}
	}
	delete(r.s.posts, id)

	return nil
}

// fullPost must be called with the read lock held.
func (s *store) fullPost(post model.Post) *model.FullPost {
	full := &model.FullPost{
		Post:     post,
		Likes:    make([]*model.Like, 0),
		Comments: make([]*model.Comment, 0),
	}
	full.Tags = cloneTags(post.Tags)
	if author, ok := s.users[post.AuthorID]; ok {
		full.Author = author.Author()
	}

	for _, like := range s.likes {
		if like.PostID == post.ID {
			like := like
			full.Likes = append(full.Likes, &like)
		}
	}
	sort.Slice(full.Likes, func(i, j int) bool {
		return full.Likes[i].CreatedAt.Before(full.Likes[j].CreatedAt)
	})

	full.Comments = s.postComments(post.ID)

	return full
}

// postComments must be called with the read lock held.
func (s *store) postComments(postID int64) []*model.Comment {
	comments := make([]*model.Comment, 0)
	for _, comment := range s.comments {
		if comment.PostID == postID {
			comment := comment
			comments = append(comments, &comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments
}

type likeRepo struct{ s *store }

func (r *likeRepo) Find(ctx context.Context, userID uuid.UUID, postID int64) (*model.Like, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	like, ok := r.s.likes[likeKey{userID, postID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &like, nil
}

func (r *likeRepo) Create(ctx context.Context, like model.Like) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[like.PostID]; !ok {
		return repository.ErrNotFound
	}
	key := likeKey{like.UserID, like.PostID}
	if _, exists := r.s.likes[key]; exists {
		return repository.ErrDuplicate
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = r.s.now()
	}
	r.s.likes[key] = like

	return nil
}

func (r *likeRepo) Delete(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := likeKey{userID, postID}
	if _, exists := r.s.likes[key]; !exists {
		return false, nil
	}
	delete(r.s.likes, key)

	return true, nil
}

type commentRepo struct{ s *store }

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[comment.PostID]; !ok {
		return nil, repository.ErrNotFound
	}
	if comment.ParentID != nil {
		if _, ok := r.s.comments[*comment.ParentID]; !ok {
			return nil, repository.ErrNotFound
		}
	}

	r.s.nextCommentID++
	comment.ID = r.s.nextCommentID
	comment.CreatedAt = r.s.now()
	r.s.comments[comment.ID] = comment

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	comment, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &comment, nil
}

func (r *commentRepo) FindByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.postComments(postID), nil
}

func (r *commentRepo) Delete(ctx context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return 0, nil
	}

	children := make(map[int64][]int64)
	for _, comment := range r.s.comments {
		if comment.ParentID != nil {
			children[*comment.ParentID] = append(children[*comment.ParentID], comment.ID)
		}
	}

	var deleted int64
	queue := []int64{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		delete(r.s.comments, current)
		deleted++
		queue = append(queue, children[current]...)
	}

	return deleted, nil
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
