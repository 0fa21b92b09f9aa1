package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserAuthor is the public summary embedded into posts.
type UserAuthor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Image *string   `json:"image"`
}

func (u *User) Author() UserAuthor {
	return UserAuthor{
		ID:    u.ID,
		Name:  u.Name,
		Image: u.Image,
	}
}
