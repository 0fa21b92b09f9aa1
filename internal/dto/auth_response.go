package dto

import "github.com/BloggingApp/social-service/internal/model"

type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}
