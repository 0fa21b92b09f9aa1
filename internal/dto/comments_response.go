package dto

import "github.com/BloggingApp/social-service/internal/model"

type CreateCommentResponse struct {
	Message string         `json:"message"`
	Comment *model.Comment `json:"comment"`
}

type CommentThreadResponse struct {
	Data []*model.CommentNode `json:"data"`
}
