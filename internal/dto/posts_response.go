package dto

import "github.com/BloggingApp/social-service/internal/model"

type PostsMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	TotalPages int64 `json:"totalPages"`
	Limit      int   `json:"limit"`
}

type PostsResponse struct {
	Data []*model.FullPost `json:"data"`
	Meta PostsMeta         `json:"meta"`
}
