package dto

import "github.com/BloggingApp/social-service/internal/model"

type CreatePostRequest struct {
	Title   string   `json:"title" binding:"max=200"`
	Content string   `json:"content" binding:"max=10000"`
	Tags    []string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

type EditPostRequest struct {
	Title   *string   `json:"title" binding:"omitempty,max=200"`
	Content *string   `json:"content" binding:"omitempty,max=10000"`
	Tags    *[]string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

func (r EditPostRequest) Patch() model.PostPatch {
	return model.PostPatch{
		Title:   r.Title,
		Content: r.Content,
		Tags:    r.Tags,
	}
}
