package dto

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"max=10000"`
	ParentID *int64 `json:"parentId"`
}
