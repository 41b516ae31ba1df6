package dto

type GetPostsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type EditPostRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type SendMessageRequest struct {
	Query string `json:"query" binding:"required,min=1"`
}
