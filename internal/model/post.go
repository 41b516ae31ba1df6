package model

import "time"

type Post struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	User          UserRef   `json:"user"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PDFURL        string    `json:"pdf_url"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	FileSize      int64     `json:"file_size"`
	PageCount     int       `json:"page_count"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	SharesCount   int64     `json:"shares_count"`
	IsLiked       bool      `json:"is_liked"`
	IsBookmarked  bool      `json:"is_bookmarked"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
}

type UserRef struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}
