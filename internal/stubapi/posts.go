package stubapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
)

func paginate(c *gin.Context) (int, int) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	return offset, limit
}

func (h *Handler) postsList(c *gin.Context) {
	offset, limit := paginate(c)
	c.JSON(http.StatusOK, h.store.ListPosts(offset, limit))
}

func (h *Handler) postsSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, "missing query"))
		return
	}
	c.JSON(http.StatusOK, h.store.SearchPosts(query))
}

func (h *Handler) postsGetByID(c *gin.Context) {
	post, ok := h.store.GetPost(c.Param("postID"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsEdit(c *gin.Context) {
	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, ok := h.store.UpdatePost(c.Param("postID"), func(post model.Post) model.Post {
		if input.Title != nil {
			post.Title = *input.Title
		}
		if input.Description != nil {
			post.Description = *input.Description
		}
		if input.IsPublic != nil {
			post.IsPublic = *input.IsPublic
		}
		return post
	})
	if !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsDelete(c *gin.Context) {
	if !h.store.DeletePost(c.Param("postID")) {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
		return
	}
	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "post deleted"))
}

func (h *Handler) postsLike(c *gin.Context) {
	_, ok := h.store.UpdatePost(c.Param("postID"), func(post model.Post) model.Post {
		if post.IsLiked {
			post.LikesCount--
		} else {
			post.LikesCount++
		}
		post.IsLiked = !post.IsLiked
		return post
	})
	if !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
		return
	}
	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "like toggled"))
}

func (h *Handler) postsBookmark(c *gin.Context) {
	_, ok := h.store.UpdatePost(c.Param("postID"), func(post model.Post) model.Post {
		post.IsBookmarked = !post.IsBookmarked
		return post
	})
	if !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
		return
	}
	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "bookmark toggled"))
}

func (h *Handler) postsToggleVisibility(c *gin.Context) {
	post, ok := h.store.UpdatePost(c.Param("postID"), func(post model.Post) model.Post {
		post.IsPublic = !post.IsPublic
		return post
	})
	if !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handler) commentsList(c *gin.Context) {
	offset, limit := paginate(c)
	c.JSON(http.StatusOK, h.store.Comments(c.Param("postID"), offset, limit))
}

func (h *Handler) commentsCreate(c *gin.Context) {
	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	comment, ok := h.store.AddComment(c.Param("postID"), h.currentUser(c), input.Content)
	if !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
		return
	}

	c.JSON(http.StatusCreated, comment)
}
