package stubapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
)

func (h *Handler) messagesList(c *gin.Context) {
	if _, ok := h.store.GetPost(c.Param("postID")); !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
		return
	}
	c.JSON(http.StatusOK, h.store.Messages(c.Param("postID")))
}

// messagesSend answers with a chunked plain-text stream, flushed word by
// word, the way the real assistant endpoint replies.
func (h *Handler) messagesSend(c *gin.Context) {
	postID := c.Param("postID")
	post, ok := h.store.GetPost(postID)
	if !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
		return
	}

	var input dto.SendMessageRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	h.store.AppendMessage(postID, model.RoleUser, input.Query)

	reply := fmt.Sprintf(
		"You asked about %q: %s. The document has %d pages; this stubbed assistant cannot read them, but it can stream.",
		post.Title, strings.TrimSpace(input.Query), post.PageCount,
	)

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/plain; charset=utf-8")

	flusher, canFlush := c.Writer.(http.Flusher)
	for _, word := range strings.SplitAfter(reply, " ") {
		if _, err := c.Writer.WriteString(word); err != nil {
			h.logger.Sugar().Errorf("failed to stream chat reply for post(%s): %s", postID, err.Error())
			return
		}
		if canFlush {
			flusher.Flush()
		}
		time.Sleep(10 * time.Millisecond)
	}

	h.store.AppendMessage(postID, model.RoleAssistant, reply)
}

func (h *Handler) messagesDelete(c *gin.Context) {
	if !h.store.DeleteMessage(c.Param("messageID")) {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "message not found"))
		return
	}
	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "message deleted"))
}
