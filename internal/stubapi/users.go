package stubapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
)

// The stub accepts any password; it issues real signed tokens so the client
// auth path is exercised end to end.
func (h *Handler) login(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, ok := h.store.FindUser(input.Username)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, "unknown user"))
		return
	}

	token, err := h.issueToken(user.Username)
	if err != nil {
		h.logger.Sugar().Errorf("failed to issue token for user(%s): %s", user.Username, err.Error())
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, "failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{AccessToken: token, User: user})
}

func (h *Handler) register(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user := model.User{
		UserID: uuid.NewString(),
		Username: input.Username,
		Email: input.Email,
		FullName: strings.TrimSpace(input.FirstName + " " + input.LastName),
		Bio: input.Bio,
		CreatedAt: time.Now(),
	}
	if !h.store.AddUser(user) {
		c.JSON(http.StatusConflict, dto.NewBasicResponse(false, "username already taken"))
		return
	}

	token, err := h.issueToken(user.Username)
	if err != nil {
		h.logger.Sugar().Errorf("failed to issue token for user(%s): %s", user.Username, err.Error())
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, "failed to issue token"))
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{AccessToken: token, User: user})
}

func (h *Handler) usersMe(c *gin.Context) {
	c.JSON(http.StatusOK, h.currentUser(c))
}

func (h *Handler) usersProfile(c *gin.Context) {
	user, ok := h.store.FindUserByID(c.Param("userID"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, "user not found"))
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersUpdateProfile(c *gin.Context) {
	var input dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user := h.currentUser(c)
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.FirstName != nil || input.LastName != nil {
		first, last := "", ""
		if input.FirstName != nil {
			first = *input.FirstName
		}
		if input.LastName != nil {
			last = *input.LastName
		}
		user.FullName = strings.TrimSpace(first + " " + last)
	}

	h.store.SaveUser(user)
	c.JSON(http.StatusOK, user)
}
