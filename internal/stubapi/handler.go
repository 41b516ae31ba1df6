// Package stubapi serves a local, in-memory rendition of the remote Docgram
// API so the client packages can be developed and demoed without the real
// backend. It is not a production server.
package stubapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ikram98ai/docgram/internal/dto"
	"github.com/ikram98ai/docgram/internal/model"
	"go.uber.org/zap"
)

type Handler struct {
	logger    *zap.Logger
	store     *Store
	jwtSecret []byte
}

func New(logger *zap.Logger, store *Store, jwtSecret []byte) *Handler {
	return &Handler{
		logger: logger,
		store: store,
		jwtSecret: jwtSecret,
	}
}

func (h *Handler) InitRoutes(clientOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{clientOrigin},
		AllowMethods: []string{"POST", "GET", "PUT", "PATCH", "DELETE"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/login", h.login)
		v1.POST("/register", h.register)

		users := v1.Group("/users")
		{
			users.GET("/me", h.authMiddleware, h.usersMe)
			users.GET("/:userID/profile", h.usersProfile)
			users.PUT("/profile", h.authMiddleware, h.usersUpdateProfile)
		}

		posts := v1.Group("/posts")
		{
			posts.GET("", h.postsList)
			posts.GET("/feed", h.authMiddleware, h.postsList)
			posts.GET("/search", h.postsSearch)
			posts.DELETE("/messages/:messageID", h.authMiddleware, h.messagesDelete)

			post := posts.Group("/:postID")
			{
				post.GET("", h.postsGetByID)
				post.PUT("", h.authMiddleware, h.postsEdit)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/like", h.authMiddleware, h.postsLike)
				post.POST("/bookmark", h.authMiddleware, h.postsBookmark)
				post.PATCH("/visibility", h.authMiddleware, h.postsToggleVisibility)
				post.GET("/comments", h.commentsList)
				post.POST("/comments", h.authMiddleware, h.commentsCreate)
				post.GET("/messages", h.authMiddleware, h.messagesList)
				post.POST("/messages", h.authMiddleware, h.messagesSend)
			}
		}
	}

	return r
}

const userKey = "user"

func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewBasicResponse(false, "missing bearer token"))
		return
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return h.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewBasicResponse(false, "invalid token"))
		return
	}

	username, _ := claims["sub"].(string)
	user, ok := h.store.FindUser(username)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewBasicResponse(false, "unknown user"))
		return
	}

	c.Set(userKey, user)
	c.Next()
}

func (h *Handler) currentUser(c *gin.Context) model.User {
	user, _ := c.Get(userKey)
	return user.(model.User)
}

func (h *Handler) issueToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}
