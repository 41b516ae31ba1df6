package stubapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikram98ai/docgram/internal/model"
)

// Store is the in-memory backing of the stub API. It only exists so the
// client packages have a realistic remote to talk to during development.
type Store struct {
	mu       sync.Mutex
	posts    map[string]model.Post
	order    []string
	comments map[string][]model.Comment
	messages map[string][]model.ChatMessage
	users    map[string]model.User
}

func NewStore() *Store {
	s := &Store{
		posts: make(map[string]model.Post),
		comments: make(map[string][]model.Comment),
		messages: make(map[string][]model.ChatMessage),
		users: make(map[string]model.User),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	demo := model.User{
		UserID: uuid.NewString(),
		Username: "demo",
		Email: "demo@docgram.local",
		FullName: "Demo User",
		Bio: "Seeded account of the stub API",
		CreatedAt: time.Now().Add(-90 * 24 * time.Hour),
	}
	s.users[demo.Username] = demo

	titles := []string{
		"Attention Is All You Need",
		"Designing Data-Intensive Applications, Ch. 5",
		"Go Memory Model",
	}
	for i, title := range titles {
		post := model.Post{
			ID: uuid.NewString(),
			UserID: demo.UserID,
			User: model.UserRef{
				UserID: demo.UserID,
				Username: demo.Username,
				FullName: demo.FullName,
			},
			Title: title,
			Description: "Seeded document " + title,
			PDFURL: fmt.Sprintf("https://cdn.docgram.local/pdf/%d.pdf", i),
			ThumbnailURL: fmt.Sprintf("https://cdn.docgram.local/thumb/%d.png", i),
			FileSize: int64(1 << (20 + i)),
			PageCount: 12 + i*5,
			LikesCount: int64(3 * i),
			IsPublic: true,
			CreatedAt: time.Now().Add(-time.Duration(i+1) * 24 * time.Hour),
		}
		s.posts[post.ID] = post
		s.order = append(s.order, post.ID)
	}
}

func (s *Store) ListPosts(offset int, limit int) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	if offset >= len(s.order) {
		return []model.Post{}
	}
	end := offset + limit
	if end > len(s.order) {
		end = len(s.order)
	}

	posts := make([]model.Post, 0, end-offset)
	for _, id := range s.order[offset:end] {
		posts = append(posts, s.posts[id])
	}
	return posts
}

func (s *Store) SearchPosts(query string) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	query = strings.ToLower(query)
	var posts []model.Post
	for _, id := range s.order {
		post := s.posts[id]
		if strings.Contains(strings.ToLower(post.Title), query) || strings.Contains(strings.ToLower(post.Description), query) {
			posts = append(posts, post)
		}
	}
	return posts
}

func (s *Store) GetPost(postID string) (model.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	return post, ok
}

func (s *Store) UpdatePost(postID string, update func(model.Post) model.Post) (model.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return model.Post{}, false
	}

	post = update(post)
	s.posts[postID] = post
	return post, true
}

func (s *Store) DeletePost(postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return false
	}

	delete(s.posts, postID)
	delete(s.comments, postID)
	delete(s.messages, postID)
	for i, id := range s.order {
		if id == postID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) Comments(postID string, offset int, limit int) []model.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := s.comments[postID]
	if offset >= len(comments) {
		return []model.Comment{}
	}
	end := offset + limit
	if end > len(comments) {
		end = len(comments)
	}

	return append([]model.Comment{}, comments[offset:end]...)
}

func (s *Store) AddComment(postID string, user model.User, content string) (model.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return model.Comment{}, false
	}

	comment := model.Comment{
		CommentID: uuid.NewString(),
		PostID: postID,
		UserID: user.UserID,
		User: model.UserRef{UserID: user.UserID, Username: user.Username, FullName: user.FullName},
		Content: content,
		CreatedAt: time.Now(),
	}
	s.comments[postID] = append(s.comments[postID], comment)

	post.CommentsCount++
	s.posts[postID] = post

	return comment, true
}

func (s *Store) Messages(postID string) []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := append([]model.ChatMessage{}, s.messages[postID]...)
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages
}

func (s *Store) AppendMessage(postID string, role model.Role, content string) model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	message := model.ChatMessage{
		ID: model.ConfirmedID(uuid.NewString()),
		Role: role,
		Content: content,
		Timestamp: time.Now(),
	}
	s.messages[postID] = append(s.messages[postID], message)
	return message
}

func (s *Store) DeleteMessage(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for postID, messages := range s.messages {
		for i, message := range messages {
			if message.ID.String() == messageID {
				s.messages[postID] = append(messages[:i], messages[i+1:]...)
				return true
			}
		}
	}
	return false
}

func (s *Store) FindUser(username string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	return user, ok
}

func (s *Store) FindUserByID(userID string) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.UserID == userID {
			return user, true
		}
	}
	return model.User{}, false
}

func (s *Store) SaveUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Username] = user
}

func (s *Store) AddUser(user model.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return false
	}
	s.users[user.Username] = user
	return true
}
