package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/response"
)

type chatMessageWire struct {
	ID         int64       `json:"id"`
	CourseID   int64       `json:"course_id"`
	AuthorID   int64       `json:"author_id"`
	AuthorName string      `json:"author_name"`
	IsTeacher  bool        `json:"is_teacher"`
	Text       string      `json:"text"`
	CreatedAt  models.Time `json:"created_at"`
}

func (w chatMessageWire) toModel() models.ChatMessage {
	return models.ChatMessage{
		ID:         w.ID,
		CourseID:   w.CourseID,
		AuthorID:   w.AuthorID,
		AuthorName: w.AuthorName,
		IsTeacher:  w.IsTeacher,
		Text:       w.Text,
		CreatedAt:  w.CreatedAt,
	}
}

// ChatRepository reads and posts course chat messages.
type ChatRepository struct {
	api API
}

// NewChatRepository constructs the repository.
func NewChatRepository(api API) *ChatRepository {
	return &ChatRepository{api: api}
}

func chatPath(courseID int64) string {
	return fmt.Sprintf("/courses/%d/chat/messages", courseID)
}

// List returns the latest messages, oldest first. A zero limit is not sent.
func (r *ChatRepository) List(ctx context.Context, courseID int64, limit int) ([]models.ChatMessage, error) {
	query := url.Values{}
	httpclient.SetInt(query, "limit", limit)

	var wire response.Items[chatMessageWire]
	if err := r.api.Do(ctx, httpclient.Request{Path: chatPath(courseID), Query: query}, &wire); err != nil {
		return nil, err
	}
	items := wire.List()
	out := make([]models.ChatMessage, 0, len(items))
	for _, item := range items {
		out = append(out, item.toModel())
	}
	return out, nil
}

// Post sends a message and returns it as stored by the server.
func (r *ChatRepository) Post(ctx context.Context, courseID int64, text string) (*models.ChatMessage, error) {
	var wire chatMessageWire
	body := map[string]string{"text": text}
	if err := r.api.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: chatPath(courseID), Body: body}, &wire); err != nil {
		return nil, err
	}
	msg := wire.toModel()
	return &msg, nil
}
