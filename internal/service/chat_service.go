package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
)

const defaultChatPollInterval = 15 * time.Second

type chatRepository interface {
	List(ctx context.Context, courseID int64, limit int) ([]models.ChatMessage, error)
	Post(ctx context.Context, courseID int64, text string) (*models.ChatMessage, error)
}

// PollObserver is told about every background chat refresh.
type PollObserver interface {
	ObserveChatPoll(ok bool)
}

// ChatConfig tunes chat rooms.
type ChatConfig struct {
	Limit        int
	PollInterval time.Duration
}

type chatMessageInput struct {
	Text string `validate:"required,max=4000"`
}

// ChatService opens course chat rooms.
type ChatService struct {
	repo      chatRepository
	cfg       ChatConfig
	observer  PollObserver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChatService constructs the service. observer may be nil.
func NewChatService(repo chatRepository, cfg ChatConfig, observer PollObserver, validate *validator.Validate, logger *zap.Logger) *ChatService {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultChatPollInterval
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{repo: repo, cfg: cfg, observer: observer, validator: validate, logger: logger}
}

// Room loads the latest messages of a course chat.
func (s *ChatService) Room(ctx context.Context, courseID int64) (*ChatRoom, error) {
	room := &ChatRoom{svc: s, courseID: courseID}
	if err := room.Refresh(ctx); err != nil {
		return nil, pageError("the course chat", err)
	}
	return room, nil
}

// Post sends one message without loading the room. Blank text sends nothing
// and returns a nil message.
func (s *ChatService) Post(ctx context.Context, courseID int64, text string) (*models.ChatMessage, error) {
	room := &ChatRoom{svc: s, courseID: courseID}
	return room.Send(ctx, text)
}

// ChatRoom is an open course chat.
type ChatRoom struct {
	svc      *ChatService
	courseID int64

	mu       sync.RWMutex
	messages []models.ChatMessage
}

// Messages returns a copy of the current messages, oldest first.
func (r *ChatRoom) Messages() []models.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.ChatMessage{}, r.messages...)
}

// Page returns the room as a page view model.
func (r *ChatRoom) Page() *dto.ChatPage {
	return &dto.ChatPage{CourseID: r.courseID, Messages: r.Messages()}
}

// Refresh replaces the messages with the server's current list.
func (r *ChatRoom) Refresh(ctx context.Context) error {
	messages, err := r.svc.repo.List(ctx, r.courseID, r.svc.cfg.Limit)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.messages = nonNil(messages)
	r.mu.Unlock()
	return nil
}

// Send posts text after trimming it. Blank text sends nothing and returns a
// nil message. The stored message is appended locally without a refetch.
func (r *ChatRoom) Send(ctx context.Context, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if err := r.svc.validator.Struct(chatMessageInput{Text: text}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "message is too long")
	}

	msg, err := r.svc.repo.Post(ctx, r.courseID, text)
	if err != nil {
		return nil, withMessage(err, "Could not send the message.")
	}
	r.mu.Lock()
	r.messages = append(r.messages, *msg)
	r.mu.Unlock()
	return msg, nil
}

// Poll refreshes the room on a fixed interval until ctx is done. onUpdate,
// when set, receives the messages after every successful refresh. Failed
// refreshes are logged and polling continues.
func (r *ChatRoom) Poll(ctx context.Context, onUpdate func([]models.ChatMessage)) error {
	ticker := time.NewTicker(r.svc.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := r.Refresh(ctx)
			if r.svc.observer != nil {
				r.svc.observer.ObserveChatPoll(err == nil)
			}
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.svc.logger.Warn("chat refresh failed", zap.Int64("course_id", r.courseID), zap.Error(err))
				continue
			}
			if onUpdate != nil {
				onUpdate(r.Messages())
			}
		}
	}
}
