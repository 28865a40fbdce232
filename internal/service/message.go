package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/id"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

// MessageInput is a contact-form submission as received.
type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// MessageService stores contact messages. Nothing is validated.
type MessageService struct {
	store  store.MessageStore
	logger *slog.Logger
}

// NewMessageService creates a new message service.
func NewMessageService(store store.MessageStore, logger *slog.Logger) *MessageService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MessageService{store: store, logger: logger}
}

// Create stores a new message.
func (s *MessageService) Create(ctx context.Context, in MessageInput) (*domain.Message, error) {
	msgID, err := id.Generate(id.PrefixMessage)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		Document: domain.Document{ID: msgID},
		Name:     in.Name,
		Email:    in.Email,
		Message:  in.Message,
	}
	msg.InitTimestamps()

	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	s.logger.InfoContext(ctx, "message received", "id", msg.ID)
	return msg, nil
}
