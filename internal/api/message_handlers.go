package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/filmarkiv/filmarkiv-server/internal/api/dto"
	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/service"
)

func (s *Server) registerMessageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:      "createMessage",
		Method:           http.MethodPost,
		Path:             "/api/messages",
		Summary:          "Send a contact message",
		Description:      "Stores a contact form message. Every failure is reported as Serverfel.",
		Tags:             []string{"Messages"},
		DefaultStatus:    http.StatusCreated,
		SkipValidateBody: true,
	}, s.handleCreateMessage)
}

// CreateMessageInput carries the raw contact message.
type CreateMessageInput struct {
	RawBody []byte `contentType:"application/json"`

	clientIP string
}

// Resolve records the caller's address for rate limiting.
func (i *CreateMessageInput) Resolve(ctx huma.Context) []error {
	i.clientIP = clientIP(ctx.RemoteAddr())
	return nil
}

// MessageOutput wraps a stored message for huma.
type MessageOutput struct {
	Body dto.DataResponse[*domain.Message]
}

func (s *Server) handleCreateMessage(ctx context.Context, input *CreateMessageInput) (*MessageOutput, error) {
	if s.messageLimiter != nil && !s.messageLimiter.Allow(input.clientIP) {
		s.logger.WarnContext(ctx, "message rate limit exceeded", "ip", input.clientIP)
		return nil, newAPIError(http.StatusTooManyRequests, "Too many messages. Please try again later.")
	}

	var req service.MessageInput
	if len(bytes.TrimSpace(input.RawBody)) > 0 {
		if err := json.Unmarshal(input.RawBody, &req); err != nil {
			s.logger.WarnContext(ctx, "failed to decode message", "error", err)
			return nil, newAPIError(http.StatusInternalServerError, serverFel)
		}
	}

	msg, err := s.services.Message.Create(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to store message", "error", err)
		return nil, newAPIError(http.StatusInternalServerError, serverFel)
	}

	return &MessageOutput{Body: dto.NewData(msg)}, nil
}
