package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
)

// CreateMessage inserts a contact message.
func (s *Store) CreateMessage(ctx context.Context, msg *domain.Message) error {
	doc, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO messages (id, created_at, doc) VALUES (?, ?, ?)`),
		msg.ID, formatTime(msg.CreatedAt), string(doc))
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// GetMessage retrieves a contact message by its ID.
// Returns store.ErrNotFound if the message does not exist.
func (s *Store) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	var doc string
	err := s.db.GetContext(ctx, &doc, s.db.Rebind(`SELECT doc FROM messages WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}

	var msg domain.Message
	if err := json.Unmarshal([]byte(doc), &msg); err != nil {
		return nil, fmt.Errorf("unmarshal message %s: %w", id, err)
	}
	return &msg, nil
}
