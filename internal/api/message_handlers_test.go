package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmarkiv/filmarkiv-server/internal/domain"
	"github.com/filmarkiv/filmarkiv-server/internal/id"
)

func TestCreateMessage(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/messages", contentTypeJSON, jsonBody(`{"name":"Ada","email":"ada@example.com","message":"Hej!"}`))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Success)

	var msg domain.Message
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.True(t, id.Valid(id.PrefixMessage, msg.ID))
	assert.Equal(t, "Ada", msg.Name)

	stored, err := ts.store.GetMessage(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hej!", stored.Message)
}

func TestCreateMessage_NoValidation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/messages", contentTypeJSON, jsonBody(`{}`))

	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestCreateMessage_MalformedBodyIsServerfel(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/messages", contentTypeJSON, jsonBody(`{"name":`))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"success":false,"error":"Serverfel"}`, resp.Body.String())
}

type brokenMessageStore struct{}

func (brokenMessageStore) CreateMessage(context.Context, *domain.Message) error {
	return errors.New("connection reset")
}

func (brokenMessageStore) GetMessage(context.Context, string) (*domain.Message, error) {
	return nil, errors.New("connection reset")
}

func TestCreateMessage_StoreFailureIsServerfel(t *testing.T) {
	ts := setupTestServer(t, withMessageStore(brokenMessageStore{}))

	resp := ts.api.Post("/api/messages", contentTypeJSON, jsonBody(`{"name":"Ada"}`))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.JSONEq(t, `{"success":false,"error":"Serverfel"}`, resp.Body.String())
}

func TestCreateMessage_RateLimited(t *testing.T) {
	ts := setupTestServer(t, withMessageLimit(1))
	body := `{"name":"Ada"}`

	resp := ts.api.Post("/api/messages", contentTypeJSON, "X-Forwarded-For: 10.0.0.1", jsonBody(body))
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Post("/api/messages", contentTypeJSON, "X-Forwarded-For: 10.0.0.1", jsonBody(body))
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)

	// Other clients have their own bucket.
	resp = ts.api.Post("/api/messages", contentTypeJSON, "X-Forwarded-For: 10.0.0.2", jsonBody(body))
	assert.Equal(t, http.StatusCreated, resp.Code)
}
