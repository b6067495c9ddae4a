package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotSendMessage(t *testing.T) {
	var got SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	bot := New(srv.URL, "token")
	require.NoError(t, bot.SendMessage(context.Background(), 42, "hello"))
	assert.Equal(t, int64(42), got.ChatID)
	assert.Equal(t, "hello", got.Text)
}

func TestBotSendDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendDocument", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "42", r.FormValue("chat_id"))

		file, header, err := r.FormFile("document")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "answers.csv", header.Filename)
		assert.Equal(t, "Technology,Question,Answer\n", string(data))

		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	bot := New(srv.URL, "token")
	require.NoError(t, bot.SendDocument(context.Background(), 42, "answers.csv", []byte("Technology,Question,Answer\n")))
}

func TestBotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": false, "description": "Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	err := New(srv.URL, "token").SendMessage(context.Background(), 1, "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestBotGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/getUpdates", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("offset"))
		_, _ = w.Write([]byte(`{"ok": true, "result": [{"update_id": 5, "message": {"message_id": 1, "from": {"id": 9, "first_name": "Ada"}, "chat": {"id": 9, "type": "private"}, "text": "/start"}}]}`))
	}))
	defer srv.Close()

	updates, err := New(srv.URL, "token").GetUpdates(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "/start", updates[0].Message.Text)
	assert.Equal(t, int64(9), updates[0].Message.From.ID)
}

func TestStartPollingStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true, "result": [{"update_id": 1, "message": {"message_id": 1, "from": {"id": 9}, "chat": {"id": 9}, "text": "hi"}}]}`))
	}))
	defer srv.Close()

	var handled []string
	err := New(srv.URL, "token").StartPolling(ctx, func(_ context.Context, u Update) {
		handled = append(handled, u.Message.Text)
		cancel()
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, handled)
}
