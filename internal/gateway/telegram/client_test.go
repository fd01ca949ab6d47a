package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "123:abc", time.Second, zerolog.New(io.Discard))
}

func TestClientSendMessageEncodesKeyboard(t *testing.T) {
	var received map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bot123:abc/sendMessage", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77,"chat":{"id":5,"type":"private"},"text":"Вітаємо!"}}`))
	})

	sent, err := client.SendMessage(context.Background(), SendMessageRequest{
		ChatID: 5,
		Text:   "Вітаємо!",
		ReplyMarkup: &ReplyKeyboardMarkup{
			Keyboard:       [][]KeyboardButton{{{Text: "Статистика"}}},
			ResizeKeyboard: true,
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(77), sent.MessageID)
	require.Equal(t, int64(5), sent.Chat.ID)

	require.Equal(t, float64(5), received["chat_id"])
	markup, ok := received["reply_markup"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, true, markup["resize_keyboard"])
}

func TestClientReturnsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	})

	_, err := client.SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: "x"})
	require.Error(t, err)

	apiErr, ok := IsAPIError(err)
	require.True(t, ok)
	require.Equal(t, 400, apiErr.Code)
	require.Equal(t, "sendMessage", apiErr.Method)
	require.Contains(t, apiErr.Error(), "chat not found")
}

func TestClientGetUpdatesRequestsMessagesOnly(t *testing.T) {
	var request getUpdatesRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bot123:abc/getUpdates", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":10,"message":{"message_id":1,"from":{"id":42,"first_name":"Олена"},"chat":{"id":42,"type":"private"},"text":"/start"}}]}`))
	})

	updates, err := client.GetUpdates(context.Background(), 10, 2*time.Second)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	require.Equal(t, "/start", updates[0].Message.Text)
	require.Equal(t, "Олена", updates[0].Message.From.DisplayName())

	require.Equal(t, int64(10), request.Offset)
	require.Equal(t, 2, request.Timeout)
	require.Equal(t, []string{"message"}, request.AllowedUpdates)
}

func TestClientGetMeAndWebhookCalls(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/bot123:abc/getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"RoomBot"}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		}
	})

	me, err := client.GetMe(context.Background())
	require.NoError(t, err)
	require.Equal(t, "RoomBot", me.FirstName)
	require.True(t, me.IsBot)

	require.NoError(t, client.DeleteWebhook(context.Background(), true))
	require.NoError(t, client.SetWebhook(context.Background(), "https://bot.example.com/hook", "secret", false))
	require.Equal(t, []string{"/bot123:abc/getMe", "/bot123:abc/deleteWebhook", "/bot123:abc/setWebhook"}, paths)
}

func TestClientRejectsMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.GetMe(context.Background())
	require.Error(t, err)
	_, ok := IsAPIError(err)
	require.False(t, ok)
}

func TestMessageIsText(t *testing.T) {
	require.True(t, Message{Text: "101"}.IsText())
	require.False(t, Message{Sticker: &Sticker{FileID: "x"}}.IsText())
	require.Equal(t, "Олена Коваль", User{FirstName: "Олена", LastName: "Коваль"}.DisplayName())
}
