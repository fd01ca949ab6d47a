package router_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/roomfinder-bot/internal/config"
	"github.com/noah-isme/roomfinder-bot/internal/dto"
	"github.com/noah-isme/roomfinder-bot/internal/gateway/telegram"
	"github.com/noah-isme/roomfinder-bot/internal/handler"
	"github.com/noah-isme/roomfinder-bot/internal/router"
)

type echoDispatcher struct{}

func (echoDispatcher) Dispatch(_ context.Context, msg dto.IncomingMessage) ([]dto.OutgoingMessage, error) {
	return []dto.OutgoingMessage{{ChatID: msg.ChatID, Text: msg.Text}}, nil
}

type discardSender struct{}

func (discardSender) SendMessage(_ context.Context, request telegram.SendMessageRequest) (telegram.Message, error) {
	return telegram.Message{Chat: telegram.Chat{ID: request.ChatID}}, nil
}

func newApp(mode string) *fiber.App {
	cfg := config.Config{AppName: "Room Finder Bot", Telegram: config.TelegramConfig{Mode: mode}}
	botHandler := handler.NewBotHandler(echoDispatcher{}, discardSender{}, validator.New(), "", zerolog.New(io.Discard))

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{BotHandler: botHandler})
	return app
}

func webhookRequest() *http.Request {
	body := []byte(`{"update_id":7,"message":{"message_id":1,"chat":{"id":9,"type":"private"},"from":{"id":9,"first_name":"Тарас"},"text":"/start"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/telegram/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterExposesHealthAndMetrics(t *testing.T) {
	app := newApp(config.ModePolling)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "Room Finder Bot", resp.Header.Get("X-Application"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRegisterWebhookOnlyInWebhookMode(t *testing.T) {
	resp, err := newApp(config.ModePolling).Test(webhookRequest())
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = newApp(config.ModeWebhook).Test(webhookRequest())
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
