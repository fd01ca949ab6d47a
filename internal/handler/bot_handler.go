package handler

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/roomfinder-bot/internal/dto"
	"github.com/noah-isme/roomfinder-bot/internal/gateway/telegram"
	"github.com/noah-isme/roomfinder-bot/internal/middleware"
	"github.com/noah-isme/roomfinder-bot/internal/observability"
	"github.com/noah-isme/roomfinder-bot/internal/service"
)

const webhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// MessageSender delivers replies through the messaging gateway.
type MessageSender interface {
	SendMessage(ctx context.Context, request telegram.SendMessageRequest) (telegram.Message, error)
}

// BotHandler connects gateway updates to the dispatcher. Internal faults are
// logged and the message is dropped; the user never sees them.
type BotHandler struct {
	dispatcher service.DispatcherService
	sender     MessageSender
	validator  *validator.Validate
	secret     string
	logger     zerolog.Logger
}

// NewBotHandler constructs the update handler. secret guards the webhook when set.
func NewBotHandler(dispatcher service.DispatcherService, sender MessageSender, validate *validator.Validate, secret string, logger zerolog.Logger) *BotHandler {
	return &BotHandler{
		dispatcher: dispatcher,
		sender:     sender,
		validator:  validate,
		secret:     secret,
		logger:     logger.With().Str("component", "bot_handler").Logger(),
	}
}

// Register wires the webhook route.
func (h *BotHandler) Register(router fiber.Router) {
	router.Post("/webhook", h.webhook)
}

// HandleUpdate processes one update end to end.
func (h *BotHandler) HandleUpdate(ctx context.Context, update telegram.Update) {
	ctx, correlationID := middleware.EnsureCorrelation(ctx)
	logger := h.logger.With().Str("correlation_id", correlationID).Int64("update_id", update.UpdateID).Logger()

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error().Str("panic", fmt.Sprint(recovered)).Msg("update handling panicked")
		}
	}()

	if update.Message == nil {
		logger.Debug().Msg("ignoring update without message")
		return
	}

	incoming := toIncomingMessage(*update.Message)
	logger.Info().
		Int64("chat_id", incoming.ChatID).
		Int64("user_id", incoming.Sender.ID).
		Str("user_name", incoming.Sender.DisplayName).
		Str("text", incoming.Text).
		Msg("message received")

	replies, err := h.dispatcher.Dispatch(ctx, incoming)
	if err != nil {
		logger.Error().Err(err).Int64("chat_id", incoming.ChatID).Msg("failed to handle message")
		return
	}

	for _, reply := range replies {
		if _, err := h.sender.SendMessage(ctx, toSendMessageRequest(reply)); err != nil {
			observability.GatewayErrors().WithLabelValues("sendMessage").Inc()
			telegram.LogError(logger, err, "failed to send reply")
		}
	}
}

func (h *BotHandler) webhook(c *fiber.Ctx) error {
	if h.secret != "" {
		provided := c.Get(webhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
			return sendError(c, fiber.StatusUnauthorized, "invalid webhook secret")
		}
	}

	var update telegram.Update
	if err := c.BodyParser(&update); err != nil {
		return sendError(c, fiber.StatusBadRequest, "invalid update payload")
	}
	if err := h.validator.Var(update.UpdateID, "required"); err != nil {
		return sendError(c, fiber.StatusBadRequest, "update_id is required")
	}

	h.HandleUpdate(c.UserContext(), update)
	return sendSuccess(c, "update accepted", nil)
}

func toIncomingMessage(message telegram.Message) dto.IncomingMessage {
	incoming := dto.IncomingMessage{
		ChatID: message.Chat.ID,
		Text:   message.Text,
		Type:   dto.MessageTypeOther,
	}
	if message.IsText() {
		incoming.Type = dto.MessageTypeText
	}
	if message.From != nil {
		incoming.Sender = dto.Sender{ID: message.From.ID, DisplayName: message.From.DisplayName()}
	}
	return incoming
}

func toSendMessageRequest(reply dto.OutgoingMessage) telegram.SendMessageRequest {
	request := telegram.SendMessageRequest{ChatID: reply.ChatID, Text: reply.Text}
	if reply.Keyboard == nil {
		return request
	}

	rows := make([][]telegram.KeyboardButton, 0, len(reply.Keyboard.Rows))
	for _, labels := range reply.Keyboard.Rows {
		row := make([]telegram.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			row = append(row, telegram.KeyboardButton{Text: label})
		}
		rows = append(rows, row)
	}
	request.ReplyMarkup = &telegram.ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: reply.Keyboard.Resize}
	return request
}
