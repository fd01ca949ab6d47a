package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// allowedUpdates restricts delivery to chat messages.
var allowedUpdates = []string{"message"}

// APIError is an unsuccessful Bot API reply.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram api error [%d] %s: %s", e.Code, e.Method, e.Description)
}

// IsAPIError reports whether err is an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Client talks to the Telegram Bot API over HTTPS. Calls are made once; failures
// are returned to the caller without retries.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewClient constructs a Bot API client. pollTimeout is the long polling window;
// the HTTP timeout is kept above it.
func NewClient(apiURL, token string, pollTimeout time.Duration, logger zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(fmt.Sprintf("%s/bot%s", apiURL, token)).
		SetTimeout(pollTimeout+10*time.Second).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:   httpClient,
		logger: logger.With().Str("component", "telegram_client").Logger(),
	}
}

// GetMe returns the bot's own account.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	var me User
	if err := c.call(ctx, "getMe", nil, &me); err != nil {
		return User{}, err
	}
	return me, nil
}

// GetUpdates long-polls for message updates starting at offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	request := getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: allowedUpdates,
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", request, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a text reply.
func (c *Client) SendMessage(ctx context.Context, request SendMessageRequest) (Message, error) {
	var sent Message
	if err := c.call(ctx, "sendMessage", request, &sent); err != nil {
		return Message{}, err
	}
	return sent, nil
}

// SetWebhook registers url for update delivery.
func (c *Client) SetWebhook(ctx context.Context, url, secret string, dropPending bool) error {
	request := setWebhookRequest{
		URL:                url,
		SecretToken:        secret,
		AllowedUpdates:     allowedUpdates,
		DropPendingUpdates: dropPending,
	}
	return c.call(ctx, "setWebhook", request, nil)
}

// DeleteWebhook switches the bot back to getUpdates delivery.
func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	return c.call(ctx, "deleteWebhook", deleteWebhookRequest{DropPendingUpdates: dropPending}, nil)
}

func (c *Client) call(ctx context.Context, method string, payload interface{}, result interface{}) error {
	request := c.http.R().SetContext(ctx)
	if payload != nil {
		request = request.SetBody(payload)
	}

	resp, err := request.Post("/" + method)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("telegram %s: decode response (status %d): %w", method, resp.StatusCode(), err)
	}

	if !envelope.OK {
		code := envelope.ErrorCode
		if code == 0 {
			code = resp.StatusCode()
		}
		return &APIError{Method: method, Code: code, Description: envelope.Description}
	}

	if result == nil || len(envelope.Result) == 0 {
		return nil
	}

	if err := json.Unmarshal(envelope.Result, result); err != nil {
		return fmt.Errorf("telegram %s: decode result: %w", method, err)
	}

	c.logger.Debug().Str("method", method).Int("status", resp.StatusCode()).Msg("telegram call completed")
	return nil
}
