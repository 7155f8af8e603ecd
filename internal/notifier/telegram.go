package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Evgen-Mutagen/breakfast-orders/internal/core"
	"github.com/Evgen-Mutagen/breakfast-orders/internal/model"
)

const DefaultTelegramAPIURL = "https://api.telegram.org"

// DeliveryError is returned when a message could not be handed to the chat service.
type DeliveryError struct {
	StatusCode  int
	Description string
	Err         error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notification delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("notification delivery failed: status %d: %s", e.StatusCode, e.Description)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

type TelegramConfig struct {
	APIURL   string
	BotToken string
	ChatID   string
}

type TelegramNotifier struct {
	client *http.Client
	cfg    TelegramConfig
	logger *zap.Logger
}

var _ core.Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(cfg TelegramConfig, client *http.Client, logger *zap.Logger) *TelegramNotifier {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultTelegramAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if client == nil {
		client = http.DefaultClient
	}

	return &TelegramNotifier{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

func (n *TelegramNotifier) Notify(ctx context.Context, order *model.Order) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID: n.cfg.ChatID,
		Text:   FormatMessage(order),
	})
	if err != nil {
		return &DeliveryError{Err: err}
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.cfg.APIURL, n.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Err: redact(err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return &DeliveryError{Err: redact(err)}
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && resp.StatusCode == http.StatusOK {
		return &DeliveryError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK || !result.OK {
		return &DeliveryError{StatusCode: resp.StatusCode, Description: result.Description}
	}

	n.logger.Debug("Telegram message sent", zap.Int64("order_id", order.ID))
	return nil
}

// redact strips the request URL, which embeds the bot token, from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", strings.ToLower(urlErr.Op), urlErr.Err)
	}
	return err
}

// NopNotifier is used when no chat credentials are configured.
type NopNotifier struct {
	logger *zap.Logger
}

var _ core.Notifier = (*NopNotifier)(nil)

func NewNopNotifier(logger *zap.Logger) *NopNotifier {
	return &NopNotifier{logger: logger}
}

func (n *NopNotifier) Notify(_ context.Context, order *model.Order) error {
	n.logger.Debug("Notifications disabled, skipping order message", zap.Int64("order_id", order.ID))
	return nil
}
