package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	sendPause      = 500 * time.Millisecond
	requestTimeout = 15 * time.Second
)

// Client sends messages to a single chat. Messages are paced to stay under
// the Bot API rate limit; a failed send is logged and skipped, never fatal.
type Client struct {
	apiBase string
	token   string
	chatID  string
	client  *http.Client
	logger  zerolog.Logger
	pause   time.Duration
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func New(token, chatID string, logger zerolog.Logger) *Client {
	return &Client{
		apiBase: defaultAPIBase,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
		pause:   sendPause,
	}
}

// Send delivers each message in order and returns the success count.
func (c *Client) Send(ctx context.Context, messages []string) int {
	sent := 0
	for i, message := range messages {
		if i > 0 {
			select {
			case <-ctx.Done():
				return sent
			case <-time.After(c.pause):
			}
		}

		if err := c.sendMessage(ctx, message); err != nil {
			c.logger.Error().Err(err).Msg("telegram send failed")
			continue
		}
		sent++
	}
	return sent
}

func (c *Client) sendMessage(ctx context.Context, text string) error {
	payload := sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sendMessage request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read sendMessage response: %w", err)
	}

	var parsed sendMessageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return fmt.Errorf("decode sendMessage response (status %d): %w", resp.StatusCode, err)
	}
	if !parsed.OK {
		return fmt.Errorf("sendMessage rejected (status %d): %s", resp.StatusCode, strings.TrimSpace(parsed.Description))
	}
	return nil
}
