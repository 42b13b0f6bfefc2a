// Package telegram hosts the admin side-channel: a long-polling Bot API
// listener whose /atur command overwrites the treasury info text.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ahmadzendi/monitor-emas7/internal/state"
	"github.com/ahmadzendi/monitor-emas7/internal/wire"
)

// Replies sent back to the operator chat.
const (
	replyGreeting = "Bot aktif! Gunakan /atur <teks> untuk mengubah info treasury."
	replyUsage    = "Gunakan: /atur <kalimat info>"
	replyUpdated  = "Info Treasury berhasil diubah!"
)

// Options parameterise the bot.
type Options struct {
	BotToken    string
	APIBase     string
	PollTimeout time.Duration
}

// Bot long-polls getUpdates and applies admin commands to the state
// container.
type Bot struct {
	opts    Options
	st      *state.State
	client  *http.Client
	logger  zerolog.Logger
	baseURL string
}

// New constructs a Bot.
func New(opts Options, st *state.State, logger zerolog.Logger) *Bot {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 25 * time.Second
	}

	baseURL := strings.TrimRight(opts.APIBase, "/")
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &Bot{
		opts: opts,
		st:   st,
		// The long poll holds the request open for PollTimeout; give the
		// client headroom beyond that.
		client:  &http.Client{Timeout: opts.PollTimeout + 10*time.Second},
		logger:  logger.With().Str("component", "telegram_bot").Logger(),
		baseURL: baseURL,
	}
}

// Run polls for commands until ctx is cancelled. Transport errors are logged
// and retried after a short pause; the admin channel must never take the
// monitor down.
func (b *Bot) Run(ctx context.Context) error {
	offset := b.dropPending(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := b.getUpdates(ctx, offset, b.opts.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Warn().Err(err).Msg("getUpdates failed")
			if err := sleep(ctx, 3*time.Second); err != nil {
				return err
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			b.handle(ctx, u)
		}
	}
}

func (b *Bot) handle(ctx context.Context, u update) {
	if u.Message == nil || u.Message.Text == "" {
		return
	}
	chatID := u.Message.Chat.ID
	text := u.Message.Text

	switch {
	case text == "/start" || strings.HasPrefix(text, "/start "):
		b.reply(ctx, chatID, replyGreeting)

	case text == "/atur" || strings.HasPrefix(text, "/atur "):
		_, rest, _ := strings.Cut(text, " ")
		if rest == "" {
			b.reply(ctx, chatID, replyUsage)
			return
		}
		b.st.SetInfo(wire.InfoMarkup(rest))
		b.logger.Info().Int64("chat_id", chatID).Msg("treasury info updated")
		b.reply(ctx, chatID, replyUpdated)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.sendMessage(ctx, chatID, text); err != nil {
		b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("reply failed")
	}
}

// sendMessage posts a text message through the Bot API.
func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", b.baseURL, b.opts.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && !result.OK {
		return fmt.Errorf("telegram returned ok=false")
	}
	return nil
}

// dropPending discards the command backlog accumulated while the process was
// down; only commands issued from now on apply.
func (b *Bot) dropPending(ctx context.Context) int64 {
	updates, err := b.getUpdates(ctx, -1, 0)
	if err != nil || len(updates) == 0 {
		return 0
	}
	return updates[len(updates)-1].UpdateID + 1
}

func (b *Bot) getUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal getUpdates payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/getUpdates", b.baseURL, b.opts.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create getUpdates request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram status %d", resp.StatusCode)
	}

	var result struct {
		OK     bool     `json:"ok"`
		Result []update `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("telegram returned ok=false")
	}
	return result.Result, nil
}

type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
