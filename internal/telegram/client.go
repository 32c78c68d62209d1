// Package telegram sends resolution summaries through the Telegram Bot API.
// Messages use MarkdownV2 and list the queries with the most dominating
// candidates. Delivery is retried with a linear backoff.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/duelresolver/internal/models"
)

// sender is the part of *tgbotapi.BotAPI the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications
type Client struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return newClient(bot, chatID, maxRetries, retryDelayBase)
}

func newClient(bot sender, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Send posts a summary of run listing at most topK queries.
func (c *Client) Send(ctx context.Context, run *models.Run, topK int) error {
	msg := tgbotapi.NewMessage(c.chatID, formatMessage(run, topK))
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err

		if i == c.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("send cancelled after %d attempts: %w", i+1, ctx.Err())
		case <-time.After(c.retryDelayBase * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// formatMessage renders a run summary in MarkdownV2.
func formatMessage(run *models.Run, topK int) string {
	var sb strings.Builder

	sb.WriteString("⚔️ *Duel Resolution*\n\n")
	sb.WriteString(fmt.Sprintf("🆔 Run: `%s`\n", escapeMarkdownV2(run.ID)))
	sb.WriteString(fmt.Sprintf("📄 Source: %s\n", escapeMarkdownV2(run.Source)))
	sb.WriteString(fmt.Sprintf("🔣 Symbols: %d, candidates: %d, queries: %d\n\n",
		run.SymbolCount, run.CandidateCount, len(run.Results)))

	top := run.Top(topK)
	if len(top) == 0 {
		sb.WriteString("No queries\\.\n")
		return sb.String()
	}

	sb.WriteString("*Most dominated queries*\n")
	for i, res := range top {
		share := 0.0
		if run.CandidateCount > 0 {
			share = float64(res.Count) / float64(run.CandidateCount) * 100
		}
		sb.WriteString(fmt.Sprintf("%d\\. query \\#%d %s: *%d* %s\n",
			i+1,
			res.Index+1,
			escapeMarkdownV2(res.Query.String()),
			res.Count,
			escapeMarkdownV2(fmt.Sprintf("(%.1f%%)", share)),
		))
	}
	return sb.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	var sb strings.Builder
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			sb.WriteRune('\\')
		}
		sb.WriteRune(char)
	}
	return sb.String()
}
