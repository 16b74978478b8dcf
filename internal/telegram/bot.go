package telegram

import (
	"fmt"
	"strings"

	"go-resume-analyzer/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// descriptionLimit keeps a listing message well under Telegram's 4096
// character cap once escaped.
const descriptionLimit = 1500

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownReplacer = strings.NewReplacer(
	"\\", "\\\\",
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

// FormatListing renders a listing as a MarkdownV2 message body.
func FormatListing(l scraper.EnrichedListing, source string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💼 *%s*\n", escapeMarkdown(orNA(l.Title)))
	fmt.Fprintf(&sb, "🏢 %s\n", escapeMarkdown(orNA(l.Company)))
	fmt.Fprintf(&sb, "📍 %s\n", escapeMarkdown(orNA(l.Location)))
	if l.Description != "" {
		fmt.Fprintf(&sb, "📄 %s\n", escapeMarkdown(truncate(l.Description, descriptionLimit)))
	}
	if source != "" {
		fmt.Fprintf(&sb, "🔖 Source: %s\n", escapeMarkdown(source))
	}
	return sb.String()
}

func (b *Bot) SendListing(l scraper.EnrichedListing, source string) error {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Job", l.URL),
		),
	)

	msg := tgbotapi.NewMessage(b.chatID, FormatListing(l, source))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyMarkup = keyboard
	msg.DisableWebPagePreview = true

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
