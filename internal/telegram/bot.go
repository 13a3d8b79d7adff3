// Package telegram is the second delivery channel: one message per new
// job plus a run status line, for people who want pings instead of (or
// next to) the daily email.
package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-jobradar/internal/models"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) sendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = "HTML"
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// SendJob pushes one listing as a formatted message.
func (b *Bot) SendJob(job models.Job) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔥 <b>%s</b>\n", html.EscapeString(job.Title))
	if job.Company != "" {
		fmt.Fprintf(&sb, "🏢 %s\n", html.EscapeString(job.Company))
	}
	fmt.Fprintf(&sb, "📍 %s\n", html.EscapeString(job.Location))
	if len(job.Tags) > 0 {
		fmt.Fprintf(&sb, "🏷 %s\n", html.EscapeString(strings.Join(job.Tags, ", ")))
	}
	if job.Scored() {
		fmt.Fprintf(&sb, "🛂 Visa %d/5 — %s\n", job.VisaScore, html.EscapeString(job.VisaReason))
	}
	fmt.Fprintf(&sb, "🔗 <a href=\"%s\">View Job</a>", job.URL)
	return b.sendMessage(sb.String())
}

// SendStatus pushes the end-of-run summary line.
func (b *Bot) SendStatus(text string) error {
	return b.sendMessage(html.EscapeString(text))
}
