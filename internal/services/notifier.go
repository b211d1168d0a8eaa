package services

import (
	"fmt"
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"tasktracker/internal/models"
)

// TelegramNotifier pushes task mutation events to a configured Telegram
// chat. Nil receiver and missing config are both no-ops, so callers never
// guard the send themselves.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier returns nil when the token or chat id is not
// configured; a nil notifier swallows every event.
func NewTelegramNotifier(botToken string, chatID int64) *TelegramNotifier {
	if botToken == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("[tg][init][err] %v", err)
		return nil
	}
	log.Printf("[tg][init] authorized as @%s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) TaskCreated(t *models.Task) { n.send("📌 Task created", t) }
func (n *TelegramNotifier) TaskUpdated(t *models.Task) { n.send("✏️ Task updated", t) }

func (n *TelegramNotifier) TaskDeleted(t *models.Task) {
	if n == nil || t == nil {
		return
	}
	text := fmt.Sprintf("🗑️ Task deleted\n• <b>%s</b>", html.EscapeString(t.Title))
	n.push(text)
}

func (n *TelegramNotifier) send(prefix string, t *models.Task) {
	if n == nil || t == nil {
		return
	}
	text := prefix + "\n" +
		"• <b>" + html.EscapeString(t.Title) + "</b>\n" +
		"• Status: <code>" + string(t.Status) + "</code>"
	n.push(text)
}

func (n *TelegramNotifier) push(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		log.Printf("[tg][send][err] %v", err)
	}
}
