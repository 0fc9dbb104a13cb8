// Package telegram adapts the quiz engine to Telegram long polling.
// Interactive mode renders options as inline keyboard buttons; taps come
// back as callback queries and feed the same engine entry point as text.
package telegram

import (
	"context"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"quizbot/internal/engine"
	"quizbot/internal/format"
)

const answerPrefix = "ans:"

type Bot struct {
	api       *tgbotapi.BotAPI
	engine    *engine.Engine
	formatter *format.Formatter
}

func NewBot(token string, eng *engine.Engine, formatter *format.Formatter) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, engine: eng, formatter: formatter}, nil
}

// Run polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) {
	log.Printf("telegram bot authorized as %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.Message != nil:
			b.handleText(ctx, update.Message.Chat.ID, update.Message.Text)
		case update.CallbackQuery != nil:
			b.handleCallback(ctx, update.CallbackQuery)
		}
	}
}

func (b *Bot) handleText(ctx context.Context, chatID int64, text string) {
	// Telegram commands arrive as "/start"; the engine expects bare words.
	text = strings.TrimPrefix(text, "/")
	b.respond(ctx, chatID, text)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("answer callback: %v", err)
	}
	data, ok := strings.CutPrefix(callback.Data, answerPrefix)
	if !ok {
		return
	}
	b.respond(ctx, callback.Message.Chat.ID, data)
}

func (b *Bot) respond(ctx context.Context, chatID int64, text string) {
	userID := strconv.FormatInt(chatID, 10)
	reply, err := b.engine.Handle(ctx, userID, text)
	if err != nil {
		log.Printf("handle message from %s: %v", userID, err)
		b.sendMessage(chatID, "Something went wrong, please try again.")
		return
	}

	payload := b.formatter.Render(reply)
	msg := tgbotapi.NewMessage(chatID, payload.Body)
	if len(payload.Buttons) > 0 {
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, label := range payload.Buttons {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, answerPrefix+label),
			))
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send message to %d: %v", chatID, err)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("send message to %d: %v", chatID, err)
	}
}
