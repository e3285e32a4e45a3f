package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sportnumerics/sportnumerics/internal/service"
)

// Telegram rejects messages longer than this many characters.
const maxMessageLength = 4096

var ErrNoChat = errors.New("chat ID not set")

var commandMenu = []tgbotapi.BotCommand{
	{Command: "divs", Description: "List divisions"},
	{Command: "top", Description: "Top teams in a division"},
	{Command: "players", Description: "Top players in a division"},
	{Command: "team", Description: "Team rank, results and schedule"},
	{Command: "predict", Description: "Project a matchup"},
	{Command: "help", Description: "Show usage"},
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	client  sender
	handler *Handler
	chatID  int64
}

func NewTelegramBot(token string, chatID int64, statsService *service.StatsService) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}

	return &TelegramBot{
		bot:     api,
		client:  api,
		handler: NewHandler(statsService),
		chatID:  chatID,
	}, nil
}

// Start registers the command menu and answers commands until ctx is done.
func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	if _, err := t.bot.Request(tgbotapi.NewSetMyCommands(commandMenu...)); err != nil {
		slog.Warn("Failed to register command menu", "error", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.handle(ctx, update)
		case <-ctx.Done():
			return nil
		}
	}
}

func (t *TelegramBot) handle(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}
	slog.Debug("Handling command", "command", update.Message.Command(), "chat_id", update.Message.Chat.ID)

	msg := t.handler.HandleCommand(ctx, update)
	if err := t.send(msg); err != nil {
		slog.Error("Error sending message", "chat_id", msg.ChatID, "error", err)
	}
}

// SendMessage posts text to the configured chat.
func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		return ErrNoChat
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return t.send(msg)
}

func (t *TelegramBot) send(msg tgbotapi.MessageConfig) error {
	for _, part := range splitMessage(msg.Text, maxMessageLength) {
		chunk := msg
		chunk.Text = part
		if _, err := t.client.Send(chunk); err != nil {
			return err
		}
	}
	return nil
}

// splitMessage cuts text into pieces of at most limit runes, preferring
// line boundaries so Markdown entities stay intact.
func splitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var parts []string
	var b strings.Builder
	n := 0
	flush := func() {
		if b.Len() > 0 {
			parts = append(parts, strings.TrimSuffix(b.String(), "\n"))
			b.Reset()
			n = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		if n+len(runes) > limit {
			flush()
		}
		for len(runes) > limit {
			parts = append(parts, string(runes[:limit]))
			runes = runes[limit:]
		}
		b.WriteString(string(runes))
		n += len(runes)
	}
	flush()
	return parts
}
