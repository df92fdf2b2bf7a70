package notifier

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"SignalSentinel/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

// TelegramOptions configures a TelegramNotifier.
type TelegramOptions struct {
	BotToken string
	ChatID   int64
	Proxy    string
	Endpoint string // defaults to tgbotapi.APIEndpoint
	Timeout  time.Duration
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier creates a notifier with optional proxy support. It
// calls getMe, so an invalid token or unreachable API fails here.
func NewTelegramNotifier(opts TelegramOptions) (*TelegramNotifier, error) {
	if opts.BotToken == "" || opts.ChatID == 0 {
		return nil, errors.New("telegram bot token and chat id are required")
	}
	if opts.Endpoint == "" {
		opts.Endpoint = tgbotapi.APIEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	transport := &http.Transport{}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: opts.Timeout, Transport: transport}

	bot, err := tgbotapi.NewBotAPIWithClient(opts.BotToken, opts.Endpoint, client)
	if err != nil {
		return nil, errors.Wrap(err, "create telegram bot")
	}
	logger.Info("authorized on telegram account %s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: opts.ChatID}, nil
}

func (t *TelegramNotifier) Name() string { return "telegram" }

// Notify sends text as a plain message to the configured chat.
func (t *TelegramNotifier) Notify(ctx context.Context, pair, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return errors.Wrapf(err, "send %s notification", pair)
	}
	return nil
}
