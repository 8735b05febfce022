/*
Package telegram adapts the Telegram Bot API to the bot's Transport and event contracts.

Updates are long-polled and parsed at the boundary into bot.Event values, so nothing
downstream sees Telegram payload shapes. Outbound messages share one token bucket to
stay under Telegram's global send limit during admin fan-out.
*/
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"relaybot/internal/app/bot"
	"relaybot/internal/app/user"
	"relaybot/internal/pkg/logx"
)

const (
	// pollTimeout is the long-polling timeout in seconds.
	pollTimeout = 60

	// eventBuffer is the capacity of the channel handed to the event loop.
	eventBuffer = 100
)

// api is the subset of *tgbotapi.BotAPI used by the client.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Client is the Telegram transport.
type Client struct {
	api     api
	limiter *rate.Limiter
	now     func() time.Time

	logger zerolog.Logger
}

// NewClient authenticates with token and returns a client that sends at most sendRate messages
// per second with the given burst.
func NewClient(token string, sendRate float64, burst int) (*Client, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate telegram bot: %w", err)
	}

	c := newClient(botAPI, rate.NewLimiter(rate.Limit(sendRate), burst))
	c.logger.Info().Str("bot_username", botAPI.Self.UserName).Msg("Authorized on Telegram.")
	return c, nil
}

func newClient(a api, limiter *rate.Limiter) *Client {
	return &Client{
		api:     a,
		limiter: limiter,
		now:     time.Now,
		logger:  logx.Component("telegram"),
	}
}

// Send delivers one message, waiting for a send token first.
func (c *Client) Send(ctx context.Context, msg bot.Outbound) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send throttled: %w", err)
	}

	cfg := tgbotapi.NewMessage(int64(msg.To), msg.Text)
	if msg.Markdown {
		cfg.ParseMode = tgbotapi.ModeMarkdown
	}

	if _, err := c.api.Send(cfg); err != nil {
		return fmt.Errorf("send to %s: %w", msg.To, err)
	}
	return nil
}

// DisplayName looks up the chat and returns its first name, else its handle.
func (c *Client) DisplayName(ctx context.Context, id user.ID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	chat, err := c.api.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: int64(id)}})
	if err != nil {
		return "", fmt.Errorf("get chat %s: %w", id, err)
	}

	profile := user.Profile{ID: id, FirstName: chat.FirstName, Username: chat.UserName}
	return profile.DisplayName(), nil
}

// Events starts long polling and returns the parsed event stream.
// The channel is closed once ctx is cancelled and polling has stopped.
func (c *Client) Events(ctx context.Context) <-chan bot.Event {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout

	updates := c.api.GetUpdatesChan(cfg)
	out := make(chan bot.Event, eventBuffer)

	go func() {
		defer close(out)
		defer c.api.StopReceivingUpdates()

		for {
			select {
			case <-ctx.Done():
				c.logger.Info().Msg("Stopped receiving updates.")
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				ev, ok := toEvent(update, c.now())
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// toEvent converts a Telegram update. Updates without message text are skipped.
func toEvent(update tgbotapi.Update, now time.Time) (bot.Event, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return bot.Event{}, false
	}

	from := user.ID(msg.Chat.ID)
	if msg.IsCommand() {
		return bot.NewCommandEvent(from, msg.Command(), strings.Fields(msg.CommandArguments()), now), true
	}
	return bot.NewTextEvent(from, msg.Text, now), true
}
