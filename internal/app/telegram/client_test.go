package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"relaybot/internal/app/bot"
	"relaybot/internal/app/user"
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.MessageConfig
	sendErr error
	chat    tgbotapi.Chat
	chatErr error
	updates chan tgbotapi.Update
	stopped bool
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) GetChat(tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error) {
	return f.chat, f.chatErr
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func commandMessage(chatID int64, text string, cmdLen int) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}
}

func TestToEvent_PlainText(t *testing.T) {
	now := time.Now()
	ev, ok := toEvent(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}, Text: "Where is dinner?"}}, now)

	require.True(t, ok)
	assert.False(t, ev.IsCommand())
	assert.Equal(t, user.ID(42), ev.From)
	assert.Equal(t, "Where is dinner?", ev.Text)
	assert.Equal(t, now, ev.ArrivedAt)
}

func TestToEvent_Command(t *testing.T) {
	ev, ok := toEvent(tgbotapi.Update{Message: commandMessage(1, "/reply 42 Dinner at  7", 6)}, time.Now())

	require.True(t, ok)
	assert.Equal(t, "reply", ev.Command)
	assert.Equal(t, []string{"42", "Dinner", "at", "7"}, ev.Args)
}

func TestToEvent_SkipsNonText(t *testing.T) {
	_, ok := toEvent(tgbotapi.Update{}, time.Now())
	assert.False(t, ok)

	_, ok = toEvent(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}}}, time.Now())
	assert.False(t, ok)
}

func TestSend_SetsParseMode(t *testing.T) {
	fake := &fakeAPI{}
	c := newClient(fake, rate.NewLimiter(rate.Inf, 1))

	require.NoError(t, c.Send(context.Background(), bot.Outbound{To: 7, Text: "*FAQ*", Markdown: true}))
	require.NoError(t, c.Send(context.Background(), bot.Outbound{To: 8, Text: "plain"}))

	require.Len(t, fake.sent, 2)
	assert.Equal(t, int64(7), fake.sent[0].ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdown, fake.sent[0].ParseMode)
	assert.Empty(t, fake.sent[1].ParseMode)
}

func TestSend_PropagatesError(t *testing.T) {
	fake := &fakeAPI{sendErr: errors.New("Forbidden: bot was blocked by the user")}
	c := newClient(fake, rate.NewLimiter(rate.Inf, 1))

	err := c.Send(context.Background(), bot.Outbound{To: 7, Text: "hi"})

	assert.ErrorContains(t, err, "blocked")
}

func TestSend_RespectsCancelledContext(t *testing.T) {
	fake := &fakeAPI{}
	c := newClient(fake, rate.NewLimiter(rate.Every(time.Hour), 1))
	require.NoError(t, c.Send(context.Background(), bot.Outbound{To: 1, Text: "uses the burst"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, c.Send(ctx, bot.Outbound{To: 1, Text: "throttled"}))
	assert.Len(t, fake.sent, 1)
}

func TestDisplayName(t *testing.T) {
	fake := &fakeAPI{chat: tgbotapi.Chat{ID: 42, UserName: "ana_b"}}
	c := newClient(fake, rate.NewLimiter(rate.Inf, 1))

	name, err := c.DisplayName(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "ana_b", name)

	fake.chatErr = errors.New("chat not found")
	_, err = c.DisplayName(context.Background(), 42)
	assert.Error(t, err)
}

func TestEvents_StreamsUntilCancel(t *testing.T) {
	fake := &fakeAPI{updates: make(chan tgbotapi.Update, 2)}
	c := newClient(fake, rate.NewLimiter(rate.Inf, 1))

	fake.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}, Text: "hello"}}
	fake.updates <- tgbotapi.Update{}

	ctx, cancel := context.WithCancel(context.Background())
	events := c.Events(ctx)

	ev := <-events
	assert.Equal(t, "hello", ev.Text)

	cancel()
	for range events {
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.True(t, fake.stopped)
}
