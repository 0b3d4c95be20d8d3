package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Freeeeeet/group_finder_bot/internal/controller/state"
	"github.com/Freeeeeet/group_finder_bot/internal/dialog"
	"github.com/Freeeeeet/group_finder_bot/internal/locale"
	"github.com/Freeeeeet/group_finder_bot/internal/model"
	"github.com/Freeeeeet/group_finder_bot/internal/repository/memory"
	"github.com/Freeeeeet/group_finder_bot/internal/service"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, params)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Message{ID: len(f.sent)}, nil
}

func (f *fakeSender) last(t *testing.T) *bot.SendMessageParams {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

type brokenLookups struct{}

func (brokenLookups) Create(context.Context, *model.Lookup) error { return errors.New("db down") }

func (brokenLookups) ListByTelegramID(context.Context, int64, int) ([]*model.Lookup, error) {
	return nil, errors.New("db down")
}

type testEnv struct {
	h        *Handlers
	sender   *fakeSender
	users    *service.UserService
	sessions *state.Manager
	catalog  *locale.Catalog
}

func newTestEnv(t *testing.T, lookups service.LookupStore) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	catalog := locale.MustLoad()
	if lookups == nil {
		lookups = memory.NewLookupRepository()
	}

	users := service.NewUserService(memory.NewUserRepository(), logger)
	sessions := state.NewManager(time.Hour)
	h := NewHandlers(
		dialog.NewEngine(catalog),
		sessions,
		users,
		service.NewLookupService(lookups, 5, logger),
		logger,
	)

	return &testEnv{
		h:        h,
		sender:   &fakeSender{},
		users:    users,
		sessions: sessions,
		catalog:  catalog,
	}
}

func message(userID int64, lang, text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			Chat: models.Chat{ID: userID},
			From: &models.User{ID: userID, Username: "student", FirstName: "Mario", LanguageCode: lang},
			Text: text,
		},
	}
}

func (env *testEnv) say(userID int64, text string) *bot.SendMessageParams {
	env.h.textMessage(context.Background(), env.sender, message(userID, "en", text))
	if len(env.sender.sent) == 0 {
		return nil
	}
	return env.sender.sent[len(env.sender.sent)-1]
}

func replyKeyboard(t *testing.T, params *bot.SendMessageParams) *models.ReplyKeyboardMarkup {
	t.Helper()
	kb, ok := params.ReplyMarkup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok, "expected reply keyboard, got %T", params.ReplyMarkup)
	return kb
}

func TestStartRegistersUser(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.h.start(ctx, env.sender, message(10, "it", "/start"))

	sent := env.sender.last(t)
	assert.Equal(t, env.catalog.Text(locale.Italian, locale.KeyWelcome), sent.Text)
	assert.Equal(t, models.ParseModeMarkdownV1, sent.ParseMode)
	assert.Equal(t, CommandFindGroup, replyKeyboard(t, sent).Keyboard[0][0].Text)

	user, err := env.users.GetByTelegramID(ctx, 10)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "it", user.LanguageCode)
}

func TestFindGroupFullFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.h.findGroup(ctx, env.sender, message(7, "en", "/findgroup"))
	sent := env.sender.last(t)
	assert.Equal(t, env.catalog.Text(locale.English, locale.KeyChooseLanguage), sent.Text)
	assert.Equal(t, "English", replyKeyboard(t, sent).Keyboard[0][0].Text)
	assert.True(t, env.sessions.Has(7))

	sent = env.say(7, "Italiano")
	assert.Equal(t, env.catalog.Text(locale.Italian, locale.KeyAskNumGroups), sent.Text)

	env.say(7, "2")
	sent = env.say(7, "AAA-LZZ")
	assert.Contains(t, sent.Text, "Group B")

	sent = env.say(7, "MAA-ZZZ")
	assert.Equal(t, env.catalog.Text(locale.Italian, locale.KeyAllGroupsSet), sent.Text)

	sent = env.say(7, "Rossi")
	assert.Contains(t, sent.Text, "*Rossi*")
	assert.Contains(t, sent.Text, "*Group B*")
	assert.Equal(t, models.ParseModeMarkdownV1, sent.ParseMode)
	remove, ok := sent.ReplyMarkup.(*models.ReplyKeyboardRemove)
	require.True(t, ok)
	assert.True(t, remove.RemoveKeyboard)
	assert.False(t, env.sessions.Has(7))

	// Успешный результат попадает в историю
	env.h.history(ctx, env.sender, message(7, "en", "/history"))
	sent = env.sender.last(t)
	assert.Contains(t, sent.Text, env.catalog.Text(locale.English, locale.KeyHistoryHeader))
	assert.Contains(t, sent.Text, "Rossi → Group B")
}

func TestInvalidInputKeepsSession(t *testing.T) {
	env := newTestEnv(t, nil)
	env.h.findGroup(context.Background(), env.sender, message(3, "en", "/findgroup"))
	env.say(3, "English")

	sent := env.say(3, "many")

	assert.Equal(t, env.catalog.Text(locale.English, locale.KeyInvalidNumber), sent.Text)
	assert.Nil(t, sent.ReplyMarkup)
	assert.True(t, env.sessions.Has(3))
}

func TestTextWithoutSession(t *testing.T) {
	env := newTestEnv(t, nil)

	sent := env.say(5, "Rossi")

	require.NotNil(t, sent)
	assert.Equal(t, env.catalog.Text(locale.English, locale.KeyNoSession), sent.Text)
	assert.False(t, env.sessions.Has(5))
}

func TestUnknownCommandIgnored(t *testing.T) {
	env := newTestEnv(t, nil)

	assert.Nil(t, env.say(5, "/unknown"))
}

func TestUpdateWithoutSenderIgnored(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.h.textMessage(ctx, env.sender, &models.Update{ID: 2})
	env.h.start(ctx, env.sender, &models.Update{ID: 3, Message: &models.Message{Text: "/start"}})

	assert.Empty(t, env.sender.sent)
}

func TestCancelCommand(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	env.h.cancel(ctx, env.sender, message(4, "en", "/cancel"))
	assert.Equal(t, env.catalog.Text(locale.English, locale.KeyNothingToCancel), env.sender.last(t).Text)

	env.h.findGroup(ctx, env.sender, message(4, "en", "/findgroup"))
	env.say(4, "Italiano")
	env.h.cancel(ctx, env.sender, message(4, "en", "/cancel"))

	sent := env.sender.last(t)
	assert.Equal(t, env.catalog.Text(locale.Italian, locale.KeyCancelled), sent.Text)
	_, ok := sent.ReplyMarkup.(*models.ReplyKeyboardRemove)
	assert.True(t, ok)
	assert.False(t, env.sessions.Has(4))
}

func TestCancelLabelEndsSession(t *testing.T) {
	env := newTestEnv(t, nil)
	env.h.findGroup(context.Background(), env.sender, message(8, "en", "/findgroup"))
	env.say(8, "English")

	sent := env.say(8, "❌ Annulla")

	assert.Equal(t, env.catalog.Text(locale.English, locale.KeyCancelled), sent.Text)
	assert.False(t, env.sessions.Has(8))
}

func TestHistoryEmptyAndFailure(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv(t, nil)
	env.h.history(ctx, env.sender, message(1, "it", "/history"))
	assert.Equal(t, env.catalog.Text(locale.Italian, locale.KeyHistoryEmpty), env.sender.last(t).Text)

	broken := newTestEnv(t, brokenLookups{})
	broken.h.history(ctx, broken.sender, message(1, "en", "/history"))
	assert.Equal(t, broken.catalog.Text(locale.English, locale.KeyInternalError), broken.sender.last(t).Text)
}

func TestLookupFailureDoesNotBreakReply(t *testing.T) {
	env := newTestEnv(t, brokenLookups{})
	env.h.findGroup(context.Background(), env.sender, message(2, "en", "/findgroup"))
	env.say(2, "English")
	env.say(2, "1")
	env.say(2, "AAA-ZZZ")

	sent := env.say(2, "Bianchi")

	assert.Contains(t, sent.Text, "*Group A*")
	assert.False(t, env.sessions.Has(2))
}

func TestSendFailureIsLogged(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sender.err = errors.New("forbidden: bot was blocked by the user")

	env.h.help(context.Background(), env.sender, message(9, "en", "/help"))

	assert.Len(t, env.sender.sent, 1)
}

func TestBuildMessageParams(t *testing.T) {
	plain := buildMessageParams(1, dialog.Reply{Text: "hi"})
	assert.Equal(t, int64(1), plain.ChatID)
	assert.Empty(t, plain.ParseMode)
	assert.Nil(t, plain.ReplyMarkup)

	emphasized := buildMessageParams(1, dialog.Reply{
		Text:     "*bold*",
		Markup:   dialog.MarkupEmphasized,
		Keyboard: [][]string{{"2", "3"}},
	})
	assert.Equal(t, models.ParseModeMarkdownV1, emphasized.ParseMode)
	kb, ok := emphasized.ReplyMarkup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, kb.Keyboard[0], 2)

	removed := buildMessageParams(1, dialog.Reply{Text: "bye", RemoveKeyboard: true, Keyboard: [][]string{{"x"}}})
	_, ok = removed.ReplyMarkup.(*models.ReplyKeyboardRemove)
	assert.True(t, ok)
}

func TestStartResetsActiveDialog(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.h.findGroup(ctx, env.sender, message(6, "en", "/findgroup"))
	env.say(6, "English")
	require.True(t, env.sessions.Has(6))

	env.h.start(ctx, env.sender, message(6, "en", "/start"))

	assert.False(t, env.sessions.Has(6))
	assert.Equal(t, env.catalog.Text(locale.English, locale.KeyNoSession), env.say(6, "3").Text)
}

func TestDialogLogLevels(t *testing.T) {
	env := newTestEnv(t, nil)
	core, logs := observer.New(zapcore.InfoLevel)
	env.h.logger = zap.New(core)

	env.h.findGroup(context.Background(), env.sender, message(11, "en", "/findgroup"))
	env.say(11, "English")
	env.say(11, "many")

	steps := logs.FilterMessage("Dialog step").All()
	require.Len(t, steps, 1)
	assert.Equal(t, zapcore.InfoLevel, steps[0].Level)

	invalid := logs.FilterMessage("Invalid dialog input").All()
	require.Len(t, invalid, 1)
	assert.Equal(t, zapcore.WarnLevel, invalid[0].Level)
	assert.Equal(t, "awaiting_group_count", invalid[0].ContextMap()["state"])
	assert.Empty(t, logs.FilterMessage("Dialog step failed").All())
}
