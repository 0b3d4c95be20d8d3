package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/group_finder_bot/internal/dialog"
	"github.com/Freeeeeet/group_finder_bot/internal/locale"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const (
	CommandFindGroup = "/findgroup"
	historyDateFmt   = "02.01.2006 15:04"
)

// CommandName возвращает команду из текста без @имени бота и аргументов.
// Для обычного текста возвращает пустую строку.
func CommandName(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd := fields[0]
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd
}

// MatchCommand совпадает с "/cmd", "/cmd@BotName" и "/cmd аргументы".
// В групповых чатах Telegram добавляет к команде @имя бота.
func MatchCommand(commands ...string) bot.MatchFunc {
	return func(update *models.Update) bool {
		if update == nil || update.Message == nil {
			return false
		}
		name := CommandName(update.Message.Text)
		for _, c := range commands {
			if name == c {
				return true
			}
		}
		return false
	}
}

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.start(ctx, b, update)
}

// HandleFindGroup обрабатывает /findgroup и /findGroup
func (h *Handlers) HandleFindGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.findGroup(ctx, b, update)
}

// HandleCancel обрабатывает команду /cancel
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.cancel(ctx, b, update)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.help(ctx, b, update)
}

// HandleHistory обрабатывает команду /history
func (h *Handlers) HandleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.history(ctx, b, update)
}

func (h *Handlers) start(ctx context.Context, s Sender, update *models.Update) {
	user := sender(update)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID

	// /start начинает всё заново: незавершённый диалог сбрасывается
	h.stateManager.Clear(user.ID)

	// Ошибка регистрации не мешает пользоваться ботом
	_, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user",
			zap.Int64("telegram_id", user.ID),
			zap.Error(err),
		)
	}

	lang := locale.FromCode(user.LanguageCode)
	h.sendReply(ctx, s, chatID, dialog.Reply{
		Text:     h.catalog.Text(lang, locale.KeyWelcome),
		Keyboard: [][]string{{CommandFindGroup}},
		Markup:   dialog.MarkupEmphasized,
	})
}

func (h *Handlers) findGroup(ctx context.Context, s Sender, update *models.Update) {
	user := sender(update)
	if user == nil {
		return
	}

	session, reply := h.engine.Start(user.ID)
	h.stateManager.Begin(user.ID, session)

	h.logger.Info("Group finder started",
		zap.Int64("telegram_id", user.ID),
		zap.String("flow_id", session.FlowID.String()),
	)

	h.sendReply(ctx, s, update.Message.Chat.ID, reply)
}

func (h *Handlers) cancel(ctx context.Context, s Sender, update *models.Update) {
	user := sender(update)
	if user == nil {
		return
	}

	var reply dialog.Reply
	found := h.stateManager.Do(user.ID, func(session *dialog.Session) {
		reply = h.engine.Cancel(session)
	})

	if !found {
		reply = dialog.Reply{
			Text:           h.catalog.Text(locale.FromCode(user.LanguageCode), locale.KeyNothingToCancel),
			RemoveKeyboard: true,
		}
	} else {
		h.logger.Info("Group finder cancelled", zap.Int64("telegram_id", user.ID))
	}

	h.sendReply(ctx, s, update.Message.Chat.ID, reply)
}

func (h *Handlers) help(ctx context.Context, s Sender, update *models.Update) {
	user := sender(update)
	if user == nil {
		return
	}

	lang := locale.FromCode(user.LanguageCode)
	h.sendMessage(ctx, s, update.Message.Chat.ID, h.catalog.Text(lang, locale.KeyHelp))
}

func (h *Handlers) history(ctx context.Context, s Sender, update *models.Update) {
	user := sender(update)
	if user == nil {
		return
	}
	chatID := update.Message.Chat.ID
	lang := locale.FromCode(user.LanguageCode)

	lookups, err := h.lookupService.Recent(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to load history",
			zap.Int64("telegram_id", user.ID),
			zap.Error(err),
		)
		h.sendMessage(ctx, s, chatID, h.catalog.Text(lang, locale.KeyInternalError))
		return
	}

	if len(lookups) == 0 {
		h.sendMessage(ctx, s, chatID, h.catalog.Text(lang, locale.KeyHistoryEmpty))
		return
	}

	var text strings.Builder
	text.WriteString(h.catalog.Text(lang, locale.KeyHistoryHeader))
	for _, l := range lookups {
		text.WriteString("\n")
		text.WriteString(h.catalog.Render(lang, locale.KeyHistoryEntry, locale.Vars{
			"surname": l.Surname,
			"group":   l.GroupLabel,
			"date":    l.CreatedAt.Format(historyDateFmt),
		}))
	}

	h.sendReply(ctx, s, chatID, dialog.Reply{
		Text:   text.String(),
		Markup: dialog.MarkupEmphasized,
	})
}
