package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/group_finder_bot/internal/dialog"
	"github.com/Freeeeeet/group_finder_bot/internal/locale"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текстовые сообщения (шаги диалога)
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.textMessage(ctx, b, update)
}

func (h *Handlers) textMessage(ctx context.Context, s Sender, update *models.Update) {
	user := sender(update)
	if user == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	text := update.Message.Text

	// Неизвестные команды игнорируем
	if strings.HasPrefix(text, "/") {
		h.logger.Debug("Unknown command", zap.Int64("telegram_id", user.ID), zap.String("text", text))
		return
	}

	var (
		reply  dialog.Reply
		flowID uuid.UUID
		lang   locale.Language
	)
	found := h.stateManager.Do(user.ID, func(session *dialog.Session) {
		reply = h.engine.Step(session, text)
		flowID = session.FlowID
		lang = session.Language
	})

	if !found {
		h.logger.Debug("No active session", zap.Int64("telegram_id", user.ID))
		h.sendReply(ctx, s, chatID, dialog.Reply{
			Text:           h.catalog.Text(locale.FromCode(user.LanguageCode), locale.KeyNoSession),
			RemoveKeyboard: true,
		})
		return
	}

	if reply.Ignored {
		return
	}

	fields := []zap.Field{
		zap.Int64("telegram_id", user.ID),
		zap.String("flow_id", flowID.String()),
		zap.Stringer("state", reply.State),
	}
	switch {
	case reply.Err == nil:
		h.logger.Info("Dialog step", fields...)
	case dialog.IsUserInputError(reply.Err):
		h.logger.Warn("Invalid dialog input", append(fields, zap.Error(reply.Err))...)
	default:
		h.logger.Error("Dialog step failed", append(fields, zap.Error(reply.Err))...)
	}

	h.sendReply(ctx, s, chatID, reply)

	if reply.Result != nil {
		if err := h.lookupService.Record(ctx, user.ID, flowID, lang, *reply.Result); err != nil {
			h.logger.Error("Failed to record lookup",
				zap.Int64("telegram_id", user.ID),
				zap.String("flow_id", flowID.String()),
				zap.Error(err),
			)
		}
	}
}
