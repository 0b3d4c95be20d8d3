package handlers

import (
	"context"

	"github.com/Freeeeeet/group_finder_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/group_finder_bot/internal/dialog"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Sender отправляет сообщения в Telegram. *bot.Bot реализует его.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// buildMessageParams превращает ответ движка в параметры Telegram
func buildMessageParams(chatID int64, reply dialog.Reply) *bot.SendMessageParams {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   reply.Text,
	}

	if reply.Markup == dialog.MarkupEmphasized {
		params.ParseMode = models.ParseModeMarkdownV1
	}

	if reply.RemoveKeyboard {
		params.ReplyMarkup = keyboard.Remove()
	} else if kb := keyboard.FromRows(reply.Keyboard); kb != nil {
		params.ReplyMarkup = kb
	}

	return params
}

// sendReply отправляет ответ движка и логирует если не удалось
func (h *Handlers) sendReply(ctx context.Context, s Sender, chatID int64, reply dialog.Reply) {
	_, err := s.SendMessage(ctx, buildMessageParams(chatID, reply))
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Stringer("state", reply.State),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет простой текст и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, s Sender, chatID int64, text string) {
	h.sendReply(ctx, s, chatID, dialog.Reply{Text: text})
}

// sender возвращает отправителя из сообщения, nil для служебных апдейтов
func sender(update *models.Update) *models.User {
	if update == nil || update.Message == nil {
		return nil
	}
	return update.Message.From
}
