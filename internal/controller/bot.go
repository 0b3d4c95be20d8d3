package controller

import (
	"context"

	"github.com/Freeeeeet/group_finder_bot/internal/controller/handlers"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// TelegramBot - часть *bot.Bot, нужная контроллеру
type TelegramBot interface {
	Start(ctx context.Context)
	RegisterHandlerMatchFunc(matchFunc bot.MatchFunc, f bot.HandlerFunc, m ...bot.Middleware) string
	SetMyCommands(ctx context.Context, params *bot.SetMyCommandsParams) (bool, error)
}

type BotController struct {
	bot      TelegramBot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(botInstance TelegramBot, cmdHandlers *handlers.Handlers, logger *zap.Logger) *BotController {
	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд.
// Свободный текст обрабатывает default handler бота.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandlerMatchFunc(handlers.MatchCommand("/start"), c.handlers.HandleStart)
	c.bot.RegisterHandlerMatchFunc(handlers.MatchCommand("/help"), c.handlers.HandleHelp)
	c.bot.RegisterHandlerMatchFunc(handlers.MatchCommand(handlers.CommandFindGroup, "/findGroup"), c.handlers.HandleFindGroup)
	c.bot.RegisterHandlerMatchFunc(handlers.MatchCommand("/cancel"), c.handlers.HandleCancel)
	c.bot.RegisterHandlerMatchFunc(handlers.MatchCommand("/history"), c.handlers.HandleHistory)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Start the bot"},
		{Command: "findgroup", Description: "🔎 Find your group"},
		{Command: "cancel", Description: "❌ Cancel the current operation"},
		{Command: "history", Description: "🗂 Your latest lookups"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает long polling и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	c.logger.Info("Bot stopped")
	return nil
}
