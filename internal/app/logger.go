package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Freeeeeet/group_finder_bot/internal/config"
)

// NewLogger создаёт zap логгер: JSON в production, цветной консольный иначе
func NewLogger(env string) *zap.Logger {
	var cfg zap.Config

	if env == config.EnvProduction {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build(zap.Fields(zap.String("service", "group_finder_bot")))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return logger
}
