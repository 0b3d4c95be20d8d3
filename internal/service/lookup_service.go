package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/group_finder_bot/internal/dialog"
	"github.com/Freeeeeet/group_finder_bot/internal/locale"
	"github.com/Freeeeeet/group_finder_bot/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultHistoryLimit - сколько записей показывает /history
const DefaultHistoryLimit = 5

// LookupStore - журнал определений группы
type LookupStore interface {
	Create(ctx context.Context, lookup *model.Lookup) error
	ListByTelegramID(ctx context.Context, telegramID int64, limit int) ([]*model.Lookup, error)
}

type LookupService struct {
	lookupRepo LookupStore
	limit      int
	logger     *zap.Logger
}

func NewLookupService(lookupRepo LookupStore, limit int, logger *zap.Logger) *LookupService {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &LookupService{
		lookupRepo: lookupRepo,
		limit:      limit,
		logger:     logger,
	}
}

// Record сохраняет успешное определение группы.
// Одна и та же попытка (flowID) записывается один раз.
func (s *LookupService) Record(ctx context.Context, telegramID int64, flowID uuid.UUID, lang locale.Language, match dialog.Match) error {
	lookup := &model.Lookup{
		TelegramID: telegramID,
		FlowID:     flowID,
		Surname:    match.Surname,
		SurnameKey: match.Key,
		GroupLabel: match.Group.Label,
		Language:   string(lang),
	}

	if err := s.lookupRepo.Create(ctx, lookup); err != nil {
		return fmt.Errorf("create lookup: %w", err)
	}

	s.logger.Info("Lookup recorded",
		zap.Int64("telegram_id", telegramID),
		zap.String("flow_id", flowID.String()),
		zap.String("surname_key", match.Key),
		zap.String("group", match.Group.Label),
	)

	return nil
}

// Recent возвращает последние определения пользователя, новые первыми
func (s *LookupService) Recent(ctx context.Context, telegramID int64) ([]*model.Lookup, error) {
	lookups, err := s.lookupRepo.ListByTelegramID(ctx, telegramID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list lookups: %w", err)
	}
	return lookups, nil
}
