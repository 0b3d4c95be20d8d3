package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/group_finder_bot/internal/model"
	"github.com/Freeeeeet/group_finder_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LookupRepository хранит журнал определений группы
type LookupRepository struct {
	*base.Repository
}

func NewLookupRepository(pool *pgxpool.Pool) *LookupRepository {
	return &LookupRepository{Repository: base.NewRepository(pool)}
}

// Create добавляет запись в журнал. Повтор того же flow_id игнорируется.
func (r *LookupRepository) Create(ctx context.Context, lookup *model.Lookup) error {
	query := `
		INSERT INTO lookups (telegram_id, flow_id, surname, surname_key, group_label, language)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (flow_id) DO NOTHING
	`

	_, err := r.ExecAffected(
		ctx, query,
		lookup.TelegramID,
		lookup.FlowID,
		lookup.Surname,
		lookup.SurnameKey,
		lookup.GroupLabel,
		lookup.Language,
	)
	if err != nil {
		return fmt.Errorf("create lookup: %w", err)
	}

	return nil
}

// ListByTelegramID возвращает последние записи пользователя, новые первыми
func (r *LookupRepository) ListByTelegramID(ctx context.Context, telegramID int64, limit int) ([]*model.Lookup, error) {
	query := `
		SELECT id, telegram_id, flow_id, surname, surname_key, group_label, language, created_at
		FROM lookups
		WHERE telegram_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.Query(ctx, query, telegramID, limit)
	if err != nil {
		return nil, fmt.Errorf("list lookups: %w", err)
	}
	defer rows.Close()

	var lookups []*model.Lookup
	for rows.Next() {
		var lookup model.Lookup
		err := rows.Scan(
			&lookup.ID,
			&lookup.TelegramID,
			&lookup.FlowID,
			&lookup.Surname,
			&lookup.SurnameKey,
			&lookup.GroupLabel,
			&lookup.Language,
			&lookup.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		lookups = append(lookups, &lookup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}

	return lookups, nil
}
