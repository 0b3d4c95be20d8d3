package handlers

import (
	"context"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Recover не даёт панике в обработчике уронить бота
func Recover(logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Handler panicked",
						zap.Int64("update_id", update.ID),
						zap.Any("panic", r),
						zap.Stack("stack"),
					)
				}
			}()
			next(ctx, b, update)
		}
	}
}

// RateLimiter хранит token bucket для каждого пользователя
type RateLimiter struct {
	mu     sync.Mutex
	byUser map[int64]*rate.Limiter
	rps    rate.Limit
	burst  int
	logger *zap.Logger
}

func NewRateLimiter(rps float64, burst int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		byUser: make(map[int64]*rate.Limiter),
		rps:    rate.Limit(rps),
		burst:  burst,
		logger: logger,
	}
}

// Allow расходует токен пользователя
func (l *RateLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.byUser[userID]
	if !exists {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.byUser[userID] = limiter
	}
	return limiter.Allow()
}

// Sweep удаляет полностью восстановившиеся bucket'ы и возвращает их количество.
// Такой bucket ничем не отличается от нового.
func (l *RateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for id, limiter := range l.byUser {
		if limiter.Tokens() >= float64(l.burst) {
			delete(l.byUser, id)
			count++
		}
	}
	return count
}

// Count возвращает количество отслеживаемых пользователей
func (l *RateLimiter) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.byUser)
}

// Middleware отбрасывает сообщения пользователя сверх rps/burst.
// Апдейты без отправителя пропускаются без ограничений.
func (l *RateLimiter) Middleware() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			user := sender(update)
			if user != nil && !l.Allow(user.ID) {
				l.logger.Warn("Rate limit exceeded", zap.Int64("telegram_id", user.ID))
				return
			}
			next(ctx, b, update)
		}
	}
}
