package handlers

import (
	"github.com/Freeeeeet/group_finder_bot/internal/controller/state"
	"github.com/Freeeeeet/group_finder_bot/internal/dialog"
	"github.com/Freeeeeet/group_finder_bot/internal/locale"
	"github.com/Freeeeeet/group_finder_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	engine        *dialog.Engine
	catalog       *locale.Catalog
	stateManager  *state.Manager
	userService   *service.UserService
	lookupService *service.LookupService
	logger        *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	engine *dialog.Engine,
	stateManager *state.Manager,
	userService *service.UserService,
	lookupService *service.LookupService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		engine:        engine,
		catalog:       engine.Catalog(),
		stateManager:  stateManager,
		userService:   userService,
		lookupService: lookupService,
		logger:        logger,
	}
}
