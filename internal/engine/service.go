package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"scene-server/internal/content"
	"scene-server/internal/domain"
	"scene-server/internal/engine/handlers"
	"scene-server/internal/engine/handlers/actions"
	"scene-server/internal/engine/handlers/admin"
	"scene-server/internal/network"
	"scene-server/internal/scenes"
	"scene-server/internal/world"
	"scene-server/pkg/api"
	"scene-server/pkg/logger"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrNoInstance    = errors.New("instance not found")
)

type GameService struct {
	// Instances - запущенные зоны по ID
	Instances map[int]*Instance
	Hub       *network.Broadcaster

	cfg      Config
	handlers map[domain.ActionType]handlers.HandlerFunc
	log      *logrus.Entry
}

// NewService поднимает зону из конфига: каталог, скрипты сцен, статичные акторы.
func NewService(cfg Config) (*GameService, error) {
	cat := cfg.Catalog
	if cat == nil {
		var err error
		if cat, err = content.Default(); err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
	}

	s := &GameService{
		Instances: make(map[int]*Instance),
		Hub:       network.NewBroadcaster(),
		cfg:       cfg,
		handlers:  make(map[domain.ActionType]handlers.HandlerFunc),
		log:       logger.Component("service"),
	}
	s.registerHandlers()

	inst, err := s.newInstance(cfg.Zone, cat)
	if err != nil {
		return nil, err
	}
	s.Instances[cfg.Zone] = inst
	return s, nil
}

func (s *GameService) newInstance(zone int, cat *content.Catalog) (*Instance, error) {
	inst := NewInstance(zone, s)
	inst.World = world.New(cat, domain.SinkFunc(inst.publish))

	if err := scenes.Register(inst.World); err != nil {
		return nil, fmt.Errorf("zone %d: %w", zone, err)
	}
	if err := inst.World.Populate(); err != nil {
		return nil, fmt.Errorf("zone %d: %w", zone, err)
	}

	s.log.WithFields(logrus.Fields{
		"zone":   zone,
		"actors": inst.World.Len(),
	}).Info("Zone populated")
	return inst, nil
}

func (s *GameService) registerHandlers() {
	s.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.handlers[domain.ActionAcceptQuest] = handlers.WithPayload(actions.HandleAcceptQuest)
	s.handlers[domain.ActionResetScene] = handlers.WithPayload(admin.HandleResetScene)
	s.handlers[domain.ActionTeleport] = handlers.WithPayload(admin.HandleTeleport)
}

// Start запускает циклы всех зон. Они останавливаются вместе с ctx.
func (s *GameService) Start(ctx context.Context) {
	for _, inst := range s.Instances {
		go inst.Run(ctx, s.cfg.TickInterval)
	}
}

// Instance возвращает зону по ID.
func (s *GameService) Instance(zone int) (*Instance, bool) {
	inst, ok := s.Instances[zone]
	return inst, ok
}

// Default - зона из конфига, в нее попадают подключившиеся игроки.
func (s *GameService) Default() *Instance {
	return s.Instances[s.cfg.Zone]
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Token - ключ игрока (Handle.Key()), его проверяет клиентская сессия.
func (s *GameService) ProcessCommand(externalCmd api.ClientCommand) error {
	actionType := domain.ParseAction(externalCmd.Action)
	if actionType == domain.ActionUnknown {
		return fmt.Errorf("%w: %q", ErrUnknownAction, externalCmd.Action)
	}

	token, err := domain.ParseHandle(externalCmd.Token)
	if err != nil {
		return err
	}

	inst := s.Default()
	if inst == nil {
		return ErrNoInstance
	}
	return inst.Submit(domain.InternalCommand{
		Action:  actionType,
		Token:   token, // ID сущности, выполняющей действие
		Payload: externalCmd.Payload,
	})
}
