package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"scene-server/internal/config"
	"scene-server/internal/content"
	"scene-server/internal/domain"
	"scene-server/internal/engine"
	"scene-server/internal/infrastructure/storage"
	"scene-server/internal/scenes"
	"scene-server/internal/server"
	"scene-server/internal/version"
	"scene-server/pkg/api"
	"scene-server/pkg/logger"
)

func main() {
	// 1. Конфигурация: env, флаги поверх
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "text")
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}

	var simulate bool
	var recordDir string
	flag.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "Path to scene catalog YAML (empty for embedded)")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flag.BoolVar(&simulate, "simulate", false, "Play the warchief scene headless and print its events")
	flag.StringVar(&recordDir, "record", "", "Directory to save the simulated scene transcript (.scnt)")
	flag.Parse()

	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Log.Info("Starting Scene Server...")
	logger.Log.Info(version.String())

	catalog, err := content.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load catalog")
	}

	engineCfg := engine.NewConfig()
	engineCfg.TickInterval = cfg.TickInterval
	engineCfg.Zone = cfg.Zone
	engineCfg.Catalog = catalog

	// 2. Инициализация ядра
	gameService, err := engine.NewService(engineCfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to start engine")
	}

	// РЕЖИМ СИМУЛЯЦИИ
	if simulate {
		logger.Log.Info("💿 Mode: Headless Simulation")
		if err := runSimulation(gameService, cfg.TickInterval, recordDir); err != nil {
			logger.Log.WithError(err).Fatal("Simulation failed")
		}
		return
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameService.Start(ctx)

	// 3. Запуск сервера
	srv := server.New(gameService, cfg.Port)
	if err := srv.Run(ctx); err != nil {
		logger.Log.WithError(err).Fatal("Server start error")
	}

	logger.Log.Info("Done.")
}

// runSimulation берет квест у исполнителя и крутит мир до конца сцены, печатая события.
// С непустым recordDir транскрипт сохраняется на диск.
func runSimulation(game *engine.GameService, step time.Duration, recordDir string) error {
	inst := game.Default()
	log := logger.Component("simulate")

	transcript := &domain.Transcript{Zone: inst.ID, Timestamp: time.Now().Unix()}
	inst.AddObserver(transcript)

	inst.AddObserver(domain.SinkFunc(func(ev domain.SceneEvent) {
		fields := logrus.Fields{
			"at":    ev.At,
			"actor": ev.Actor.String(),
		}
		if ev.Text != "" {
			fields["text"] = ev.Text
		}
		if ev.Spell != 0 {
			fields["spell"] = ev.Spell
		}
		log.WithFields(fields).Info(ev.Type.String())
	}))

	player := inst.Enter("simulator")
	executor, ok := inst.World.FindNearest(player, scenes.EntryExecutor, 100)
	if !ok {
		return fmt.Errorf("executor %d not found near player start", scenes.EntryExecutor)
	}

	payload, err := json.Marshal(api.AcceptQuestPayload{GiverID: executor.Key(), QuestID: scenes.QuestWarchiefCometh})
	if err != nil {
		return err
	}
	entry := inst.Execute(domain.InternalCommand{Action: domain.ActionAcceptQuest, Token: player, Payload: payload})
	log.WithField("log_type", entry.Type).Info(entry.Text)

	tl, err := scenes.WarchiefTimeline(inst.World.Catalog())
	if err != nil {
		return err
	}
	// хвост после Duration: деспавн суммонов с задержкой
	total := tl.Duration() + tl.ExitGrace + step
	for elapsed := time.Duration(0); elapsed <= total; elapsed += step {
		inst.Step(step)
	}

	for _, v := range inst.Scenes() {
		log.WithFields(logrus.Fields{
			"scene": v.Timeline,
			"state": v.State,
			"runs":  v.Runs,
		}).Info("Simulation finished")
	}

	if recordDir == "" {
		return nil
	}
	store, err := storage.NewTranscriptService(recordDir)
	if err != nil {
		return err
	}
	path, err := store.Save(transcript)
	if err != nil {
		return fmt.Errorf("save transcript: %w", err)
	}
	log.WithFields(logrus.Fields{
		"path":   path,
		"events": len(transcript.Events),
		"talks":  transcript.Count(domain.EventTalk),
	}).Info("Transcript saved")
	return nil
}
