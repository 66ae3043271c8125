// Package main provides the engine daemon that runs the idle simulation
// loop and persists progress to a save slot.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/embervale/engine/internal/config"
	"github.com/embervale/engine/internal/game/combat"
	"github.com/embervale/engine/internal/game/data"
	"github.com/embervale/engine/internal/game/engine"
	"github.com/embervale/engine/internal/game/rng"
	"github.com/embervale/engine/internal/observability"
	"github.com/embervale/engine/internal/scripting"
	"github.com/embervale/engine/internal/server"
	"github.com/embervale/engine/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dataDir := flag.String("data-dir", "", "game data directory; overrides engine.data_dir")
	scriptDir := flag.String("scripts", "content/scripts", "directory of monster hook scripts; empty = scripting disabled")
	slot := flag.Int("slot", 0, "save slot to load and autosave")
	characterName := flag.String("name", "Adventurer", "character name recorded on the save slot")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *dataDir != "" {
		cfg.Engine.DataDir = *dataDir
	}
	if *slot < 0 || *slot >= cfg.Engine.SaveSlots {
		log.Fatalf("slot %d out of range: engine.save_slots is %d", *slot, cfg.Engine.SaveSlots)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	src := rng.NewCryptoSource()
	if cfg.Engine.Seed != 0 {
		src = rng.NewSeededSource(cfg.Engine.Seed)
	}
	roller := rng.NewLoggedRoller(src, logger)

	// Load game data
	dataStart := time.Now()
	registry, err := data.LoadDirectory(cfg.Engine.DataDir)
	if err != nil {
		logger.Fatal("loading game data", zap.Error(err))
	}
	logger.Info("game data loaded",
		zap.String("dir", cfg.Engine.DataDir),
		zap.Duration("elapsed", time.Since(dataStart)),
	)

	// Connect to PostgreSQL for save-slot persistence
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	slots := postgres.NewSaveSlotRepository(pool.DB())

	// Initialise scripting for monster on-hit hooks
	var onHit combat.HookFunc
	if *scriptDir != "" {
		if info, statErr := os.Stat(*scriptDir); statErr == nil && info.IsDir() {
			scriptStart := time.Now()
			scriptMgr := scripting.NewManager(roller, logger)
			if err := scriptMgr.LoadDirectory(*scriptDir, scripting.DefaultInstructionLimit); err != nil {
				logger.Fatal("loading hook scripts", zap.String("dir", *scriptDir), zap.Error(err))
			}
			defer scriptMgr.Close()
			onHit = func(script string) (combat.HitEffects, error) {
				eff, err := scriptMgr.EvalHook(script)
				if err != nil {
					return combat.HitEffects{}, err
				}
				return combat.HitEffects{StunTicks: eff.StunTicks, BonusDamage: eff.BonusDamage}, nil
			}
			logger.Info("hook scripts loaded",
				zap.String("dir", *scriptDir),
				zap.Duration("elapsed", time.Since(scriptStart)),
			)
		} else {
			logger.Warn("script directory not found, scripting disabled", zap.String("dir", *scriptDir))
		}
	}

	eng := engine.New(registry, roller, logger, engine.Options{
		SpawnDelayTicks: cfg.Engine.SpawnDelayTicks,
		OnHit:           onHit,
	})

	// Restore the selected slot; a missing slot starts a fresh game.
	save, err := slots.Load(ctx, *slot)
	switch {
	case err == nil:
		if err := eng.RestoreState(save.State); err != nil {
			logger.Fatal("restoring save", zap.Int("slot", *slot), zap.Error(err))
		}
		logger.Info("save restored",
			zap.Int("slot", *slot),
			zap.String("character", save.CharacterName),
			zap.Time("last_played", save.UpdatedAt),
		)
	case errors.Is(err, postgres.ErrSlotNotFound):
		logger.Info("empty slot, starting fresh", zap.Int("slot", *slot))
	default:
		logger.Fatal("loading save slot", zap.Int("slot", *slot), zap.Error(err))
	}

	persist := func(ctx context.Context) error {
		blob, err := eng.MarshalState()
		if err != nil {
			return err
		}
		return slots.Save(ctx, *slot, *characterName, blob)
	}

	lifecycle := server.NewLifecycle(logger)

	tickCtx, stopTicks := context.WithCancel(ctx)
	lifecycle.Add("engine", &server.FuncService{
		StartFn: func() error {
			if err := eng.Run(tickCtx, cfg.Engine.TickInterval); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
		StopFn: stopTicks,
	})

	if cfg.Engine.AutosaveInterval > 0 {
		saveCtx, stopSaves := context.WithCancel(ctx)
		lifecycle.Add("autosave", &server.FuncService{
			StartFn: func() error {
				ticker := time.NewTicker(cfg.Engine.AutosaveInterval)
				defer ticker.Stop()
				for {
					select {
					case <-saveCtx.Done():
						return nil
					case <-ticker.C:
						if err := persist(saveCtx); err != nil {
							logger.Error("autosave failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: stopSaves,
		})
	}

	logger.Info("engine started",
		zap.Int("slot", *slot),
		zap.Duration("tick_interval", cfg.Engine.TickInterval),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}

	// A final save so no progress is lost on shutdown.
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := persist(saveCtx); err != nil {
		logger.Error("final save failed", zap.Error(err))
	} else {
		logger.Info("final save written", zap.Int("slot", *slot))
	}
}
