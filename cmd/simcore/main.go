package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/l1jgo/simcore/internal/assets"
	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/core/event"
	coresys "github.com/l1jgo/simcore/internal/core/system"
	"github.com/l1jgo/simcore/internal/data"
	"github.com/l1jgo/simcore/internal/input"
	gonet "github.com/l1jgo/simcore/internal/net"
	"github.com/l1jgo/simcore/internal/persist"
	"github.com/l1jgo/simcore/internal/physics"
	"github.com/l1jgo/simcore/internal/scripting"
	"github.com/l1jgo/simcore/internal/system"
	"github.com/l1jgo/simcore/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              simcore  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       2D simulation core · Go server      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mworld:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := 46 - utf8.RuneCountInString(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - utf8.RuneCountInString(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Sim.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3. Optional PostgreSQL snapshot store
	var repo *persist.SnapshotRepo
	if cfg.Database.Enabled {
		printSection("database")
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := persist.RunMigrations(ctx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("schema at version %d", version))
		fmt.Println()
		repo = persist.NewSnapshotRepo(db)
	}

	// 4. Load data and build the world
	printSection("data")

	classes, err := data.LoadActorClasses(cfg.Data.ActorClasses)
	if err != nil {
		return fmt.Errorf("load actor classes: %w", err)
	}
	printStat("actor classes", classes.Count())

	bus := event.NewBus()
	keyboard := input.NewKeyboard(bus)
	loader := assets.NewLoader(assets.NewFileBackend(cfg.Assets.Root, log), log)
	engine := physics.NewEngine(physics.Config{
		PartitionSize:  cfg.Physics.PartitionSize,
		WiggleRoom:     cfg.Physics.WiggleRoom,
		MassEpsilon:    cfg.Physics.MassEpsilon,
		MaxReflections: cfg.Physics.MaxReflections,
	}, log)
	w := world.New(engine, loader, keyboard, classes, log)

	// 4a. Restore the latest snapshot, or build the configured level
	restored := false
	if repo != nil && cfg.Database.RestoreOnBoot {
		row, err := repo.Latest(ctx, cfg.Database.SnapshotName)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if row != nil {
			if err := w.Deserialize(row.Blob, false, ""); err != nil {
				return fmt.Errorf("restore snapshot %d: %w", row.ID, err)
			}
			restored = true
			printStat("restored actors", w.Len())
		}
	}

	if !restored && cfg.Scripting.Level != "" {
		luaEngine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		reqs, err := luaEngine.BuildLevel(cfg.Scripting.Level)
		luaEngine.Close()
		if err != nil {
			return fmt.Errorf("build level %s: %w", cfg.Scripting.Level, err)
		}
		printStat("level actors", scripting.Apply(w, reqs))
	}

	if w.Root() == nil {
		w.SpawnWithID(ecs.RootID, cfg.Sim.RootClass, nil)
	}
	printStat("actors", w.Len())
	fmt.Println()

	// 5. Renderer hub
	var (
		hub    *gonet.Hub
		source system.EventSource
	)
	if cfg.Network.Enabled {
		hub = gonet.NewHub(cfg.Network, log)
		if err := hub.Start(); err != nil {
			return fmt.Errorf("websocket hub: %w", err)
		}
		source = hub
	}

	// 6. Create systems and register with runner
	runner := coresys.NewRunner(cfg.Sim.TickRate, log)
	runner.Register(system.NewInputSystem(source, keyboard, bus, cfg.Network.MaxEventsPerTick))
	runner.Register(system.NewAssetSystem(loader))
	runner.Register(system.NewSimulationSystem(w, cfg.Sim.TimeScale))
	if hub != nil {
		runner.Register(system.NewFrameSystem(w, hub, log))
	}
	var persistSys *system.PersistenceSystem
	if repo != nil {
		persistSys = system.NewPersistenceSystem(w, repo, cfg.Database.SnapshotName, log, cfg.Database.AutosaveTicks)
		runner.Register(persistSys)
	}
	runner.Register(system.NewCleanupSystem(w))

	// 7. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("ready")
	if hub != nil {
		printReady(fmt.Sprintf("renderers on ws://%s/ws", hub.Addr().String()))
	}
	printReady(fmt.Sprintf("game loop running (tick: %s, systems: %d)", cfg.Sim.TickRate, runner.Len()))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if persistSys != nil {
				persistSys.SaveNow()
			}
			if hub != nil {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := hub.Shutdown(sctx); err != nil {
					log.Warn("websocket hub shutdown", zap.Error(err))
				}
				scancel()
			}
			log.Info("simulation stopped")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
