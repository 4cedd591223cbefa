package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nexusengine/nexus/internal/component"
	"github.com/nexusengine/nexus/internal/config"
	"github.com/nexusengine/nexus/internal/core/ecs"
	"github.com/nexusengine/nexus/internal/core/event"
	coresys "github.com/nexusengine/nexus/internal/core/system"
	"github.com/nexusengine/nexus/internal/data"
	"github.com/nexusengine/nexus/internal/persist"
	"github.com/nexusengine/nexus/internal/render"
	"github.com/nexusengine/nexus/internal/scene"
	"github.com/nexusengine/nexus/internal/scripting"
	"github.com/nexusengine/nexus/internal/system"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// snapshots kept per scene after shutdown
const keepSnapshots = 20

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              Nexus  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        headless ECS render sandbox        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m%s\033[0m \033[90m(%dx%d, %s/frame)\033[0m\n\n", name, cfg.Window.Width, cfg.Window.Height, cfg.Engine.FrameRate)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
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

// ── Main loop ──────────────────────────────────────────────────────

func run() error {
	cfgPath := "config/nexus.toml"
	if p := os.Getenv("NEXUS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if stop := startProfile(cfg.Profile); stop != nil {
		defer stop()
	}

	printBanner(cfg.Engine.Name, cfg)

	reg := ecs.NewRegistry()
	bus := event.NewBus()
	aspect := cfg.Window.AspectRatio()

	// Optional database
	var repo *persist.SnapshotRepo
	if cfg.Database.Enabled {
		printSection("database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.Open(ctx, cfg.Database, log)
		cancel()
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		repo = persist.NewSnapshotRepo(db)
		printOK("PostgreSQL connected, migrations applied")
		fmt.Println()
	}

	// Scripts
	var engine *scripting.Engine
	var reloader system.Reloader
	if cfg.Script.Enabled {
		engine, err = scripting.NewEngine(cfg.Script.Dir, reg, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		reloader = engine
	}

	// Scene and hot reload
	printSection("scene")
	var changes <-chan string
	if cfg.Scene.Watch {
		w, err := data.NewWatcher(watchDirs(cfg)...)
		if err != nil {
			return fmt.Errorf("watch scene: %w", err)
		}
		defer w.Close()
		changes = w.Events
		go func() {
			for err := range w.Errors {
				log.Warn("watcher error", zap.Error(err))
			}
		}()
	}
	loader := system.NewReloadSystem(reg, bus, cfg.Scene.Path, cfg.Scene.Encoding, aspect, changes, reloader, log)
	if err := loader.Load(); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	if repo != nil && os.Getenv("NEXUS_RESTORE") != "" {
		if err := restoreLatest(reg, repo, loader.Name(), aspect, log); err != nil {
			return err
		}
	}
	printStat("entities", reg.EntityCount())
	printStat("meshes", ecs.GetView[component.MeshRenderer](reg).Len())
	printStat("lights", ecs.GetView[component.Light](reg).Len())
	printStat("cameras", ecs.GetView[component.Camera](reg).Len())
	fmt.Println()

	// Systems
	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(bus))
	runner.Register(loader)
	if engine != nil {
		runner.Register(system.NewScriptSystem(engine, bus))
	}
	runner.Register(system.NewSpinSystem(reg))
	fallback := component.NewCamera(45, aspect, 0.1, 100)
	runner.Register(system.NewRenderSystem(reg, render.New(cfg.Renderer.Backend, log), bus, fallback, cfg.Renderer.LogEvery, log))
	var persistSys *system.PersistenceSystem
	if repo != nil {
		persistSys = system.NewPersistenceSystem(reg, repo, loader.Name(), cfg.Database.SnapshotEvery, log)
		runner.Register(persistSys)
	}
	runner.Register(system.NewCleanupSystem(reg, bus))

	event.Subscribe(bus, func(ev event.SceneLoaded) {
		if persistSys != nil {
			persistSys.SetScene(loader.Name())
		}
	})

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.FrameRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("frame loop started (%s/frame)", cfg.Engine.FrameRate))
	if cfg.Engine.Frames > 0 {
		printReady(fmt.Sprintf("stopping after %d frames", cfg.Engine.Frames))
	}
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Engine.FrameRate)
			if cfg.Engine.Frames > 0 && runner.Frames() >= uint64(cfg.Engine.Frames) {
				log.Info("frame limit reached", zap.Uint64("frames", runner.Frames()))
				return shutdown(persistSys, repo, loader.Name(), log)
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return shutdown(persistSys, repo, loader.Name(), log)
		}
	}
}

// shutdown writes a final snapshot and prunes old ones.
func shutdown(ps *system.PersistenceSystem, repo *persist.SnapshotRepo, name string, log *zap.Logger) error {
	if ps == nil {
		log.Info("sandbox stopped")
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ps.SaveNow(ctx); err != nil {
		return fmt.Errorf("final snapshot: %w", err)
	}
	if n, err := repo.Prune(ctx, name, keepSnapshots); err != nil {
		log.Warn("prune snapshots", zap.Error(err))
	} else if n > 0 {
		log.Info("pruned snapshots", zap.Int64("removed", n))
	}
	log.Info("sandbox stopped")
	return nil
}

func restoreLatest(reg *ecs.Registry, repo *persist.SnapshotRepo, name string, aspect float32, log *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := repo.Latest(ctx, name)
	if errors.Is(err, persist.ErrNoSnapshot) {
		log.Info("no snapshot to restore", zap.String("scene", name))
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	scene.Clear(reg)
	if _, err := scene.Restore(reg, snap, aspect, log); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	printOK(fmt.Sprintf("restored snapshot %s (%s)", snap.ID, snap.TakenAt.Format(time.RFC3339)))
	return nil
}

// watchDirs returns the scene directory plus the script directory when it
// exists.
func watchDirs(cfg *config.Config) []string {
	dirs := []string{filepath.Dir(cfg.Scene.Path)}
	if cfg.Script.Enabled {
		if st, err := os.Stat(cfg.Script.Dir); err == nil && st.IsDir() {
			dirs = append(dirs, cfg.Script.Dir)
		}
	}
	return dirs
}

func startProfile(cfg config.ProfileConfig) func() {
	var mode func(*profile.Profile)
	switch cfg.Mode {
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	case "trace":
		mode = profile.TraceProfile
	default:
		return nil
	}
	p := profile.Start(mode, profile.ProfilePath(cfg.Path), profile.NoShutdownHook)
	return p.Stop
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
