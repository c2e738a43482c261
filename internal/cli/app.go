package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"foldersearch/internal/config"
	"foldersearch/internal/eventbus"
	"foldersearch/internal/history"
	"foldersearch/internal/results"
	"foldersearch/internal/search"
	"foldersearch/internal/ui"
)

// runtime is the set of services shared by the TUI and the find command
type runtime struct {
	bus      eventbus.EventBus
	search   *search.Service
	store    *history.Store
	recorder *history.Recorder
}

// newRuntime wires a bus, a search service and, when enabled, the history
// recorder
func newRuntime(cfg *config.Config, recordHistory bool, logger hclog.Logger) (*runtime, error) {
	rt := &runtime{bus: eventbus.New(logger)}

	if recordHistory && cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.DBPath())
		if err != nil {
			rt.bus.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		rt.store = store
		rt.recorder = history.NewRecorder(rt.bus, store, logger)
	}

	rt.search = search.NewService(rt.bus, results.NewMemorySink(), nil, logger)
	return rt, nil
}

// Close stops the running search, delivers the queued events and closes
// the history database
func (rt *runtime) Close() {
	rt.search.Stop()
	rt.bus.Close()
	if rt.recorder != nil {
		rt.recorder.Stop()
	}
	if rt.store != nil {
		rt.store.Close()
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(signals)
	}()

	return ctx, cancel
}

// runTUI starts the interactive search screen
func runTUI(cmd *cobra.Command, v *viper.Viper, dir string) error {
	s, err := loadSettings(v)
	if err != nil {
		return err
	}
	startDir, err := resolveDir(dir, s.cfg)
	if err != nil {
		return err
	}
	s.cfg.StartDir = startDir

	logger, err := s.newLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	rt, err := newRuntime(s.cfg, true, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	logger.Info("starting ui", "start", startDir, "config", s.cfgSvc.Path())

	model := ui.NewModel(ui.Options{
		Context:       ctx,
		Bus:           rt.bus,
		Search:        rt.search,
		Config:        s.cfg,
		ConfigService: config.NewConfigService(s.cfgSvc.Path(), rt.bus),
		Logger:        logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	unsubscribe := ui.ForwardEvents(rt.bus, p)
	defer unsubscribe()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("ui exited with error", "error", err)
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("ui exited")
	return nil
}
