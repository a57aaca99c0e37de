package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/ayusman/gesturectl/internal/app"
	"github.com/ayusman/gesturectl/internal/config"
	"github.com/ayusman/gesturectl/internal/control"
	"github.com/ayusman/gesturectl/internal/display"
	"github.com/ayusman/gesturectl/internal/gesture"
	"github.com/ayusman/gesturectl/internal/plugin"
	"github.com/ayusman/gesturectl/internal/server"
	"github.com/ayusman/gesturectl/internal/store"
	"github.com/ayusman/gesturectl/internal/tray"
)

// Run flags. They override the config file when set.
var (
	flagCamera  int
	flagDisplay string
	flagListen  string
	flagTray    bool
	flagMock    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a gesture control session",
	Args:  cobra.NoArgs,
	RunE:  runSession,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagCamera, "camera", 0, "camera device index")
	cmd.Flags().StringVar(&flagDisplay, "display", "", "display mode: auto, tui or log")
	cmd.Flags().StringVar(&flagListen, "listen", "", "HTTP listen address, e.g. :8080")
	cmd.Flags().BoolVar(&flagTray, "tray", false, "show the system tray menu")
	cmd.Flags().BoolVar(&flagMock, "mock", false, "use a simulated camera and hand instead of the webcam")
}

// applyFlags copies explicitly set run flags over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("camera") {
		cfg.Camera.Device = flagCamera
	}
	if flags.Changed("display") {
		cfg.Display.Mode = flagDisplay
	}
	if flags.Changed("listen") {
		cfg.Server.Listen = flagListen
	}
	if flags.Changed("tray") {
		cfg.Tray.Enabled = flagTray
	}
	return cfg.Validate()
}

// resolveDisplay turns auto into tui on an interactive terminal and log
// everywhere else.
func resolveDisplay(mode string, interactive bool) string {
	if mode != config.DisplayAuto {
		return mode
	}
	if interactive {
		return config.DisplayTUI
	}
	return config.DisplayLog
}

// controls lets the dashboard reach the App, which is created after it.
type controls struct {
	app *app.App
}

func (c *controls) RequestScreenshot()      { c.app.RequestScreenshot() }
func (c *controls) SetEnabled(enabled bool) { c.app.SetEnabled(enabled) }
func (c *controls) IsEnabled() bool         { return c.app.IsEnabled() }

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	interactive := term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
	mode := resolveDisplay(cfg.Display.Mode, interactive)

	if mode == config.DisplayTUI {
		if err := os.MkdirAll(config.HomeDir(), 0755); err != nil {
			return err
		}
		f, err := tea.LogToFile(cfg.Log.File, "gesturectl")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		st      *store.Store
		journal *store.Journal
	)
	if cfg.Storage.Path != "" {
		st, err = store.New(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		journal, err = st.OpenJournal(time.Now(), store.DefaultJournalBuffer)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
	}

	source, err := newSource(cfg, flagMock)
	if err != nil {
		return err
	}

	appConfig := app.Config{
		Source:     source,
		Dispatcher: newDispatcher(cfg),
		Cooldowns: gesture.Cooldowns{
			Edge:  cfg.Gestures.EdgeCooldown,
			Level: cfg.Gestures.LevelCooldown,
		},
		InitialVolume:     cfg.Playback.InitialVolume,
		VolumeStep:        cfg.Playback.VolumeStep,
		RefreshInterval:   cfg.Display.RefreshInterval,
		MaxRenderFailures: cfg.Display.MaxFailures,
		ScreenshotDir:     cfg.Screenshots.Dir,
	}
	if journal != nil {
		appConfig.Journal = journal
	}

	ctrl := &controls{}
	var dashboard *display.TUI
	switch mode {
	case config.DisplayTUI:
		dashboard = display.NewTUI(ctrl)
		appConfig.Renderer = dashboard
	default:
		appConfig.Renderer = display.NewLogRenderer(os.Stdout)
	}

	a := app.New(appConfig)
	ctrl.app = a

	appErr := make(chan error, 1)
	go func() {
		appErr <- a.Run(ctx)
		cancel()
	}()

	if cfg.Server.Listen != "" {
		srv := server.New(server.Config{
			Snapshots:    a.Publisher(),
			Store:        st,
			LiveInterval: cfg.Display.RefreshInterval,
		})
		go func() {
			log.Printf("http server listening on %s", cfg.Server.Listen)
			if err := srv.Run(ctx, cfg.Server.Listen); err != nil {
				log.Printf("http server: %v", err)
			}
		}()
	}

	go func() {
		err := config.Watch(ctx, configPath, func(c *config.Config) {
			a.ApplyConfig(app.GestureSettings{Cooldowns: gesture.Cooldowns{
				Edge:  c.Gestures.EdgeCooldown,
				Level: c.Gestures.LevelCooldown,
			}})
			log.Printf("config reloaded from %s", configPath)
		})
		if err != nil {
			log.Printf("config watch: %v", err)
		}
	}()

	if dashboard != nil {
		go func() {
			if err := dashboard.Run(); err != nil {
				log.Printf("dashboard: %v", err)
			}
			cancel()
		}()
		go func() {
			<-ctx.Done()
			dashboard.Quit()
		}()
	}

	if cfg.Tray.Enabled {
		runTray(ctx, cancel, a)
	}

	err = <-appErr

	if dashboard != nil {
		select {
		case <-dashboard.Done():
		case <-time.After(app.DefaultJoinTimeout):
		}
	}

	if journal != nil {
		if cerr := journal.Close(time.Now()); cerr != nil {
			log.Printf("close journal: %v", cerr)
		}
		if n := journal.Dropped(); n > 0 {
			log.Printf("journal dropped %d entries", n)
		}
	}

	if err != nil {
		return err
	}
	printSummary(cmd, a)
	return nil
}

// runTray shows the tray menu and blocks until ctx is done. It must run on
// the main goroutine.
func runTray(ctx context.Context, cancel context.CancelFunc, a *app.App) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnScreenshot(a.RequestScreenshot)
	t.OnQuit(cancel)
	a.OnEvent(func(ev gesture.Event) {
		t.SetLastGesture(ev.Label)
	})

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

func newDispatcher(cfg *config.Config) *control.Dispatcher {
	if cfg.Dispatch.Plugin == "" {
		return control.NewDispatcher(control.LogController{}, cfg.Dispatch.Timeout)
	}

	mgr := plugin.NewManager(cfg.Dispatch.PluginDir)
	if err := mgr.Discover(); err != nil {
		log.Printf("discover plugins in %s: %v", cfg.Dispatch.PluginDir, err)
	}

	ctrl, err := control.NewPluginController(mgr, cfg.Dispatch.Plugin,
		plugin.NewExecutor(cfg.Dispatch.Timeout), cfg.Playback.VolumeStep)
	if err != nil {
		if errors.Is(err, plugin.ErrPluginNotFound) {
			log.Printf("media plugin %q not found in %s, commands will only be logged",
				cfg.Dispatch.Plugin, cfg.Dispatch.PluginDir)
		} else {
			log.Printf("media plugin %q unusable, commands will only be logged: %v", cfg.Dispatch.Plugin, err)
		}
		return control.NewDispatcher(control.LogController{}, cfg.Dispatch.Timeout)
	}
	return control.NewDispatcher(ctrl, cfg.Dispatch.Timeout)
}

func printSummary(cmd *cobra.Command, a *app.App) {
	stats := a.Stats()
	cmd.Printf("Session ended after %s: %d gestures", stats.Duration(time.Now()).Round(time.Second), stats.Total)
	if k, ok := stats.MostUsed(); ok {
		cmd.Printf(", most used %s", k.Label())
	}
	cmd.Println()
}
