package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eastwood-fallfest/festmap/internal/config"
	"github.com/eastwood-fallfest/festmap/internal/controller"
	"github.com/eastwood-fallfest/festmap/internal/dataset"
	"github.com/eastwood-fallfest/festmap/internal/dispatcher"
	"github.com/eastwood-fallfest/festmap/internal/geo"
	"github.com/eastwood-fallfest/festmap/internal/httpapi"
	"github.com/eastwood-fallfest/festmap/internal/influx"
	"github.com/eastwood-fallfest/festmap/internal/logging"
	"github.com/eastwood-fallfest/festmap/internal/metrics"
	"github.com/eastwood-fallfest/festmap/internal/model"
	"github.com/eastwood-fallfest/festmap/internal/stream"
	"github.com/eastwood-fallfest/festmap/internal/surface"
	"github.com/eastwood-fallfest/festmap/pkg/core"
	"github.com/eastwood-fallfest/festmap/pkg/streaming"
)

const (
	shutdownTimeout  = 10 * time.Second
	watchDebounce    = 250 * time.Millisecond
	clientGaugeEvery = 5 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the map over HTTP and WebSocket",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from http.addr)")
	serveCmd.Flags().String("dataset", "", "dataset file, JSON or YAML (default: built-in)")
	serveCmd.Flags().Bool("watch", false, "reload the dataset file when it changes")

	_ = viper.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("dataset.path", serveCmd.Flags().Lookup("dataset"))
	_ = viper.BindPFlag("dataset.watch", serveCmd.Flags().Lookup("watch"))
}

// loadDataset reads the configured dataset file or falls back to the
// built-in one.
func loadDataset(path string) (dataset.Dataset, error) {
	if path == "" {
		return dataset.Builtin(), nil
	}
	return dataset.Load(path)
}

// resolveBase prefers the configured base point over the dataset's.
func resolveBase(mapCfg config.MapConfig, ds dataset.Dataset) (core.LatLng, error) {
	if mapCfg.Base != "" {
		return geo.ParseLatLng(mapCfg.Base)
	}
	if ds.Base != nil {
		return *ds.Base, nil
	}
	return core.LatLng{}, fmt.Errorf("no base point configured: %w", geo.ErrInvalidCoordinates)
}

func runServe(cmd *cobra.Command, _ []string) error {
	festival := viper.GetString("festival.name")
	if err := setupLogging(festival); err != nil {
		return err
	}
	defer LogFile.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logLevel := viper.GetString("logLevel")
	mapCfg := config.GetMapConfig()
	datasetCfg := config.GetDatasetConfig()

	ds, err := loadDataset(datasetCfg.Path)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	base, err := resolveBase(mapCfg, ds)
	if err != nil {
		return err
	}
	Logger.Info("Dataset loaded",
		"path", datasetCfg.Path,
		"vendors", len(ds.Vendors),
		"infrastructure", len(ds.Infrastructure),
		"base", base.String())

	backend, err := initStorage(config.GetStorageConfig(), model.FestivalInfo{
		Name:    festival,
		BaseLat: base.Lat(),
		BaseLng: base.Lng(),
	}, logging.NewZerolog(LogFile, logLevel, "storage"))
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(); err != nil {
			Logger.Error("Failed to close storage backend", "error", err)
		}
	}()

	mem := surface.NewMemory(surface.MemoryOptions{Center: base, Zoom: mapCfg.FocusZoom})

	// The hub and metrics are created after the controller but receive its
	// captures, so they are captured by reference.
	var (
		hub *stream.Hub
		m   *metrics.Metrics
	)
	ctrl := controller.New(controller.Config{
		Festival:    festival,
		Base:        base,
		FeaturedIDs: mapCfg.FeaturedIDs,
		FocusZoom:   mapCfg.FocusZoom,
	}, controller.Dependencies{
		Surface:  mem,
		Gestures: mem,
		Storage:  backend,
		Logger:   SlogManager.Component("controller"),
		OnCapture: func(c controller.Capture) {
			m.IncCapture(c.Registry)
			if hub != nil {
				hub.Broadcast(streaming.TypeCapture, c)
			}
		},
	}, ds)
	defer ctrl.Close()

	m = metrics.New(ctrl.Stats)

	d, err := dispatcher.New(logging.NewDispatcherLogger(logging.NewZerolog(LogFile, logLevel, "dispatcher")))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	ctrl.Register(d)
	Logger.Debug("Registered commands", "commands", d.Commands())

	hub = stream.NewHub(stream.Options{
		Festival:   festival,
		Surface:    mem,
		Dispatcher: d,
		Logger:     SlogManager.Component("stream"),
	})
	defer hub.Close()

	if datasetCfg.Watch && datasetCfg.Path != "" {
		watcher, err := startWatcher(datasetCfg.Path, d)
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Stop() }()
	}

	if influxCfg := config.GetInfluxConfig(); influxCfg.Enabled {
		stopInflux := startInflux(ctx, influxCfg, ctrl, festival, logLevel)
		defer stopInflux()
	}

	go reportClients(ctx, hub, m)

	api := httpapi.NewHandler(httpapi.Dependencies{
		Log:        logging.NewZerolog(LogFile, logLevel, "http"),
		Controller: ctrl,
		Dispatcher: d,
		Stream:     hub,
		Metrics:    m,
	})
	srv := &http.Server{
		Addr:              viper.GetString("http.addr"),
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		Logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		Logger.Info("Shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		Logger.Error("HTTP shutdown failed", "error", err)
	}
	if err := SlogManager.Flush(shutdownCtx); err != nil {
		Logger.Warn("Failed to flush logs", "error", err)
	}
	if err := OTelProvider.Shutdown(shutdownCtx); err != nil {
		Logger.Warn("Failed to shut down OpenTelemetry", "error", err)
	}
	return nil
}

// startWatcher reloads the dataset through the dispatcher so reloads are
// applied in order on the dispatcher's worker.
func startWatcher(path string, d *dispatcher.Dispatcher) (*dataset.Watcher, error) {
	watcher, err := dataset.NewWatcher(path, watchDebounce, func(ds dataset.Dataset) {
		raw, err := json.Marshal(ds)
		if err != nil {
			Logger.Error("Failed to encode reloaded dataset", "error", err)
			return
		}
		if _, err := d.Dispatch(dispatcher.Event{
			Command: controller.CmdDatasetReload,
			Payload: raw,
			Source:  "watcher",
		}); err != nil {
			Logger.Error("Failed to queue dataset reload", "error", err)
		}
	}, SlogManager.Component("watcher"))
	if err != nil {
		return nil, fmt.Errorf("creating dataset watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return nil, fmt.Errorf("starting dataset watcher: %w", err)
	}
	Logger.Info("Watching dataset", "path", path)
	return watcher, nil
}

// startInflux connects the stats reporter. An unreachable server writes to
// a gzip backup next to the logs.
func startInflux(ctx context.Context, cfg config.InfluxConfig, ctrl *controller.Controller, festival, logLevel string) func() {
	log := logging.NewZerolog(LogFile, logLevel, "influx")
	backupPath := filepath.Join(viper.GetString("logsDir"),
		fmt.Sprintf("%s_influx_%s.gz", AppName, SessionStartTime.Format("20060102_150405")))

	manager := influx.NewManager(cfg, log, backupPath)
	if err := manager.Connect(ctx); err != nil {
		Logger.Error("Failed to start influx reporter", "error", err)
		return func() {}
	}

	reporter := influx.NewReporter(manager, ctrl.Stats, festival, cfg.Interval, log)
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		reporter.Run(runCtx)
	}()
	Logger.Info("Influx reporter started", "interval", cfg.Interval, "valid", manager.IsValid)

	return func() {
		cancel()
		<-done
		if err := manager.Close(); err != nil {
			Logger.Warn("Failed to close influx", "error", err)
		}
	}
}

func reportClients(ctx context.Context, hub *stream.Hub, m *metrics.Metrics) {
	ticker := time.NewTicker(clientGaugeEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SetStreamClients(hub.Clients())
		}
	}
}
