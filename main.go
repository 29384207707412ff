package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"PixelBoard/internal/board"
	"PixelBoard/internal/config"
	"PixelBoard/internal/export"
	"PixelBoard/internal/net"
	"PixelBoard/internal/state"
	"PixelBoard/internal/ui"
	"PixelBoard/internal/viewport"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "pixelboard.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg.Log)

	// A ws:// or wss:// argument overrides the configured endpoint.
	if arg := flag.Arg(0); strings.HasPrefix(arg, "ws://") || strings.HasPrefix(arg, "wss://") {
		cfg.Server.URL = arg
		cfg.Server.Discover = false
	}

	size := viewport.InitialSize(cfg.Viewport.AvailableWidth, cfg.Viewport.Margin, cfg.Viewport.Cap, state.GridSize)
	win := ui.NewWindow("Pixels", float32(size))

	session := board.NewSession(board.Options{
		Size:     size,
		Surface:  win.Board.Surface(),
		OnStatus: win.SetStatus,
		OnLoaded: win.ShowBoard,
	})
	win.Board.Bind(session)

	client := net.NewClient(net.ClientConfig{
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		MaxMessageSize:   cfg.Server.MaxMessageSize,
		SendBuffer:       cfg.Server.SendBuffer,
	}, net.Handlers{
		OnSnapshot:    session.ApplySnapshot,
		OnStateChange: session.ConnectionChanged,
	})
	session.SetSender(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go connect(ctx, cfg.Server, client)

	toolbar := ui.NewToolbar(session, func() {
		exportSnapshot(cfg.Export, session, client.ID, win)
	})
	ui.RunApp(win, toolbar)

	cancel()
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing connection")
	}
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// connect resolves the authority endpoint and opens the connection once.
func connect(ctx context.Context, cfg config.ServerConfig, client *net.Client) {
	url := cfg.URL
	if cfg.Discover {
		found, err := net.Resolve(ctx, cfg.URL, cfg.DiscoverTimeout)
		if err != nil {
			log.Error().Err(err).Msg("discovery failed and no url configured")
		}
		url = found
	}
	if err := client.Connect(ctx, url); err != nil {
		// The state handler has already put the error on screen.
		log.Debug().Err(err).Msg("connect returned")
	}
}

func exportSnapshot(cfg config.ExportConfig, session *board.Session, clientID string, win *ui.Window) {
	snap := session.Snapshot()
	if len(snap) == 0 {
		win.SetStatus("Nothing to export yet")
		return
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", cfg.Dir).Msg("failed to create export directory")
		win.SetStatus("Export failed")
		return
	}

	path := filepath.Join(cfg.Dir, fmt.Sprintf("pixelboard-%s.pdf", time.Now().Format("20060102-150405")))
	if err := export.PDF(path, snap, clientID); err != nil {
		log.Error().Err(err).Str("path", path).Msg("export failed")
		win.SetStatus("Export failed")
		return
	}
	log.Info().Str("path", path).Msg("snapshot exported")
	win.SetStatus("Exported to " + path)
}
