package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"wedding-guests/internal/cli"
	"wedding-guests/internal/config"
	"wedding-guests/internal/handler"
	"wedding-guests/internal/logging"
	"wedding-guests/internal/storage"
	"wedding-guests/internal/store"
	"wedding-guests/internal/view"
	"wedding-guests/internal/web"
	"wedding-guests/internal/whatsapp"
)

func main() {
	fmt.Println("💍 Wedding Guest List")
	fmt.Println("=====================")

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Goodbye! 👋")
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer closeBackend()

	guests := store.Open(backend, log)
	log.Info().Str("storage", cfg.Storage).Int("guests", guests.Len()).Msg("Guest list loaded")

	var sharer cli.Sharer
	if cfg.WhatsAppEnabled {
		service, err := whatsapp.NewService(ctx, &whatsapp.Config{DataDir: cfg.WhatsAppDataDir}, log)
		if err != nil {
			return fmt.Errorf("initializing WhatsApp service: %w", err)
		}
		fmt.Println("Connecting to WhatsApp...")
		if err := service.Connect(ctx); err != nil {
			return fmt.Errorf("connecting to WhatsApp: %w", err)
		}
		defer service.Disconnect()
		sharer = handler.NewShare(guests, service, cfg.WhatsAppShareTo, cfg.EventTitle)
	}

	var server *web.Server
	if cfg.HTTPAddr != "" {
		grid := view.NewGrid(guests)
		defer grid.Close()
		server = web.NewServer(guests, grid, cfg.EventTitle, log)
		go func() {
			if err := server.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Server stopped")
			}
		}()
		fmt.Printf("🌐 Open http://%s in your browser\n", displayAddr(cfg.HTTPAddr))
	}

	// Start interactive CLI
	done := make(chan struct{})
	go func() {
		defer close(done)
		grid := view.NewGrid(guests)
		defer grid.Close()
		c := cli.New(os.Stdin, os.Stdout, cli.Config{
			Store:     guests,
			Grid:      grid,
			ExportDir: cfg.ExportDir,
			Share:     sharer,
		}, log)
		c.Run(ctx)
		c.Wait()
	}()

	select {
	case <-ctx.Done():
	case <-done:
		// stdin closed or exit chosen; keep serving the web page if it is up
		if server != nil {
			<-ctx.Done()
		}
	}

	fmt.Println("\n\nShutting down...")
	shutdown(server, log)
	return nil
}

// openBackend is a variable so tests can observe the backend being closed
var openBackend = func(cfg *config.Config) (storage.Backend, func(), error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		db, err := storage.OpenSQLite(filepath.Join(cfg.DataDir, cfg.StorageKey+".db"), cfg.StorageKey)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case config.StorageMemory:
		return storage.NewMemory(), func() {}, nil
	default:
		return storage.NewFile(cfg.DataDir, cfg.StorageKey), func() {}, nil
	}
}

func shutdown(server *web.Server, log zerolog.Logger) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
