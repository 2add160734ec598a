package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pacnet/internal/api"
	"github.com/vovakirdan/pacnet/internal/session"
	"github.com/vovakirdan/pacnet/internal/transport"
)

var flagVerbose bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game session server",
	Long: `Start the server: a TCP listener for game clients, and optionally a
WebSocket listener and a read-only HTTP API when the config enables them.

Examples:
  pacnet serve                          # Listen per config (default :4444)
  pacnet serve --store memory           # Throwaway server, canned store
  pacnet serve --db ./pacnet.db         # Use a specific database
  pacnet serve -v                       # Debug logging`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pacnet",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		logger.Fatal("failed to open store", "err", err)
	}
	defer store.Close()

	lobby := session.NewLobby(store, session.Config{
		TickInterval: cfg.Session.TickInterval(),
		DeadTimeout:  cfg.Session.DeadTimeout(),
		PingInterval: cfg.Session.PingInterval(),
	}, logger)
	go lobby.Run()
	defer lobby.Close()

	accept := func(c transport.Conn) { lobby.Accept(c) }

	tcpServer, err := transport.NewTCPServer(cfg.Server.Listen, logger, accept)
	if err != nil {
		logger.Fatal("failed to listen", "addr", cfg.Server.Listen, "err", err)
	}
	go func() {
		if err := tcpServer.Serve(); err != nil {
			logger.Error("tcp server stopped", "err", err)
		}
	}()
	logger.Info("listening", "addr", tcpServer.Addr())

	var wsServer *transport.WSServer
	if cfg.Server.WebSocketListen != "" {
		wsServer = transport.NewWSServer(cfg.Server.WebSocketListen, logger, accept)
		go func() {
			if err := wsServer.Serve(); err != nil {
				logger.Error("websocket server stopped", "err", err)
			}
		}()
	}

	var apiServer *api.Server
	if cfg.Server.APIListen != "" {
		apiServer = api.New(cfg.Server.APIListen, store, logger)
		go func() {
			if err := apiServer.ListenAndServe(); err != nil {
				logger.Error("api server stopped", "err", err)
			}
		}()
	}

	fmt.Printf("Pacnet server listening on %s\n", cfg.Server.Listen)
	fmt.Println("Press Ctrl+C to stop")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if apiServer != nil {
		if err := apiServer.Shutdown(ctx); err != nil {
			logger.Error("api shutdown", "err", err)
		}
	}
	if wsServer != nil {
		if err := wsServer.Close(); err != nil {
			logger.Error("websocket shutdown", "err", err)
		}
	}
	if err := tcpServer.Close(); err != nil {
		logger.Error("tcp shutdown", "err", err)
	}
}
