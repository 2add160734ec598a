// pacnet is a multiplayer game session server speaking a line-oriented
// TCP protocol, with optional WebSocket and HTTP API surfaces.
//
// Usage:
//
//	pacnet serve               - Start the server
//	pacnet games               - List the game catalogue
//	pacnet scores <game-id>    - Show high scores for a game type
//	pacnet register <username> - Create a player account
//
// Global flags:
//
//	--config <path>  - Path to a config file (default: search then embedded)
//	--db <path>      - Override the database path
//	--store <name>   - Storage driver: sqlite or memory
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pacnet/internal/config"
	"github.com/vovakirdan/pacnet/internal/storage"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
	flagStore  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pacnet",
	Short: "Pacnet - multiplayer game session server",
	Long: `Pacnet hosts multiplayer game sessions over a line-oriented TCP
protocol: clients connect, authenticate, join games, exchange gameplay
traffic, and the server reconciles their score reports into match records.

Available commands:
  serve      - Start the server
  games      - List the game catalogue
  scores     - View high scores for a game type
  register   - Create a player account

Examples:
  pacnet serve
  pacnet serve --store memory
  pacnet games
  pacnet scores 1
  pacnet register alice`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Storage driver: sqlite or memory (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(registerCmd)
}

// loadConfig resolves the configuration, applying the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagStore != "" {
		cfg.Storage.Driver = flagStore
	}
	return cfg, cfg.Validate()
}

// openStore opens the store the configuration selects.
func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return storage.NewMemory(), nil
	default:
		return storage.Open(cfg.Storage.Path)
	}
}
