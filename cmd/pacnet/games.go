package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the game catalogue",
	Long: `Display every game type the server can host, with the player count
a session of it requires.

Examples:
  pacnet games`,
	Args: cobra.NoArgs,
	Run:  runGames,
}

func runGames(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	games, err := store.GameTypes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing games: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("  %-4s  %-20s  %s\n", "ID", "Name", "Players")
	fmt.Printf("  %-4s  %-20s  %s\n", "--", "----", "-------")
	for _, g := range games {
		fmt.Printf("  %-4d  %-20s  %d\n", g.ID, g.Name, g.Players)
	}
}
