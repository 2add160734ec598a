package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game-id>",
	Short: "Show high scores for a game type",
	Long: `Display the top 10 high scores for the given game type, plus its
aggregate play statistics.

Examples:
  pacnet scores 1
  pacnet scores 2 --db ./pacnet.db`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func runScores(_ *cobra.Command, args []string) {
	gameID, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: game id must be a number, got %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'pacnet games' to see available games.")
		os.Exit(1)
	}

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

	game, err := store.GameTypeByID(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error looking up game: %v\n", err)
		os.Exit(1)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "Error: unknown game id %d\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'pacnet games' to see available games.")
		os.Exit(1)
	}

	scores, err := store.HighScores(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", game.Name)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Player")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "------")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.Username)
	}

	if stats, err := store.GameStats(gameID); err == nil && stats != nil && stats.TimesPlayed > 0 {
		fmt.Println()
		fmt.Printf("Played %d times, %s in total\n",
			stats.TimesPlayed, stats.TotalDuration.Round(time.Second))
	}
}
