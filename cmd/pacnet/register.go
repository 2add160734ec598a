package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

var flagPassword string

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a player account",
	Long: `Create a player account directly in the store, without going through
a game client. Prompts for the password unless --password is given.

Examples:
  pacnet register alice
  pacnet register bob --password hunter2`,
	Args: cobra.ExactArgs(1),
	Run:  runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&flagPassword, "password", "", "Password (prompted if omitted)")
}

func runRegister(_ *cobra.Command, args []string) {
	username := args[0]

	password := flagPassword
	if password == "" {
		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			os.Exit(1)
		}
		password = string(raw)
	}
	if password == "" {
		fmt.Fprintln(os.Stderr, "Error: password must not be empty")
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

	rec, err := store.RegisterPlayer(username, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error registering player: %v\n", err)
		os.Exit(1)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "Error: username %q is already taken\n", username)
		os.Exit(1)
	}

	fmt.Printf("Registered %s (player id %d)\n", rec.Username, rec.ID)
}
