package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/zaplink/zaplink/internal/config"
)

// Cfg holds the loaded configuration, available to every subcommand.
var Cfg *config.Config

// RootCmd is the base command. Subcommands (run-server, migrate, stats,
// seed) register themselves via their own init() functions, which keeps the
// root free of import cycles.
var RootCmd = &cobra.Command{
	Use:   "zaplink",
	Short: "Link-in-bio profile service",
	Long: `Backend for a link-in-bio profile builder: claim a username, curate an
ordered list of links, and track view/click analytics over time.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

// initConfig runs before every command and loads configuration from file,
// environment and defaults.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Problem loading configuration: %v. Using default values.", err)
	}
}
