package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"simulador/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "simulador",
	Short: "Simulador CLI - budgets and profitability for small businesses",
	Long: `Simulador CLI is the command-line client of the Simulador de Lucratividade
API. It manages customers, products, additional services and budgets, and
estimates the profitability of a budget from its items, additional costs and
services.

Sign in once with "simulador login"; the token pair is kept in the session
store configured by SESSION_STORE and refreshed automatically.`,
	Version:      version,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Simulador CLI executed")

		fmt.Fprintln(cmd.OutOrStdout(), "Welcome to Simulador CLI!")
		fmt.Fprintln(cmd.OutOrStdout(), "Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of tables")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Write JSON output to a file (default: stdout)")
	rootCmd.PersistentFlags().Int("timeout", 30, "Command timeout in seconds")
}
