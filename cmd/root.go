package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/st-academy/academy/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "academy",
	Short: "Learn Solana in your terminal",
	Long:  "Academy is a terminal course on Solana: short lessons, quizzes, XP and optional on-chain receipts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default ./academy.yaml or $XDG_CONFIG_HOME/academy/academy.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides ACADEMY_DB env var)")
	pf.String("wallet", "", "Wallet address whose progress to use (read-only)")
	pf.String("keypair", "", "Solana CLI keypair file used to sign receipts")
	pf.String("backend", "", "Progress storage backend: sqlite, file, memory, redis, postgres")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(tracksCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration with the persistent flags layered on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	flags := cmd.Flags()
	return config.Load(file,
		config.FlagBinding{Key: "storage.db_path", Flag: flags.Lookup("db")},
		config.FlagBinding{Key: "storage.backend", Flag: flags.Lookup("backend")},
		config.FlagBinding{Key: "identity.wallet", Flag: flags.Lookup("wallet")},
		config.FlagBinding{Key: "identity.keypair", Flag: flags.Lookup("keypair")},
		config.FlagBinding{Key: "log.level", Flag: flags.Lookup("log-level")},
	)
}
