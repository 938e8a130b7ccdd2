package cmd

import (
	"os"

	intconfig "fleetmove/internal/config"
	"fleetmove/internal/utils"

	"github.com/spf13/cobra"
)

var v = intconfig.NewViper()

var rootCmd = &cobra.Command{
	Use:   "fleetmove",
	Short: "Fleet move transport requests: REST API and admin portal",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.ConfigureLogger(v.GetString("LOG_LEVEL"), v.GetString("LOG_FORMAT"), os.Stderr)
	},
	SilenceUsage: true,
}

// Execute runs the root command. It is called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text or json)")
	_ = v.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("LOG_FORMAT", rootCmd.PersistentFlags().Lookup("log-format"))
}

// env reads the configuration after flags have been parsed.
func env() intconfig.Env {
	return intconfig.EnvFrom(v)
}
