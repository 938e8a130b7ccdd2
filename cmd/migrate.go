package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	intconfig "fleetmove/internal/config"
	"fleetmove/internal/db"
	"fleetmove/internal/utils"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := intconfig.ConnectDB(env())
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		defer intconfig.CloseDB()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		applied, err := db.Migrate(ctx, conn)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			utils.LogEvent("", "migrate", "apply", "schema up to date")
			return nil
		}
		utils.LogEvent("", "migrate", "apply", "applied "+strings.Join(applied, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
