package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	intconfig "fleetmove/internal/config"
	"fleetmove/internal/domain/models"
	"fleetmove/internal/repositories"
	"fleetmove/internal/services"
	"fleetmove/internal/utils"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage API users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin or driver user",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		email, _ := f.GetString("email")
		name, _ := f.GetString("name")
		password, _ := f.GetString("password")
		role, _ := f.GetString("role")
		driverID, _ := f.GetInt64("driver-id")

		u := models.User{Name: name, Email: email, Role: role}
		if driverID > 0 {
			u.DriverID = &driverID
		}

		conn, err := intconfig.ConnectDB(env())
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		defer intconfig.CloseDB()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		svc := services.AuthService{Users: repositories.UserRepository{DB: conn}}
		created, err := svc.Register(ctx, u, password)
		if err != nil {
			return err
		}
		utils.LogEvent("", "user", "create", "created user "+strconv.FormatInt(created.ID, 10)+" ("+created.Email+", "+created.Role+")")
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.String("email", "", "login email")
	f.String("name", "", "display name")
	f.String("password", "", "password, at least 8 characters")
	f.String("role", models.RoleAdmin, "admin or driver")
	f.Int64("driver-id", 0, "move_drivers id for driver users")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
