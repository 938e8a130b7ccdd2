package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetmove/internal/auth"
	intconfig "fleetmove/internal/config"
	"fleetmove/internal/domain/models"
	router "fleetmove/internal/http"
	"fleetmove/internal/http/pages"
	"fleetmove/internal/moveapi"
	"fleetmove/internal/portal"
	"fleetmove/internal/repositories"
	"fleetmove/internal/services"
	"fleetmove/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// portalTokenTTL outlives any realistic server uptime; the token is minted per process.
const portalTokenTTL = 90 * 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API and the admin portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiOnly, _ := cmd.Flags().GetBool("api-only")
		portalOnly, _ := cmd.Flags().GetBool("portal-only")
		if apiOnly && portalOnly {
			return errors.New("--api-only and --portal-only are mutually exclusive")
		}
		return serve(env(), !portalOnly, !apiOnly)
	},
}

func init() {
	serveCmd.Flags().Bool("api-only", false, "serve only the REST API")
	serveCmd.Flags().Bool("portal-only", false, "serve only the portal pages (API_BASE_URL points elsewhere)")
	serveCmd.Flags().String("addr", "", "listen address (default APP_ADDR)")
	_ = v.BindPFlag("APP_ADDR", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

func serve(env intconfig.Env, withAPI, withPortal bool) error {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}
	loc := utils.LoadLocation(env.Timezone)
	tokens := auth.NewTokens(env.JWTSecret, 0)

	deps := router.Deps{Env: env, Loc: loc, Tokens: tokens, APIOff: !withAPI}

	if withAPI {
		db, err := intconfig.ConnectDB(env)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		defer intconfig.CloseDB()

		requestRepo := repositories.TransportRequestRepository{DB: db}
		driverRepo := repositories.DriverRepository{DB: db}
		deps.TransportRequests = services.TransportRequestService{Repo: requestRepo, Loc: loc, PageSize: env.PageSize}
		deps.Trips = services.TripService{Requests: requestRepo, Drivers: driverRepo, Loc: loc}
		deps.Docs = services.DocsService{Requests: deps.TransportRequests, Drivers: driverRepo}
		deps.Auth = services.AuthService{Users: repositories.UserRepository{DB: db}, Tokens: tokens}
		deps.Drivers = driverRepo
		deps.Vehicles = services.VehicleService{Repo: repositories.VehicleRepository{DB: db}, PageSize: env.PageSize}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var sessions *portal.Sessions
	if withPortal {
		token := ""
		if tokens.Enabled() {
			var err error
			token, err = auth.NewTokens(env.JWTSecret, portalTokenTTL).Issue(0, models.RolePortal, 0)
			if err != nil {
				return fmt.Errorf("issue portal token: %w", err)
			}
		}
		client := moveapi.New(moveapi.Config{BaseURL: env.APIBaseURL, Timeout: env.APITimeout, Token: token})
		sessions = portal.NewSessions(client, portal.SessionsConfig{
			Fetch:    portal.ClientFetcher[models.TransportRequest](client),
			Vehicles: portal.ClientFetcher[models.Vehicle](client),
			Query:    portal.QueryConfig{PageSize: env.PageSize},
			Loc:      loc,
			TTL:      env.SessionTTL,
		})
		defer sessions.CloseAll()
		go sessions.Run(ctx, time.Minute)

		deps.Portal = &pages.Handler{
			Sessions:  sessions,
			Tickets:   client,
			CookieTTL: env.SessionTTL,
		}
	}

	r := router.NewRouter(deps)
	router.LogRoutes(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		utils.LogEvent("", "server", "listen", "listening on http://localhost"+env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	utils.LogEvent("", "server", "shutdown", "shutting down")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	utils.LogEvent("", "server", "shutdown", "stopped cleanly")
	return nil
}
