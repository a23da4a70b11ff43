package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/careerlens/careerlens/internal/profile"
	apiv1 "github.com/careerlens/careerlens/server/router/api/v1"
	"github.com/careerlens/careerlens/server/runner/embedding"
	"github.com/careerlens/careerlens/store"
	"github.com/careerlens/careerlens/store/db"
)

const greetingBanner = `careerlens - career coaching and salary benchmark backend`

var rootCmd = &cobra.Command{
	Use:   "careerlens",
	Short: "Career coaching and salary benchmark backend",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Data:    viper.GetString("data"),
			Driver:  viper.GetString("driver"),
			DSN:     viper.GetString("dsn"),
			Secret:  viper.GetString("secret"),
			Version: "0.1.0",
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}
		storeInstance := store.New(dbDriver, instanceProfile)
		defer storeInstance.Close()

		if err := storeInstance.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		apiService := apiv1.NewAPIV1Service(instanceProfile.Secret, instanceProfile, storeInstance)
		defer apiService.Close()

		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		apiService.Register(e)

		if apiService.DocumentService != nil {
			runner := embedding.NewRunner(storeInstance, []embedding.Target{
				{Kind: store.RecordKindDocument, Syncer: apiService.DocumentService.Syncer()},
				{Kind: store.RecordKindSalary, Syncer: apiService.SalaryService.Syncer()},
				{Kind: store.RecordKindProfile, Syncer: apiService.CoachingService.Syncer()},
			})
			go runner.Run(ctx)
		}

		address := fmt.Sprintf("%s:%d", instanceProfile.Addr, instanceProfile.Port)
		go func() {
			slog.Info(greetingBanner)
			slog.Info("server started", "address", address, "mode", instanceProfile.Mode)
			if err := e.Start(address); err != nil && err != http.ErrServerClosed {
				slog.Error("server stopped", "error", err)
				cancel()
			}
		}()

		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down server", "error", err)
		}
		slog.Info("server shut down")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server: "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver: "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("secret", "careerlens", "secret used to sign access tokens")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("careerlens")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
