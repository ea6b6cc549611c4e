package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/providers"
	"github.com/jstittsworth/rugby-optimizer/internal/services"
	"github.com/jstittsworth/rugby-optimizer/pkg/config"
)

var (
	gameweek int
	outDir   string
	budget   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch upstream stats and write a canonical dataset snapshot",
		RunE:  run,
	}
	rootCmd.Flags().IntVarP(&gameweek, "gameweek", "g", 0, "round to fetch (defaults to GAMEWEEK)")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "", "snapshot directory (defaults to SNAPSHOT_DIR)")
	rootCmd.Flags().Float64Var(&budget, "budget", 0, "budget ceiling for the dataset (defaults to BUDGET)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.SixNationsToken == "" {
		return fmt.Errorf("SIXNATIONS_TOKEN is not set; log in on the fantasy site and export the token")
	}
	if gameweek == 0 {
		gameweek = cfg.Gameweek
	}
	if outDir == "" {
		outDir = cfg.SnapshotDir
	}
	if budget == 0 {
		budget = cfg.Budget
	}

	logger := logrus.StandardLogger()
	client := providers.NewSixNationsClient(providers.ClientConfig{
		BaseURL:   cfg.SixNationsBaseURL,
		Token:     cfg.SixNationsToken,
		AccessKey: cfg.SixNationsAccessKey,
		Timeout:   cfg.ProviderTimeout,
		RateLimit: cfg.ProviderRateLimit,
		CacheTTL:  cfg.CacheTTL,
	}, services.NewCacheService(nil), logger)
	builder := services.NewDatasetBuilder(client, logger)
	store := services.NewStore(nil, outDir, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ds, err := builder.Build(ctx, services.BuildConfig{
		Gameweek:       gameweek,
		Budget:         budget,
		MissingHistory: models.Availability(cfg.MissingHistoryDefault),
	})
	if err != nil {
		return err
	}

	path, err := store.SaveSnapshot(ds)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d players to %s\n", len(ds.Players), path)
	return nil
}
