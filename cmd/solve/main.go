package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jstittsworth/rugby-optimizer/internal/models"
	"github.com/jstittsworth/rugby-optimizer/internal/optimizer"
	"github.com/jstittsworth/rugby-optimizer/internal/roster"
)

var (
	datasetPath   string
	pins          []string
	drops         []string
	captainPin    string
	supersubPin   string
	maxPerCountry int
	timeout       time.Duration
	asJSON        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "solve",
		Short: "Pick the optimal fantasy rugby team from a dataset snapshot",
		RunE:  run,
	}
	rootCmd.Flags().StringVarP(&datasetPath, "dataset", "d", "data.json", "dataset snapshot to solve")
	rootCmd.Flags().StringArrayVar(&pins, "pin", nil, "candidate id or name to force into the side (repeatable)")
	rootCmd.Flags().StringArrayVar(&drops, "drop", nil, "candidate id or name to force out of the side (repeatable)")
	rootCmd.Flags().StringVar(&captainPin, "captain", "", "candidate id or name to force as captain")
	rootCmd.Flags().StringVar(&supersubPin, "supersub", "", "candidate id or name to force as supersub")
	rootCmd.Flags().IntVar(&maxPerCountry, "max-per-country", 4, "maximum players from one country, supersub included")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "solver timeout")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "emit the solved team as JSON")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logrus.StandardLogger()

	ds, err := models.LoadDataset(datasetPath)
	if err != nil {
		return err
	}
	reg, err := roster.New(ds, logger)
	if err != nil {
		return err
	}

	cfg := optimizer.DefaultConfig()
	cfg.MaxPerCountry = maxPerCountry
	cfg.SolveTimeout = timeout
	model := optimizer.New(reg, cfg, logger)

	for _, pin := range pins {
		if err := model.PinSelect(pin, true); err != nil {
			return err
		}
	}
	for _, drop := range drops {
		if err := model.PinSelect(drop, false); err != nil {
			return err
		}
	}
	if captainPin != "" {
		if err := model.PinCaptain(captainPin); err != nil {
			return err
		}
	}
	if supersubPin != "" {
		if err := model.PinSupersub(supersubPin); err != nil {
			return err
		}
	}

	team, err := model.Solve(context.Background())
	if errors.Is(err, optimizer.ErrInfeasible) {
		return fmt.Errorf("%w; relax the budget, overrides or country cap", err)
	}
	if err != nil {
		return err
	}

	if asJSON {
		out, err := json.MarshalIndent(team, "", "    ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Print(team.Render())
	return nil
}
