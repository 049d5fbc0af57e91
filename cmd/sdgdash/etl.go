package main

import (
	"errors"
	"time"

	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/service/etl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var etlYear int

var etlCmd = &cobra.Command{
	Use:   "etl",
	Short: "Ask a running server to recompute goal progress for a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := viper.GetString(constants.ViperETLTriggerURLKey)
		if endpoint == "" {
			return errors.New("etl.trigger_url is not configured")
		}

		year := etlYear
		if year == 0 {
			year = time.Now().UTC().Year()
		}

		if err := etl.NewTrigger(endpoint, calculatorRetry()).Fire(cmd.Context(), year); err != nil {
			return err
		}
		logger.Infof(cmd.Context(), "etl: aggregation for %d triggered", year)
		return nil
	},
}

func init() {
	etlCmd.Flags().IntVar(&etlYear, "year", 0, "year to aggregate, defaults to the current year")
}
