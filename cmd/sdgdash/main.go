package main

import (
	"context"

	"github.com/ougirez/sdgdash/internal/pkg/config"
	"github.com/ougirez/sdgdash/internal/pkg/constants"
	"github.com/ougirez/sdgdash/internal/pkg/logger"
	"github.com/ougirez/sdgdash/internal/pkg/retry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "sdgdash",
		Short:         "Sustainable Development Goals dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(configPath); err != nil {
				return err
			}
			return logger.Init(viper.GetString(constants.ViperLogLevelKey), viper.GetBool(constants.ViperDebugKey))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (yaml, json or toml)")
	rootCmd.AddCommand(serveCmd, etlCmd)
}

func calculatorRetry() retry.Config {
	return retry.Config{
		MaxRetries:        viper.GetInt(constants.ViperCalculatorRetries),
		RetryDelay:        viper.GetDuration(constants.ViperCalculatorDelay),
		BackoffMultiplier: viper.GetFloat64(constants.ViperCalculatorBackoff),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(context.Background(), err)
	}
}
